package service

import (
	"strings"
	"unicode"

	"github.com/ateeq/quizforge/internal/model"
)

// verdictFunc decides one answer. expected is the raw expected value and
// expectedText its human-readable form, when different.
type verdictFunc func(q *model.Question, answer string) (correct bool, expected, expectedText string)

var scoringStrategies = map[model.QuestionType]verdictFunc{
	model.QuestionTypeMCQ:       scoreMCQ,
	model.QuestionTypeTrueFalse: scoreTrueFalse,
	model.QuestionTypeFillBlank: scoreFillBlank,
}

// ScoreQuiz grades answers against every question of quiz. Missing answers
// count toward the total and score zero.
func ScoreQuiz(quiz *model.Quiz, answers model.AnswerSheet) model.Result {
	result := model.Result{
		Total:    len(quiz.Questions),
		Verdicts: make([]model.Verdict, 0, len(quiz.Questions)),
	}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		answer, _ := answers.Get(q.ID.String())
		v := model.Verdict{
			QuestionID:   q.ID.String(),
			QuestionType: q.QuestionType,
			Answer:       answer,
			Answered:     strings.TrimSpace(answer) != "",
		}
		if strategy, ok := scoringStrategies[q.QuestionType]; ok {
			var correct bool
			correct, v.Expected, v.ExpectedText = strategy(q, answer)
			v.Correct = v.Answered && correct
		}
		if v.Correct {
			result.Score++
		}
		result.Verdicts = append(result.Verdicts, v)
	}
	return result
}

func scoreMCQ(q *model.Question, answer string) (bool, string, string) {
	correct := q.CorrectOption()
	if correct == nil {
		return false, "", ""
	}
	expected := correct.ID.String()
	return answer == expected, expected, correct.Text
}

func scoreTrueFalse(q *model.Question, answer string) (bool, string, string) {
	if q.ExpectedAnswer == "" {
		return false, "", ""
	}
	return strings.EqualFold(answer, q.ExpectedAnswer), q.ExpectedAnswer, ""
}

func scoreFillBlank(q *model.Question, answer string) (bool, string, string) {
	expected := q.ExpectedAnswer
	if strings.TrimSpace(expected) == "" {
		return false, expected, ""
	}
	return FillBlankMatches(expected, answer), expected, ""
}

// FillBlankMatches compares a free-text answer. Arabic text must match exactly
// after trimming, diacritics included; other text ignores case.
func FillBlankMatches(expected, answer string) bool {
	e, a := strings.TrimSpace(expected), strings.TrimSpace(answer)
	if a == "" {
		return false
	}
	if hasArabic(e) || hasArabic(a) {
		return e == a
	}
	return strings.EqualFold(e, a)
}

func hasArabic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
