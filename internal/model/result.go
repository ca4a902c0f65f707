package model

// Verdict is the scoring outcome for a single question.
type Verdict struct {
	QuestionID   string       `json:"question_id"`
	QuestionType QuestionType `json:"question_type"`
	Answer       string       `json:"answer,omitempty"`
	Answered     bool         `json:"answered"`
	Expected     string       `json:"expected,omitempty"`
	ExpectedText string       `json:"expected_text,omitempty"`
	Correct      bool         `json:"correct"`
}

// Result is the score of a finished quiz.
type Result struct {
	Score    int       `json:"score"`
	Total    int       `json:"total"`
	Verdicts []Verdict `json:"verdicts"`
}

// Percent returns score/total as a percentage, 0 for an empty quiz.
func (r Result) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}
