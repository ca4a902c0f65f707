package handler

import (
	"net/http"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/response"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/ateeq/quizforge/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PlayHandler serves the public learner endpoints.
type PlayHandler struct {
	quizService *service.QuizService
	playService *service.PlayService
	log         zerolog.Logger
}

// NewPlayHandler creates a new PlayHandler.
func NewPlayHandler(quizService *service.QuizService, playService *service.PlayService, log zerolog.Logger) *PlayHandler {
	return &PlayHandler{
		quizService: quizService,
		playService: playService,
		log:         log.With().Str("component", "play_handler").Logger(),
	}
}

// GetQuiz godoc
// GET /api/v1/play/quizzes/:ref
// Returns a quiz by id or slug without answer keys.
func (h *PlayHandler) GetQuiz(c *gin.Context) {
	quiz, err := h.quizService.GetByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz.ForLearner()})
}

// StartSession godoc
// POST /api/v1/play/sessions
// Starts a session, or rebinds an existing one to another quiz.
func (h *PlayHandler) StartSession(c *gin.Context) {
	var req model.StartPlayRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.playService.Start(c.Request.Context(), req.Quiz, req.SessionID)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// GetSession godoc
// GET /api/v1/play/sessions/:id
func (h *PlayHandler) GetSession(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	session, err := h.playService.Session(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// SetAnswer godoc
// PUT /api/v1/play/sessions/:id/answers/:question_id
func (h *PlayHandler) SetAnswer(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	questionID, ok := paramUUID(c, "question_id")
	if !ok {
		return
	}

	var req model.SetAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.playService.SetAnswer(c.Request.Context(), id, questionID, req.Answer); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question_id": questionID, "answer": req.Answer})
}

// GetAnswers godoc
// GET /api/v1/play/sessions/:id/answers
func (h *PlayHandler) GetAnswers(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	answers, err := h.playService.Answers(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// FinishSession godoc
// POST /api/v1/play/sessions/:id/finish
// Scores the session; repeated calls return the same result.
func (h *PlayHandler) FinishSession(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	result, err := h.playService.Finish(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result, "percent": result.Percent()})
}

// ResetSession godoc
// POST /api/v1/play/sessions/:id/reset
func (h *PlayHandler) ResetSession(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	session, err := h.playService.Reset(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}
