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

// QuizHandler handles quiz metadata endpoints.
type QuizHandler struct {
	quizService     *service.QuizService
	deletionService *service.DeletionService
	log             zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, deletionService *service.DeletionService, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService:     quizService,
		deletionService: deletionService,
		log:             log.With().Str("component", "quiz_handler").Logger(),
	}
}

// CreateQuiz godoc
// POST /api/v1/admin/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// GetQuiz godoc
// GET /api/v1/admin/quizzes/:id
// Returns the quiz with every question, option and answer key.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/admin/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/admin/quizzes/:id
// Removes the quiz, its questions and options, then releases orphaned media.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.deletionService.DeleteQuiz(c.Request.Context(), id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "quiz deleted"})
}
