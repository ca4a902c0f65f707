package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/response"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/ateeq/quizforge/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// QuestionHandler handles question editing endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	deletionService *service.DeletionService
	log             zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, deletionService *service.DeletionService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		deletionService: deletionService,
		log:             log.With().Str("component", "question_handler").Logger(),
	}
}

// SaveQuestion godoc
// POST /api/v1/admin/quizzes/:id/questions
// Creates or updates a question from a draft. The body is either JSON
// ({"question": {...}}) or multipart/form-data with the same JSON in the
// "payload" field and one file part per pending media slot.
func (h *QuestionHandler) SaveQuestion(c *gin.Context) {
	quizID, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.SaveQuestionRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := bindMultipartDraft(c, &req); err != nil {
			failWithError(c, h.log, err)
			return
		}
	} else if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.questionService.Save(c.Request.Context(), quizID, req.Question)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetQuestion godoc
// GET /api/v1/admin/questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// ReorderQuestion godoc
// PATCH /api/v1/admin/questions/:id/order
func (h *QuestionHandler) ReorderQuestion(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	var req model.ReorderQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Reorder(c.Request.Context(), id, *req.OrderIndex)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.deletionService.DeleteQuestion(c.Request.Context(), id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question deleted"})
}

// DeleteOption godoc
// DELETE /api/v1/admin/options/:id
func (h *QuestionHandler) DeleteOption(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.deletionService.DeleteOption(c.Request.Context(), id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "option deleted"})
}

// ─── Multipart drafts ───────────────────────────────────────────────────────

var errInvalidPayload = errors.New("payload is not a valid question draft")

// bindMultipartDraft decodes the "payload" field and fills every pending
// upload that names a file part with that part's bytes.
func bindMultipartDraft(c *gin.Context, req *model.SaveQuestionRequest) error {
	payload := c.PostForm("payload")
	if payload == "" {
		return &service.ValidationError{Fields: map[string]string{"payload": "is required"}}
	}
	if err := json.Unmarshal([]byte(payload), req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}

	d := &req.Question
	fields := map[string]*model.MediaField{
		"prompt_image": &d.PromptImage,
		"prompt_audio": &d.PromptAudio,
	}
	for i := range d.Options {
		fields[fmt.Sprintf("options[%d].image", i)] = &d.Options[i].Image
		fields[fmt.Sprintf("options[%d].audio", i)] = &d.Options[i].Audio
	}

	missing := map[string]string{}
	for name, f := range fields {
		p, ok := f.Pending()
		if !ok || p.Part == "" {
			continue
		}
		data, contentType, err := readPart(c, p.Part)
		if err != nil {
			missing[name] = fmt.Sprintf("file part %q: %v", p.Part, err)
			continue
		}
		filled := *p
		filled.Data = data
		if filled.ContentType == "" {
			filled.ContentType = contentType
		}
		*f = model.PendingMedia(filled)
	}
	if len(missing) > 0 {
		return &service.ValidationError{Fields: missing}
	}
	return nil
}

func readPart(c *gin.Context, part string) ([]byte, string, error) {
	header, err := c.FormFile(part)
	if err != nil {
		return nil, "", err
	}
	f, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, header.Header.Get("Content-Type"), nil
}
