package handler

import (
	"net/http"
	"strconv"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/response"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// MediaHandler handles the media library endpoints.
type MediaHandler struct {
	mediaService *service.MediaService
	log          zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log.With().Str("component", "media_handler").Logger(),
	}
}

// UploadMedia godoc
// POST /api/v1/admin/media/:kind
// Uploads an image or audio file into its bucket and returns path and URL.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	kind := model.MediaKind(c.Param("kind"))
	if !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownMediaKind)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	media, err := h.mediaService.UploadFile(c.Request.Context(), kind, header)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"media": media})
}

// ListMedia godoc
// GET /api/v1/admin/media/:kind?page=1&per_page=50
// Lists a bucket one page at a time, in path order.
func (h *MediaHandler) ListMedia(c *gin.Context) {
	kind := model.MediaKind(c.Param("kind"))
	if !kind.Valid() {
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownMediaKind)
		return
	}

	items, err := h.mediaService.List(c.Request.Context(), kind)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	pagination := response.NewPagination(page, min(perPage, 200), len(items))
	from, to := pagination.Bounds()

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"media": append([]model.Media{}, items[from:to]...)}, pagination)
}
