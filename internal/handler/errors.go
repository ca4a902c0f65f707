package handler

import (
	"errors"
	"net/http"

	"github.com/ateeq/quizforge/internal/response"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// failWithError maps a service error onto the response envelope.
func failWithError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		ve *service.ValidationError
		ue *service.UploadError
		pe *service.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
	case errors.Is(err, errInvalidPayload):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, map[string]string{"payload": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSlugTaken):
		response.FailWithFields(c, http.StatusConflict, response.ErrConflict, map[string]string{"slug": "is already taken"})
	case errors.Is(err, service.ErrSessionFinished):
		response.Fail(c, http.StatusConflict, response.ErrSessionFinished)
	case errors.Is(err, service.ErrUnknownKind):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownMediaKind)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.As(err, &ue):
		log.Warn().Err(err).Str("field", ue.Field).Msg("Upload failed")
		response.FailWithFields(c, http.StatusBadGateway, response.ErrUploadFailed, map[string]string{ue.Field: ue.Err.Error()})
	case errors.As(err, &pe):
		log.Error().Err(err).Str("op", pe.Op).Msg("Persistence failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrPersistence)
	default:
		log.Error().Err(err).Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// paramUUID parses a path parameter, answering 400 when it is not a UUID.
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
