package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// writeError is the single place where workflow errors become HTTP
// responses. Unrecognized errors are logged and reported as 500 without
// detail.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *service.ValidationError
	var dup *service.DuplicateEmailError

	switch {
	case errors.As(err, &verr):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, verr.Fields)

	case errors.As(err, &dup):
		f := response.Failure{Status: http.StatusConflict, Code: response.ErrEmailTaken, Type: response.TypeEmail}
		if dup.Existing != "" {
			f.Message = fmt.Sprintf("A %s with this email already exists.", dup.Existing)
		}
		response.Write(c, f)

	case errors.Is(err, service.ErrEmailNotRegistered):
		response.Fail(c, http.StatusUnauthorized, response.ErrEmailNotRegistered)
	case errors.Is(err, service.ErrAuthFailed):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrNotVerified):
		response.Write(c, response.Failure{
			Status: http.StatusUnauthorized,
			Code:   response.ErrEmailNotVerified,
			Type:   response.TypeVerify,
		})
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusBadRequest, response.ErrVerificationToken)
	case errors.Is(err, service.ErrInvalidRole):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRole)
	case errors.Is(err, service.ErrAccountNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAccountNotFound)
	case errors.Is(err, service.ErrRateLimited):
		response.Fail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)

	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrClassroomNotFound)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrClassroomCodeTaken):
		response.Fail(c, http.StatusConflict, response.ErrClassroomCodeTaken)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)

	case errors.Is(err, service.ErrNotificationFailed):
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Verification email not delivered")
		response.Fail(c, http.StatusInternalServerError, response.ErrNotificationFailed)

	default:
		log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
