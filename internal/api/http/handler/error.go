package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/ipgeo-server/internal/model"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a service error to the HTTP status and the message shown to
// the client. Internal details never reach the message.
func statusFor(err error) (int, string) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, model.ErrMissingToken):
		return http.StatusUnauthorized, model.ErrMissingToken.Error()
	case errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrTokenInvalidSignature):
		return http.StatusUnauthorized, model.ErrInvalidToken.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, model.ErrEmailTaken.Error()
	case errors.Is(err, model.ErrUpstream):
		return http.StatusInternalServerError, "failed to lookup ip"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// WriteError aborts the request with the mapped status and message.
func WriteError(c *gin.Context, err error) {
	status, message := statusFor(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
