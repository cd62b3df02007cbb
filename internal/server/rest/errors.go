package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "internal error"

var errBadRequestBody = common.NewError(common.ErrorValidation, "invalid request body")

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the mapped status. Internal causes are
// logged, never returned.
func (s *RESTServer) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	msg := internalErrorMessage
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path,
			"error", err.Error())
	} else {
		var e *common.Error
		if errors.As(err, &e) {
			msg = e.Error()
		} else {
			msg = http.StatusText(status)
		}
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
