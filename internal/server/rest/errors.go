package rest

import (
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindInvalidInput, common.KindMissingToken:
		return http.StatusBadRequest
	case common.KindAlreadyExists:
		return http.StatusConflict
	case common.KindIncorrectCredentials, common.KindTokenInvalid:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the public message of err. Causes of unexpected
// errors are logged by the service layer and never reach the client.
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	status := statusFor(common.KindOf(err))
	if status >= http.StatusInternalServerError {
		s.logger.Warn(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: common.PublicMessage(err)})
}

func (s *HTTPServer) respondMalformed(c *gin.Context, err error) {
	s.logger.Info(c.Request.Context(), "malformed request body", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Error: "Malformed request body"})
}
