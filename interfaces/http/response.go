package http

import (
	"net/http"

	"ytcurator/domain/apperror"
	"ytcurator/domain/dto"
	"ytcurator/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case apperror.IsAuth(err):
		return http.StatusUnauthorized
	case apperror.IsUpstream(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx *gin.Context, op string, err error) {
	status := statusFor(err)
	logger.GetLogger().WithFields(map[string]interface{}{
		"error":     err,
		"operation": op,
		"status":    status,
	}).Error("Request failed")
	ctx.JSON(status, dto.Fail(err))
}
