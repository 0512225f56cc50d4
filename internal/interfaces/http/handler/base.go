// Package handler provides the HTTP request handlers.
package handler

import (
	"github.com/gin-gonic/gin"

	"professor-ai-api/internal/domain/entity"
	"professor-ai-api/internal/interfaces/http/dto"
	"professor-ai-api/pkg/errors"
	"professor-ai-api/pkg/logger"
)

// respondError maps application errors onto the error envelope. Unknown
// errors are logged and masked as a 500.
func respondError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
			Fields:    appErr.Fields,
		})
		return
	}
	logger.Error(c.Request.Context(), fallback, err)
	dto.InternalError(c, fallback)
}

// bindTaskKind resolves the :task path parameter. A miss answers the
// request itself and returns false.
func bindTaskKind(c *gin.Context) (entity.TaskKind, bool) {
	task, err := entity.ParseTaskKind(c.Param("task"))
	if err != nil {
		respondError(c, errors.ErrTaskNotFound, "unknown task kind")
		return "", false
	}
	return task, true
}
