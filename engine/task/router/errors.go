package taskrouter

import (
	"errors"
	"net/http"

	"github.com/compozy/gantt/engine/infra/server/router"
	taskuc "github.com/compozy/gantt/engine/task/uc"
	"github.com/gin-gonic/gin"
)

const (
	ErrSourceNotFoundCode   = "SOURCE_NOT_FOUND"
	ErrSourceUnreadableCode = "SOURCE_UNREADABLE"
	ErrSchemaInvalidCode    = "SCHEMA_INVALID"
)

func loadErrorCode(err error) string {
	switch {
	case errors.Is(err, taskuc.ErrSourceNotFound):
		return ErrSourceNotFoundCode
	case errors.Is(err, taskuc.ErrSourceUnreadable):
		return ErrSourceUnreadableCode
	case errors.Is(err, taskuc.ErrSchemaInvalid):
		return ErrSchemaInvalidCode
	default:
		return router.ErrInternalCode
	}
}

func respondLoadError(c *gin.Context, err error) {
	router.RespondProblemWithCode(c, http.StatusInternalServerError, loadErrorCode(err), err.Error())
}
