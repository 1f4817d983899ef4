package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/apperr"
)

// respondError maps the application error taxonomy onto HTTP statuses.
// Infrastructure failures are logged with their cause but surface to clients
// as an opaque 503.
func (a *API) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	var status int
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict, apperr.KindStateTransition:
		status = http.StatusConflict
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	default:
		status = http.StatusServiceUnavailable
	}

	if kind == apperr.KindInfrastructure {
		a.logger.Error("Request failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "temporarily unavailable", "kind": kind.String()})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind.String()})
}
