package handlers

import (
	"errors"
	"net/http"

	"keyhubcentral/services"
	"keyhubcentral/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500 and gets logged with full detail.
func respondError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var validation *services.ValidationError
	var concurrency *services.ConcurrencyError
	var unresolved *services.UnresolvedLocationError

	switch {
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFound.Error())
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", validation.Error())
	case errors.As(err, &concurrency):
		utils.JSONError(c, http.StatusConflict, "Conflicting update, please retry", concurrency.Error())
	case errors.As(err, &unresolved):
		utils.JSONError(c, http.StatusUnprocessableEntity, "Location could not be resolved", unresolved.Error())
	default:
		getLogger(c).Error("request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", "")
	}
}
