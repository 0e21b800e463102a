package handlers

import (
	"net/http"

	"keyhubcentral/models"
	"keyhubcentral/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendHandler ranks contractors for a job. An empty result always
// carries a reason so the dispatcher UI can tell "no one matched" from "the
// job address could not be geocoded".
func (hb *HandlerBundle) RecommendHandler(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}

	result, err := hb.Recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Reason == models.ReasonLocationUnresolved {
		getLogger(c).Warn("recommendation ran without a resolved job location",
			zap.String("address", req.Address))
	}
	c.JSON(http.StatusOK, result)
}
