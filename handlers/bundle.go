package handlers

import (
	contractorRepo "keyhubcentral/database/repository/contractor"
	"keyhubcentral/services/availability"
	"keyhubcentral/services/rating"
	"keyhubcentral/services/recommend"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HandlerBundle wires the contractor core's services into gin handlers.
type HandlerBundle struct {
	Contractors  contractorRepo.Repository
	Rating       rating.Service
	Lifecycle    *rating.LifecycleService
	Availability availability.Service
	Recommender  recommend.Engine
	Queue        *asynq.Client
}

// getLogger retrieves a Zap logger from the Gin context or creates a new one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	logger, _ := zap.NewProduction()
	return logger
}
