package routes

import (
	"net/http"
	"time"

	"keyhubcentral/handlers"
	"keyhubcentral/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterContractorRoutes registers contractor CRUD and rating endpoints.
func RegisterContractorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contractors")
	{
		api.POST("", hb.CreateContractorHandler)
		api.GET("/:id", hb.GetContractorHandler)
		api.PATCH("/:id", hb.UpdateContractorHandler)
		api.PATCH("/:id/rating", hb.MergeRatingHandler)
		api.POST("/:id/rating/reset", hb.ResetRatingHandler)

		api.GET("/:id/availability", hb.GetAvailabilityHandler)
		api.GET("/:id/availability/:date", hb.GetAvailabilityHandler)
		api.PUT("/:id/availability/:date", hb.SetAvailabilityHandler)
		api.DELETE("/:id/availability/:date", hb.ClearAvailabilityHandler)
	}
}

// RegisterRecommendationRoutes registers the job-matching endpoint.
func RegisterRecommendationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/recommendations")
	{
		api.POST("", hb.RecommendHandler)
	}
}

// RegisterRatingRequestRoutes registers the customer rating-link endpoints
// and the inbound job-completion event.
func RegisterRatingRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rating-requests")
	{
		api.GET("/:token", hb.GetRatingRequestHandler)
		api.POST("/:token/submit", hb.SubmitRatingHandler)
	}
	r.POST("/api/events/job-completed", hb.JobCompletedHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// SetupRouter assembles middleware and all route groups.
func SetupRouter(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterContractorRoutes(r, hb)
	RegisterRecommendationRoutes(r, hb)
	RegisterRatingRequestRoutes(r, hb)
}
