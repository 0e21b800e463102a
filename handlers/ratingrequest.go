package handlers

import (
	"net/http"

	"keyhubcentral/cron"
	"keyhubcentral/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetRatingRequestHandler resolves a rating link token. Overdue requests are
// lazily expired on read.
func (hb *HandlerBundle) GetRatingRequestHandler(c *gin.Context) {
	request, err := hb.Lifecycle.GetRequest(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type submitRatingRequest struct {
	Rating float64 `json:"rating"`
}

// SubmitRatingHandler records a customer rating and returns the contractor's
// recomputed rating.
func (hb *HandlerBundle) SubmitRatingHandler(c *gin.Context) {
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}
	merged, err := hb.Lifecycle.SubmitRating(c.Request.Context(), c.Param("token"), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": merged})
}

type jobCompletedEvent struct {
	JobID string `json:"jobId"`
}

// JobCompletedHandler accepts the job-completion event from the jobs
// pipeline and queues rating-request creation. Creation is idempotent, so a
// re-delivered event is safe.
func (hb *HandlerBundle) JobCompletedHandler(c *gin.Context) {
	var event jobCompletedEvent
	if err := c.ShouldBindJSON(&event); err != nil || event.JobID == "" {
		respondError(c, &services.ValidationError{Field: "jobId", Message: "is required"})
		return
	}

	if hb.Queue != nil {
		task, err := cron.NewJobCompletedTask(event.JobID)
		if err != nil {
			respondError(c, err)
			return
		}
		if _, err := hb.Queue.Enqueue(task); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"queued": true, "jobId": event.JobID})
		return
	}

	// No queue configured: process inline.
	created, err := hb.Lifecycle.HandleJobCompleted(c.Request.Context(), event.JobID)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("rating requests created",
		zap.String("jobId", event.JobID), zap.Int("count", len(created)))
	c.JSON(http.StatusOK, gin.H{"created": len(created)})
}
