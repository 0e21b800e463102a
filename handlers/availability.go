package handlers

import (
	"net/http"

	"keyhubcentral/models"
	"keyhubcentral/services"

	"github.com/gin-gonic/gin"
)

// GetAvailabilityHandler returns the contractor's record for one date, or the
// range ?from=&to= when both are present. A missing record for a single date
// reports the default available status.
func (hb *HandlerBundle) GetAvailabilityHandler(c *gin.Context) {
	contractorID := c.Param("id")

	from, to := c.Query("from"), c.Query("to")
	if from != "" || to != "" {
		records, err := hb.Availability.GetRange(c.Request.Context(), contractorID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records})
		return
	}

	date := c.Param("date")
	record, err := hb.Availability.Get(c.Request.Context(), contractorID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, gin.H{
			"contractorId": contractorID,
			"date":         date,
			"status":       models.StatusAvailable,
			"default":      true,
		})
		return
	}
	c.JSON(http.StatusOK, record)
}

type setAvailabilityRequest struct {
	Status    models.AvailabilityStatus `json:"status"`
	TimeBlock models.TimeBlock          `json:"timeBlock,omitempty"`
	Notes     string                    `json:"notes,omitempty"`
}

// SetAvailabilityHandler upserts the contractor's record for the date.
func (hb *HandlerBundle) SetAvailabilityHandler(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}
	record := models.Availability{
		ContractorID: c.Param("id"),
		Date:         c.Param("date"),
		TimeBlock:    req.TimeBlock,
		Status:       req.Status,
		Notes:        req.Notes,
	}
	if err := hb.Availability.Set(c.Request.Context(), &record); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ClearAvailabilityHandler deletes the record, reverting the date to the
// default available status.
func (hb *HandlerBundle) ClearAvailabilityHandler(c *gin.Context) {
	if err := hb.Availability.Clear(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
