package handlers

import (
	"net/http"
	"time"

	"keyhubcentral/models"
	"keyhubcentral/services"
	"keyhubcentral/services/rating"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetContractorHandler returns one contractor plus its derived tier and
// commission rate.
func (hb *HandlerBundle) GetContractorHandler(c *gin.Context) {
	contractor, err := hb.Contractors.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if contractor == nil {
		respondError(c, &services.NotFoundError{Resource: "contractor", ID: c.Param("id")})
		return
	}
	tier := rating.TierFor(contractor.Rating.Overall)
	c.JSON(http.StatusOK, gin.H{
		"contractor":     contractor,
		"tier":           tier,
		"commissionRate": rating.CommissionRateFor(tier),
	})
}

// CreateContractorHandler onboards an approved contractor with a neutral
// rating.
func (hb *HandlerBundle) CreateContractorHandler(c *gin.Context) {
	var contractor models.Contractor
	if err := c.ShouldBindJSON(&contractor); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}
	if contractor.ID == "" {
		contractor.ID = uuid.NewString()
	}
	if contractor.Status == "" {
		contractor.Status = models.ContractorPending
	}
	contractor.Rating = rating.NeutralRating()
	now := time.Now().UTC()
	contractor.CreatedAt = now
	contractor.UpdatedAt = now

	if err := hb.Contractors.Create(c.Request.Context(), &contractor); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("contractor created", zap.String("contractorId", contractor.ID))
	c.JSON(http.StatusCreated, contractor)
}

// UpdateContractorHandler updates profile fields. Rating categories are not
// editable here; they go through the rating endpoints so the overall-score
// invariant holds.
func (hb *HandlerBundle) UpdateContractorHandler(c *gin.Context) {
	id := c.Param("id")
	existing, err := hb.Contractors.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		respondError(c, &services.NotFoundError{Resource: "contractor", ID: id})
		return
	}

	var update models.Contractor
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}
	update.ID = id
	update.Rating = existing.Rating
	update.CreatedAt = existing.CreatedAt
	update.UpdatedAt = time.Now().UTC()

	if err := hb.Contractors.Update(c.Request.Context(), &update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

// MergeRatingHandler applies a partial category edit from an admin screen.
func (hb *HandlerBundle) MergeRatingHandler(c *gin.Context) {
	var update rating.CategoryUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, &services.ValidationError{Message: err.Error()})
		return
	}
	merged, err := hb.Rating.MergeContractorRating(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	tier := rating.TierFor(merged.Overall)
	c.JSON(http.StatusOK, gin.H{
		"rating":         merged,
		"tier":           tier,
		"commissionRate": rating.CommissionRateFor(tier),
	})
}

// ResetRatingHandler restores every category to the neutral default.
func (hb *HandlerBundle) ResetRatingHandler(c *gin.Context) {
	reset, err := hb.Rating.ResetContractorRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("contractor rating reset", zap.String("contractorId", c.Param("id")))
	tier := rating.TierFor(reset.Overall)
	c.JSON(http.StatusOK, gin.H{
		"rating":         reset,
		"tier":           tier,
		"commissionRate": rating.CommissionRateFor(tier),
	})
}
