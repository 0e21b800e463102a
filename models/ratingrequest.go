package models

import "time"

// RatingRequestTTL is how long a customer has to act on a rating link.
const RatingRequestTTL = 30 * 24 * time.Hour

// RatingRequestStatus is the lifecycle state of a single rating link.
type RatingRequestStatus string

const (
	RequestPending   RatingRequestStatus = "pending"
	RequestCompleted RatingRequestStatus = "completed"
	RequestExpired   RatingRequestStatus = "expired"
)

// RatingRequest is a single-use, time-limited link asking a customer to rate
// one crew member of a completed job. Requests are keyed by token; the
// (JobID, ContractorID) pair is the natural key guarding against duplicate
// creation when a completion event fires more than once.
type RatingRequest struct {
	Token         string              `bson:"token" json:"token"`
	JobID         string              `bson:"jobId" json:"jobId"`
	ContractorID  string              `bson:"contractorId" json:"contractorId"`
	CustomerEmail string              `bson:"customerEmail" json:"customerEmail,omitempty"`
	CustomerPhone string              `bson:"customerPhone" json:"customerPhone,omitempty"`
	Status        RatingRequestStatus `bson:"status" json:"status"`
	Rating        *float64            `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	ExpiresAt     time.Time           `bson:"expiresAt" json:"expiresAt"`
	CompletedAt   *time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// ExpiredBy reports whether a still-pending request has passed its deadline.
// Expiry is evaluated lazily by readers; the stored status may lag.
func (r *RatingRequest) ExpiredBy(now time.Time) bool {
	return r.Status == RequestPending && now.After(r.ExpiresAt)
}
