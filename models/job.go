package models

import "time"

// JobStatus mirrors the job pipeline owned by the sales operation. The
// contractor core only reacts to the terminal "complete" state.
type JobStatus string

const (
	JobScheduled  JobStatus = "scheduled"
	JobInProgress JobStatus = "in_progress"
	JobComplete   JobStatus = "complete"
	JobCancelled  JobStatus = "cancelled"
)

// Job is read-only context consumed by the recommendation engine and the
// rating-request lifecycle. It is owned by the jobs pipeline, not this core.
type Job struct {
	ID            string    `bson:"id" json:"id"`
	Status        JobStatus `bson:"status" json:"status"`
	Date          string    `bson:"date" json:"date"`
	TimeBlock     TimeBlock `bson:"timeBlock,omitempty" json:"timeBlock,omitempty"`
	Address       string    `bson:"address" json:"address"`
	Location      *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	CrewIDs       []string  `bson:"crewIds" json:"crewIds"`
	CustomerName  string    `bson:"customerName" json:"customerName,omitempty"`
	CustomerEmail string    `bson:"customerEmail" json:"customerEmail,omitempty"`
	CustomerPhone string    `bson:"customerPhone" json:"customerPhone,omitempty"`
	CompletedAt   time.Time `bson:"completedAt" json:"completedAt,omitzero"`
}

// HasCustomerContact reports whether the job carries a way to reach the
// customer for a rating request.
func (j *Job) HasCustomerContact() bool {
	return j.CustomerEmail != "" || j.CustomerPhone != ""
}
