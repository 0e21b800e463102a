package models

import "time"

// DateLayout is the calendar-day key format used across availability records.
const DateLayout = "2006-01-02"

// AvailabilityStatus is a contractor's declared state for one day or block.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusBusy        AvailabilityStatus = "busy"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusOnLeave     AvailabilityStatus = "on_leave"
)

// TimeBlock scopes an availability record or job to part of a day.
type TimeBlock string

const (
	BlockMorning   TimeBlock = "morning"
	BlockAfternoon TimeBlock = "afternoon"
	BlockAllDay    TimeBlock = "all_day"
)

// Availability is a contractor's declared status for one calendar day.
// Absence of a record for a date means the contractor is available.
// Records are current-state only and carry no history.
type Availability struct {
	ContractorID string             `bson:"contractorId" json:"contractorId"`
	Date         string             `bson:"date" json:"date"`
	TimeBlock    TimeBlock          `bson:"timeBlock,omitempty" json:"timeBlock,omitempty"`
	Status       AvailabilityStatus `bson:"status" json:"status"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// ValidAvailabilityStatus reports whether s is a known status value.
func ValidAvailabilityStatus(s AvailabilityStatus) bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusUnavailable, StatusOnLeave:
		return true
	}
	return false
}

// ValidTimeBlock reports whether b is a known time block. The empty block is
// accepted and treated as all-day.
func ValidTimeBlock(b TimeBlock) bool {
	switch b {
	case "", BlockMorning, BlockAfternoon, BlockAllDay:
		return true
	}
	return false
}
