package models

import (
	"time"
)

// Trade identifies a line of work a contractor is approved for.
type Trade string

const (
	TradeInstaller   Trade = "installer"
	TradeServiceTech Trade = "service_tech"
	TradeLaborer     Trade = "laborer"
)

// ContractorStatus is the lifecycle state of a contractor account.
// Only active contractors are eligible for job recommendations.
type ContractorStatus string

const (
	ContractorActive    ContractorStatus = "active"
	ContractorPending   ContractorStatus = "pending"
	ContractorInactive  ContractorStatus = "inactive"
	ContractorSuspended ContractorStatus = "suspended"
)

// DefaultServiceRadiusMiles applies when a contractor has not declared a radius.
const DefaultServiceRadiusMiles = 50.0

// GeoPoint is a resolved latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Rating holds the four category scores plus the derived overall score.
// Categories are on a 1.0–5.0 scale; Overall is the weighted sum rounded
// to one decimal and must be recomputed on every category mutation.
type Rating struct {
	Customer float64 `bson:"customer" json:"customer"`
	Speed    float64 `bson:"speed" json:"speed"`
	Warranty float64 `bson:"warranty" json:"warranty"`
	Internal float64 `bson:"internal" json:"internal"`
	Overall  float64 `bson:"overall" json:"overall"`
}

// Contractor is a member of the 1099 contractor network.
type Contractor struct {
	ID                 string           `bson:"id" json:"id"`
	BusinessName       string           `bson:"businessName" json:"businessName"`
	Email              string           `bson:"email" json:"email,omitempty"`
	Phone              string           `bson:"phone" json:"phone,omitempty"`
	Trades             []Trade          `bson:"trades" json:"trades"`
	Address            string           `bson:"address" json:"address"`
	Location           *GeoPoint        `bson:"location,omitempty" json:"location,omitempty"`
	ServiceRadiusMiles float64          `bson:"serviceRadiusMiles" json:"serviceRadiusMiles"`
	Rating             Rating           `bson:"rating" json:"rating"`
	Status             ContractorStatus `bson:"status" json:"status"`
	CreatedAt          time.Time        `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt          time.Time        `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// EffectiveServiceRadius returns the declared radius, or the default when unset.
func (c *Contractor) EffectiveServiceRadius() float64 {
	if c.ServiceRadiusMiles <= 0 {
		return DefaultServiceRadiusMiles
	}
	return c.ServiceRadiusMiles
}

// HasAnyTrade reports whether the contractor holds at least one of the
// requested trades. An empty request matches every contractor.
func (c *Contractor) HasAnyTrade(trades []Trade) bool {
	if len(trades) == 0 {
		return true
	}
	for _, want := range trades {
		for _, have := range c.Trades {
			if have == want {
				return true
			}
		}
	}
	return false
}
