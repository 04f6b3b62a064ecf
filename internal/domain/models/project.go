// internal/domain/models/project.go
package models

import "time"

// Project is a collective solar installation members can join.
//
// The ID is a human-readable slug (e.g. "project-gers-1") chosen by the
// admin at creation time; it appears in public URLs and in application
// records, so it is never renamed after creation.
type Project struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	NameCI      string `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Location    string `bson:"location" json:"location"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	PowerKWC            float64 `bson:"power_kwc" json:"power_kwc"`
	AnnualProductionMWH float64 `bson:"annual_production_mwh" json:"annual_production_mwh"`

	Participants    int `bson:"participants" json:"participants"`
	MaxParticipants int `bson:"max_participants" json:"max_participants"`

	// EligibilityDistanceKM bounds how far a consumer's delivery point may
	// be from the installation under the collective self-consumption rules.
	EligibilityDistanceKM float64 `bson:"eligibility_distance_km" json:"eligibility_distance_km"`

	// ConsumerTariff is the member tariff in c€/kWh.
	ConsumerTariff float64 `bson:"consumer_tariff" json:"consumer_tariff"`

	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`

	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
