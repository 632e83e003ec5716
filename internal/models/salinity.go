package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SalinityStation is a monitoring point on a Mekong Delta river branch.
type SalinityStation struct {
	StationID uuid.UUID `gorm:"column:station_id;type:uuid;primaryKey" json:"station_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Province  string    `gorm:"column:province;not null" json:"province"`
	River     string    `gorm:"column:river" json:"river"`
	Latitude  float64   `gorm:"column:latitude" json:"latitude"`
	Longitude float64   `gorm:"column:longitude" json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}

func (SalinityStation) TableName() string {
	return "salinity_stations"
}

func (s *SalinityStation) BeforeCreate(tx *gorm.DB) error {
	if s.StationID == uuid.Nil {
		s.StationID = uuid.New()
	}
	return nil
}

// SalinityReading is a measured value plus an optional forecast series
// (array of {date, salinity} points) for chart rendering.
type SalinityReading struct {
	ReadingID  uuid.UUID      `gorm:"column:reading_id;type:uuid;primaryKey" json:"reading_id"`
	StationID  uuid.UUID      `gorm:"column:station_id;type:uuid;not null;index" json:"station_id"`
	Salinity   float64        `gorm:"column:salinity;not null" json:"salinity"` // g/l
	MeasuredAt time.Time      `gorm:"column:measured_at;not null;index" json:"measured_at"`
	Forecast   datatypes.JSON `gorm:"column:forecast;type:jsonb" json:"forecast"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (SalinityReading) TableName() string {
	return "salinity_readings"
}

func (r *SalinityReading) BeforeCreate(tx *gorm.DB) error {
	if r.ReadingID == uuid.Nil {
		r.ReadingID = uuid.New()
	}
	return nil
}
