package salinity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mekong-backend/internal/models"
	"mekong-backend/internal/users"
)

var (
	ErrStationNotFound = errors.New("Station not found")
	ErrNameRequired    = errors.New("Station name is required")
	ErrSalinityInvalid = errors.New("Salinity must be zero or positive")
)

// Alerter warns a user about a high reading. Nil disables alerts.
type Alerter interface {
	SalinityAlert(ctx context.Context, userID uuid.UUID, station *models.SalinityStation, salinity float64)
}

type Service struct {
	DB      *gorm.DB
	Alerter Alerter
}

// ForecastPoint is one entry of a reading's forecast series.
type ForecastPoint struct {
	Date     string  `json:"date"`
	Salinity float64 `json:"salinity"`
}

type CreateStationInput struct {
	Name      string  `json:"name"`
	Province  string  `json:"province"`
	River     string  `json:"river"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Service) CreateStation(ctx context.Context, in CreateStationInput) (*models.SalinityStation, error) {
	if in.Name == "" {
		return nil, ErrNameRequired
	}
	station := &models.SalinityStation{
		Name:      in.Name,
		Province:  in.Province,
		River:     in.River,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
	}
	if err := s.DB.WithContext(ctx).Create(station).Error; err != nil {
		return nil, err
	}
	return station, nil
}

// ListStations returns all monitoring stations, optionally one province only.
func (s *Service) ListStations(ctx context.Context, province string) ([]models.SalinityStation, error) {
	q := s.DB.WithContext(ctx).Order("province, name")
	if province != "" {
		q = q.Where("province = ?", province)
	}
	var out []models.SalinityStation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// StationReadings returns a station's readings over the last N days, newest
// first, forecast series included.
func (s *Service) StationReadings(ctx context.Context, stationID uuid.UUID, days int) ([]models.SalinityReading, error) {
	if days <= 0 {
		days = 7
	}
	var station models.SalinityStation
	if err := s.DB.WithContext(ctx).Where("station_id = ?", stationID).First(&station).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -days)
	var out []models.SalinityReading
	if err := s.DB.WithContext(ctx).
		Where("station_id = ? AND measured_at >= ?", stationID, since).
		Order("measured_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type RecordReadingInput struct {
	StationID  uuid.UUID
	Salinity   float64
	MeasuredAt time.Time
	Forecast   []ForecastPoint
}

// RecordReading stores a measurement and fans out threshold alerts to users
// registered in the station's province.
func (s *Service) RecordReading(ctx context.Context, in RecordReadingInput) (*models.SalinityReading, error) {
	if in.Salinity < 0 {
		return nil, ErrSalinityInvalid
	}
	var station models.SalinityStation
	if err := s.DB.WithContext(ctx).Where("station_id = ?", in.StationID).First(&station).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	if in.MeasuredAt.IsZero() {
		in.MeasuredAt = time.Now()
	}
	var forecast datatypes.JSON
	if len(in.Forecast) > 0 {
		raw, err := json.Marshal(in.Forecast)
		if err != nil {
			return nil, err
		}
		forecast = raw
	}
	reading := &models.SalinityReading{
		StationID:  in.StationID,
		Salinity:   in.Salinity,
		MeasuredAt: in.MeasuredAt,
		Forecast:   forecast,
	}
	if err := s.DB.WithContext(ctx).Create(reading).Error; err != nil {
		return nil, err
	}
	s.alertProvince(ctx, &station, in.Salinity)
	return reading, nil
}

// alertProvince pushes a salinity alert to every user of the station's
// province whose settings allow it and whose threshold is crossed.
func (s *Service) alertProvince(ctx context.Context, station *models.SalinityStation, salinity float64) {
	if s.Alerter == nil || station.Province == "" {
		return
	}
	var residents []models.User
	if err := s.DB.WithContext(ctx).Where("province = ?", station.Province).Find(&residents).Error; err != nil {
		log.Error().Err(err).Str("province", station.Province).Msg("load residents failed")
		return
	}
	for i := range residents {
		settings := users.DefaultSettings()
		if len(residents[i].Settings) > 0 {
			if err := json.Unmarshal(residents[i].Settings, &settings); err != nil {
				log.Warn().Err(err).Str("user_id", residents[i].UserID.String()).Msg("bad settings payload")
			}
		}
		if !settings.NotifySalinityAlert || salinity < settings.SalinityThreshold {
			continue
		}
		s.Alerter.SalinityAlert(ctx, residents[i].UserID, station, salinity)
	}
}
