package salinity

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mekong-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

func NewHandlers(s *Service) *Handlers {
	return &Handlers{Service: s}
}

func (h *Handlers) ListStations(c *fiber.Ctx) error {
	stations, err := h.Service.ListStations(c.Context(), c.Query("province"))
	if err != nil {
		log.Error().Err(err).Msg("list stations failed")
		return response.Error(c, "Could not load stations", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stations retrieved", stations, fiber.Map{"count": len(stations)})
}

func (h *Handlers) StationReadings(c *fiber.Ctx) error {
	stationID, err := uuid.Parse(c.Params("station_id"))
	if err != nil {
		return response.Error(c, "Invalid station id", fiber.StatusBadRequest, nil)
	}
	days := 7
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 || days > 90 {
			return response.Error(c, "days must be between 1 and 90", fiber.StatusBadRequest, nil)
		}
	}
	readings, err := h.Service.StationReadings(c.Context(), stationID, days)
	if err != nil {
		if err == ErrStationNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("station readings failed")
		return response.Error(c, "Could not load readings", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Readings retrieved", readings, fiber.Map{"count": len(readings), "days": days})
}

func (h *Handlers) CreateStation(c *fiber.Ctx) error {
	var req CreateStationInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	station, err := h.Service.CreateStation(c.Context(), req)
	if err != nil {
		if err == ErrNameRequired {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Msg("create station failed")
		return response.Error(c, "Could not create station", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Station created", station, nil)
}

type recordReadingRequest struct {
	StationID  string          `json:"station_id"`
	Salinity   float64         `json:"salinity"`
	MeasuredAt *time.Time      `json:"measured_at"`
	Forecast   []ForecastPoint `json:"forecast"`
}

func (h *Handlers) RecordReading(c *fiber.Ctx) error {
	var req recordReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	stationID, err := uuid.Parse(req.StationID)
	if err != nil {
		return response.Error(c, "Invalid station id", fiber.StatusBadRequest, nil)
	}
	in := RecordReadingInput{
		StationID: stationID,
		Salinity:  req.Salinity,
		Forecast:  req.Forecast,
	}
	if req.MeasuredAt != nil {
		in.MeasuredAt = *req.MeasuredAt
	}
	reading, err := h.Service.RecordReading(c.Context(), in)
	if err != nil {
		switch err {
		case ErrStationNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case ErrSalinityInvalid:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("record reading failed")
			return response.Error(c, "Could not record reading", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Reading recorded", reading, nil)
}
