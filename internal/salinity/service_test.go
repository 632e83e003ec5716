package salinity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mekong-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingAlerter struct {
	alerted []uuid.UUID
}

func (a *recordingAlerter) SalinityAlert(_ context.Context, userID uuid.UUID, _ *models.SalinityStation, _ float64) {
	a.alerted = append(a.alerted, userID)
}

func setupSalinityTest(t *testing.T) (*Service, *recordingAlerter, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SalinityStation{}, &models.SalinityReading{}))
	alerter := &recordingAlerter{}
	return &Service{DB: db, Alerter: alerter}, alerter, db
}

func makeStation(t *testing.T, db *gorm.DB, name, province string) *models.SalinityStation {
	t.Helper()
	station := &models.SalinityStation{Name: name, Province: province, River: "Sông Hàm Luông"}
	require.NoError(t, db.Create(station).Error)
	return station
}

func TestStationReadings_WindowAndOrder(t *testing.T) {
	svc, _, db := setupSalinityTest(t)
	station := makeStation(t, db, "Trạm An Thuận", "Bến Tre")

	now := time.Now()
	for _, r := range []struct {
		salinity float64
		age      time.Duration
	}{
		{2.1, 48 * time.Hour},
		{3.4, 24 * time.Hour},
		{5.2, time.Hour},
		{1.0, 30 * 24 * time.Hour}, // outside the window
	} {
		require.NoError(t, db.Create(&models.SalinityReading{
			StationID:  station.StationID,
			Salinity:   r.salinity,
			MeasuredAt: now.Add(-r.age),
		}).Error)
	}

	readings, err := svc.StationReadings(context.Background(), station.StationID, 7)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, 5.2, readings[0].Salinity)
	assert.Equal(t, 2.1, readings[2].Salinity)
}

func TestStationReadings_UnknownStation(t *testing.T) {
	svc, _, _ := setupSalinityTest(t)
	_, err := svc.StationReadings(context.Background(), uuid.New(), 7)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestRecordReading_StoresForecast(t *testing.T) {
	svc, _, db := setupSalinityTest(t)
	station := makeStation(t, db, "Trạm Cầu Quan", "Trà Vinh")

	reading, err := svc.RecordReading(context.Background(), RecordReadingInput{
		StationID: station.StationID,
		Salinity:  3.8,
		Forecast: []ForecastPoint{
			{Date: "2026-09-02", Salinity: 4.1},
			{Date: "2026-09-03", Salinity: 4.6},
		},
	})
	require.NoError(t, err)
	assert.False(t, reading.MeasuredAt.IsZero())

	var stored models.SalinityReading
	require.NoError(t, db.First(&stored, "reading_id = ?", reading.ReadingID).Error)
	var points []ForecastPoint
	require.NoError(t, json.Unmarshal(stored.Forecast, &points))
	require.Len(t, points, 2)
	assert.Equal(t, 4.6, points[1].Salinity)
}

func TestRecordReading_NegativeRejected(t *testing.T) {
	svc, _, db := setupSalinityTest(t)
	station := makeStation(t, db, "Trạm Mỹ Tho", "Tiền Giang")

	_, err := svc.RecordReading(context.Background(), RecordReadingInput{
		StationID: station.StationID,
		Salinity:  -1,
	})
	assert.ErrorIs(t, err, ErrSalinityInvalid)
}

func TestRecordReading_AlertsProvinceByThreshold(t *testing.T) {
	svc, alerter, db := setupSalinityTest(t)
	station := makeStation(t, db, "Trạm An Thuận", "Bến Tre")

	province := "Bến Tre"
	other := "Sóc Trăng"

	defaultUser := &models.User{Username: "nongdan1", Email: "a@example.com", PasswordHash: "x", Fullname: "Nguyễn Văn A", Province: &province}
	require.NoError(t, db.Create(defaultUser).Error)

	strict, _ := json.Marshal(map[string]interface{}{
		"language": "vi", "notify_investments": true, "notify_ratings": true,
		"notify_salinity_alert": true, "salinity_threshold": 6.0,
	})
	strictUser := &models.User{Username: "nongdan2", Email: "b@example.com", PasswordHash: "x", Fullname: "Trần Thị B", Province: &province, Settings: strict}
	require.NoError(t, db.Create(strictUser).Error)

	muted, _ := json.Marshal(map[string]interface{}{
		"language": "vi", "notify_investments": true, "notify_ratings": true,
		"notify_salinity_alert": false, "salinity_threshold": 1.0,
	})
	mutedUser := &models.User{Username: "nongdan3", Email: "c@example.com", PasswordHash: "x", Fullname: "Lê Văn C", Province: &province, Settings: muted}
	require.NoError(t, db.Create(mutedUser).Error)

	elsewhere := &models.User{Username: "nongdan4", Email: "d@example.com", PasswordHash: "x", Fullname: "Phạm Văn D", Province: &other}
	require.NoError(t, db.Create(elsewhere).Error)

	_, err := svc.RecordReading(context.Background(), RecordReadingInput{
		StationID: station.StationID,
		Salinity:  5.0,
	})
	require.NoError(t, err)

	// Only the default-threshold user: 5.0 crosses 4.0, not 6.0, and the
	// muted user opted out.
	require.Len(t, alerter.alerted, 1)
	assert.Equal(t, defaultUser.UserID, alerter.alerted[0])
}
