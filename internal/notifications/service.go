package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"mekong-backend/internal/models"
)

var ErrNotificationNotFound = errors.New("Notification not found")

// Pusher delivers a freshly stored notification to live sockets. Nil
// disables realtime delivery.
type Pusher interface {
	Push(n *models.Notification)
}

type Service struct {
	DB     *gorm.DB
	Pusher Pusher
}

// Create persists the notification, then pushes it. Persist-then-push keeps
// the list endpoint authoritative when the socket drops the message.
func (s *Service) Create(ctx context.Context, n *models.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	if s.Pusher != nil {
		s.Pusher.Push(n)
	}
	return nil
}

// List returns the user's notifications newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

func (s *Service) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// InvestmentReceived satisfies the investment pipeline's notifier. Failures
// are logged, never surfaced to the investor.
func (s *Service) InvestmentReceived(ctx context.Context, ownerID uuid.UUID, inv *models.ProjectInvestment, projectTitle string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"investment_id": inv.InvestmentID,
		"project_id":    inv.ProjectID,
		"amount":        inv.Amount,
	})
	n := &models.Notification{
		UserID:  ownerID,
		Type:    models.NotifyInvestment,
		Title:   "Khoản đầu tư mới",
		Body:    fmt.Sprintf("Dự án \"%s\" vừa nhận một khoản đầu tư %d₫ đang chờ xác nhận.", projectTitle, inv.Amount),
		Payload: payload,
	}
	if err := s.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("investment notification failed")
	}
}

// RatingReceived notifies a project owner about a new or updated rating.
func (s *Service) RatingReceived(ctx context.Context, ownerID uuid.UUID, rating *models.ProjectRating, projectTitle string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"project_id": rating.ProjectID,
		"rating":     rating.Rating,
	})
	n := &models.Notification{
		UserID:  ownerID,
		Type:    models.NotifyRating,
		Title:   "Đánh giá mới",
		Body:    fmt.Sprintf("Dự án \"%s\" vừa nhận đánh giá %d sao.", projectTitle, rating.Rating),
		Payload: payload,
	}
	if err := s.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("owner_id", ownerID.String()).Msg("rating notification failed")
	}
}

// SalinityAlert warns users in a province when a reading crosses their
// configured threshold.
func (s *Service) SalinityAlert(ctx context.Context, userID uuid.UUID, station *models.SalinityStation, salinity float64) {
	payload, _ := json.Marshal(map[string]interface{}{
		"station_id": station.StationID,
		"province":   station.Province,
		"salinity":   salinity,
	})
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotifySalinity,
		Title:   "Cảnh báo xâm nhập mặn",
		Body:    fmt.Sprintf("Độ mặn tại trạm %s (%s) đã lên %.1f g/l.", station.Name, station.Province, salinity),
		Payload: payload,
	}
	if err := s.Create(ctx, n); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("salinity alert failed")
	}
}
