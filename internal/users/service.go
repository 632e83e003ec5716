package users

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/constants"
	"mekong-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service holds DB for profile and settings operations.
type Service struct {
	DB *gorm.DB
}

var (
	ErrUserNotFound  = errors.New("User not found")
	ErrMissingUserID = errors.New("Missing user ID")
	ErrInvalidUserID = errors.New("Invalid user ID format (must be a valid UUID)")
	ErrNoFields      = errors.New("Missing update fields")
)

// Profile is the public projection of a user (no email, no settings).
type Profile struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	Fullname  string  `json:"fullname"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar_url"`
	Province  *string `json:"province"`
}

// GetProfile returns the public profile for a user.
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Profile{
		UserID:    u.UserID.String(),
		Username:  u.Username,
		Fullname:  u.Fullname,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		Province:  u.Province,
	}, nil
}

// UpdateProfile updates allowed fields on the caller's own account.
// Allowed: fullname, avatar_url, province.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) (*models.User, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	allowed := map[string]bool{"fullname": true, "avatar_url": true, "province": true}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		if k == "fullname" {
			name, _ := v.(string)
			name = strings.TrimSpace(name)
			if !validation.IsValidFullname(name) {
				return nil, errors.New("Full name contains invalid characters")
			}
			v = name
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, ErrNoFields
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&u).Updates(upd).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u)
	return &u, nil
}

// Settings is the account settings document stored as JSON on the user row.
type Settings struct {
	Language            string `json:"language"`
	NotifyInvestments   bool   `json:"notify_investments"`
	NotifyRatings       bool   `json:"notify_ratings"`
	NotifySalinityAlert bool   `json:"notify_salinity_alert"`
	SalinityThreshold   float64 `json:"salinity_threshold"` // g/l; alerts above this
}

// DefaultSettings applied when the user has never saved settings.
func DefaultSettings() Settings {
	return Settings{
		Language:            "vi",
		NotifyInvestments:   true,
		NotifyRatings:       true,
		NotifySalinityAlert: true,
		SalinityThreshold:   4.0,
	}
}

// GetSettings returns the stored settings or defaults.
func (s *Service) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	out := DefaultSettings()
	if len(u.Settings) > 0 {
		if err := json.Unmarshal(u.Settings, &out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// UpdateSettings persists the full settings document.
func (s *Service) UpdateSettings(ctx context.Context, userID string, in Settings) (*Settings, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&u).Update("settings", datatypes.JSON(b)).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

// UpdateRole switches the caller between farmer and business. Admin cannot be
// self-assigned.
func (s *Service) UpdateRole(ctx context.Context, userID, role string) (*models.User, error) {
	if role != constants.Farmer && role != constants.Business {
		return nil, errors.New("Role must be farmer or business")
	}
	var u models.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&u).Update("role", role).Error; err != nil {
		return nil, err
	}
	u.Role = role
	return &u, nil
}
