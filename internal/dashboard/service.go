package dashboard

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/constants"
)

type Service struct {
	DB *gorm.DB
}

// Stats is the landing-page summary for one account. FundingRaised is only
// populated for business accounts (sum over their projects).
type Stats struct {
	Posts               int64 `json:"posts"`
	Products            int64 `json:"products"`
	Projects            int64 `json:"projects"`
	InvestedTotal       int64 `json:"invested_total"`
	PendingInvestments  int64 `json:"pending_investments"`
	UnreadNotifications int64 `json:"unread_notifications"`
	FundingRaised       int64 `json:"funding_raised,omitempty"`
}

// Summary computes per-account counters in one pass of scoped queries.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, role string) (*Stats, error) {
	db := s.DB.WithContext(ctx)
	out := &Stats{}

	if err := db.Model(&models.FeedPost{}).Where("author_id = ?", userID).Count(&out.Posts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Where("seller_id = ?", userID).Count(&out.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.InvestmentProject{}).Where("owner_id = ?", userID).Count(&out.Projects).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ProjectInvestment{}).
		Where("investor_id = ? AND status = ?", userID, models.InvestmentConfirmed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&out.InvestedTotal).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ProjectInvestment{}).
		Where("investor_id = ? AND status = ?", userID, models.InvestmentPending).
		Count(&out.PendingInvestments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&out.UnreadNotifications).Error; err != nil {
		return nil, err
	}

	if role == constants.Business || role == constants.Admin {
		if err := db.Model(&models.InvestmentProject{}).
			Where("owner_id = ?", userID).
			Select("COALESCE(SUM(current_funding), 0)").
			Scan(&out.FundingRaised).Error; err != nil {
			return nil, err
		}
	}
	return out, nil
}
