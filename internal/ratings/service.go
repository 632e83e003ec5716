package ratings

import (
	"context"
	"errors"

	"mekong-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

// Notifier tells the project owner about a new or updated rating. Nil
// disables pushes (tests).
type Notifier interface {
	RatingReceived(ctx context.Context, ownerID uuid.UUID, rating *models.ProjectRating, projectTitle string)
}

var (
	ErrProjectNotFound  = errors.New("Project not found")
	ErrRatingNotFound   = errors.New("Rating not found")
	ErrRatingOutOfRange = errors.New("Vui lòng chọn số sao từ 1 đến 5")
)

type RateProjectInput struct {
	ProjectID string  `json:"project_id"`
	Rating    int     `json:"rating"`
	Review    *string `json:"review"`
}

// RateProject upserts the caller's rating for a project: one row per
// (user, project), re-rating overwrites stars and review.
func (s *Service) RateProject(ctx context.Context, userID uuid.UUID, in RateProjectInput) (*models.ProjectRating, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrRatingOutOfRange
	}
	projectID, err := uuid.Parse(in.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	var project models.InvestmentProject
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	r := &models.ProjectRating{
		ProjectID: projectID,
		UserID:    userID,
		Rating:    in.Rating,
		Review:    in.Review,
	}
	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(r).Error
	if err != nil {
		return nil, err
	}
	// Re-read so an update returns the stored row, not the insert candidate.
	var stored models.ProjectRating
	if err := s.DB.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).First(&stored).Error; err != nil {
		return nil, err
	}
	if s.Notifier != nil && project.OwnerID != userID {
		s.Notifier.RatingReceived(ctx, project.OwnerID, &stored, project.Title)
	}
	return &stored, nil
}

// GetUserRating returns the caller's rating for a project, if any.
func (s *Service) GetUserRating(ctx context.Context, userID, projectID uuid.UUID) (*models.ProjectRating, error) {
	var r models.ProjectRating
	if err := s.DB.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, userID).First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ListProjectRatings returns all ratings for a project, newest first.
func (s *Service) ListProjectRatings(ctx context.Context, projectID uuid.UUID) ([]models.ProjectRating, error) {
	var out []models.ProjectRating
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
