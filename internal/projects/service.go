package projects

import (
	"context"
	"errors"
	"strings"

	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

var (
	ErrProjectNotFound  = errors.New("Project not found")
	ErrNotProjectOwner  = errors.New("Only the project owner can do this")
	ErrTitleRequired    = errors.New("Title is required")
	ErrGoalInvalid      = errors.New("Funding goal must be a positive amount")
	ErrInvalidStatus    = errors.New("Invalid project status")
	ErrProjectCancelled = errors.New("Project is cancelled")
)

type CreateProjectInput struct {
	Title           string
	Description     string
	FundingGoal     int64
	FarmersImpacted int
	Area            string
	ImageURL        *string
	OwnerID         uuid.UUID
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*models.InvestmentProject, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if in.FundingGoal <= 0 {
		return nil, ErrGoalInvalid
	}
	p := &models.InvestmentProject{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		FundingGoal:     in.FundingGoal,
		FarmersImpacted: in.FarmersImpacted,
		Area:            in.Area,
		ImageURL:        in.ImageURL,
		Status:          models.ProjectPending,
		OwnerID:         in.OwnerID,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns projects newest first, optionally filtered by status.
func (s *Service) ListProjects(ctx context.Context, status string) ([]models.InvestmentProject, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.InvestmentProject
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnProjects returns the caller's projects newest first.
func (s *Service) ListOwnProjects(ctx context.Context, ownerID uuid.UUID) ([]models.InvestmentProject, error) {
	var out []models.InvestmentProject
	if err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetProject(ctx context.Context, projectID uuid.UUID) (*models.InvestmentProject, error) {
	var p models.InvestmentProject
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

type UpdateProjectInput struct {
	ProjectID uuid.UUID
	ActorID   uuid.UUID
	Fields    map[string]interface{}
}

// UpdateProject updates editable fields on an own project. current_funding and
// status are never writable here; status has its own transition endpoint and
// funding moves only through confirmed investments.
func (s *Service) UpdateProject(ctx context.Context, in UpdateProjectInput) (*models.InvestmentProject, error) {
	p, err := s.GetProject(ctx, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != in.ActorID {
		return nil, ErrNotProjectOwner
	}
	if p.Status == models.ProjectCancelled {
		return nil, ErrProjectCancelled
	}

	allowed := map[string]bool{
		"title": true, "description": true, "funding_goal": true,
		"farmers_impacted": true, "area": true, "image_url": true,
	}
	upd := make(map[string]interface{})
	for k, v := range in.Fields {
		if !allowed[k] {
			continue
		}
		if k == "funding_goal" {
			goal, ok := toInt64(v)
			if !ok || goal <= 0 {
				return nil, ErrGoalInvalid
			}
			v = goal
		}
		if k == "title" {
			title, _ := v.(string)
			if strings.TrimSpace(title) == "" {
				return nil, ErrTitleRequired
			}
			v = strings.TrimSpace(title)
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid changes provided")
	}
	if err := s.DB.WithContext(ctx).Model(p).Updates(upd).Error; err != nil {
		return nil, err
	}
	s.DB.WithContext(ctx).Where("project_id = ?", in.ProjectID).First(p)
	return p, nil
}

// UpdateStatus sets the project status. Transitions are an owner or admin
// action, never derived from funding totals.
func (s *Service) UpdateStatus(ctx context.Context, projectID, actorID uuid.UUID, actorRole, status string) (*models.InvestmentProject, error) {
	valid := false
	for _, st := range models.ValidProjectStatuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidStatus
	}
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID && actorRole != constants.Admin {
		return nil, ErrNotProjectOwner
	}
	if err := s.DB.WithContext(ctx).Model(p).Update("status", status).Error; err != nil {
		return nil, err
	}
	p.Status = status
	return p, nil
}

// DeleteProject soft-deletes an own project.
func (s *Service) DeleteProject(ctx context.Context, projectID, actorID uuid.UUID) error {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID {
		return ErrNotProjectOwner
	}
	return s.DB.WithContext(ctx).Delete(p).Error
}

func toInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case float64:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}
