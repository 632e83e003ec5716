package investments

import (
	"context"
	"errors"

	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/constants"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier Notifier
}

// Notifier pushes a notification to the project owner when a pledge arrives.
// Nil Notifier disables pushes (tests).
type Notifier interface {
	InvestmentReceived(ctx context.Context, ownerID uuid.UUID, inv *models.ProjectInvestment, projectTitle string)
}

var (
	ErrProjectNotFound      = errors.New("Project not found")
	ErrProjectNotOpen       = errors.New("Project is not accepting investments")
	ErrInvestmentNotFound   = errors.New("Investment not found")
	ErrNotProjectOwner      = errors.New("Only the project owner can do this")
	ErrInvestmentNotPending = errors.New("Investment is not pending")
	ErrAmountInvalid        = errors.New("Số tiền đầu tư phải lớn hơn 0")
	ErrNameRequired         = errors.New("Vui lòng nhập họ tên")
	ErrPhoneRequired        = errors.New("Vui lòng nhập số điện thoại")
	ErrEmailRequired        = errors.New("Vui lòng nhập email hợp lệ")
	ErrTermsNotAccepted     = errors.New("Vui lòng đồng ý với điều khoản đầu tư")
)

var validate = validator.New()

// CreateInvestmentInput is the submission form. Tags mirror the client-side
// checks: positive amount, required contact fields, terms checkbox.
type CreateInvestmentInput struct {
	ProjectID     string  `json:"project_id" validate:"required,uuid4"`
	Amount        int64   `json:"amount" validate:"required,gt=0"`
	InvestorName  string  `json:"investor_name" validate:"required"`
	InvestorPhone string  `json:"investor_phone" validate:"required"`
	InvestorEmail string  `json:"investor_email" validate:"required,email"`
	Message       *string `json:"message"`
	AcceptTerms   bool    `json:"accept_terms" validate:"eq=true"`
}

// ValidateInput returns exactly one form-level error for the first failing
// field, in form order.
func ValidateInput(in CreateInvestmentInput) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "ProjectID":
				return ErrProjectNotFound
			case "Amount":
				return ErrAmountInvalid
			case "InvestorName":
				return ErrNameRequired
			case "InvestorPhone":
				return ErrPhoneRequired
			case "InvestorEmail":
				return ErrEmailRequired
			case "AcceptTerms":
				return ErrTermsNotAccepted
			}
		}
		return err
	}
	return nil
}

// CreateInvestment records a pending pledge. Funding totals do not move until
// the owner confirms.
func (s *Service) CreateInvestment(ctx context.Context, investorID uuid.UUID, in CreateInvestmentInput) (*models.ProjectInvestment, error) {
	if err := ValidateInput(in); err != nil {
		return nil, err
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
	if project.Status != models.ProjectActive && project.Status != models.ProjectPending {
		return nil, ErrProjectNotOpen
	}

	inv := &models.ProjectInvestment{
		ProjectID:     projectID,
		InvestorID:    investorID,
		InvestorName:  in.InvestorName,
		InvestorPhone: in.InvestorPhone,
		InvestorEmail: in.InvestorEmail,
		Amount:        in.Amount,
		Status:        models.InvestmentPending,
		Message:       in.Message,
	}
	if err := s.DB.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		s.Notifier.InvestmentReceived(ctx, project.OwnerID, inv, project.Title)
	}
	return inv, nil
}

// ConfirmInvestment transitions pending -> confirmed and adds the amount to
// the project's current_funding in one transaction. current_funding only ever
// grows; a later cancel does not subtract.
func (s *Service) ConfirmInvestment(ctx context.Context, investmentID, actorID uuid.UUID, actorRole string) (*models.ProjectInvestment, error) {
	var inv models.ProjectInvestment

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("investment_id = ?", investmentID).First(&inv).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrInvestmentNotFound
			}
			return err
		}

		var project models.InvestmentProject
		if err := tx.Where("project_id = ?", inv.ProjectID).First(&project).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}
		if project.OwnerID != actorID && actorRole != constants.Admin {
			return ErrNotProjectOwner
		}
		if inv.Status != models.InvestmentPending {
			return ErrInvestmentNotPending
		}

		if err := tx.Model(&inv).Update("status", models.InvestmentConfirmed).Error; err != nil {
			return err
		}
		inv.Status = models.InvestmentConfirmed

		return tx.Model(&project).
			Update("current_funding", gorm.Expr("current_funding + ?", inv.Amount)).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CancelInvestment transitions pending -> cancelled. Confirmed pledges stay
// counted (monotonic funding).
func (s *Service) CancelInvestment(ctx context.Context, investmentID, actorID uuid.UUID, actorRole string) (*models.ProjectInvestment, error) {
	var inv models.ProjectInvestment
	if err := s.DB.WithContext(ctx).Where("investment_id = ?", investmentID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvestmentNotFound
		}
		return nil, err
	}

	var project models.InvestmentProject
	if err := s.DB.WithContext(ctx).Where("project_id = ?", inv.ProjectID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	allowed := project.OwnerID == actorID || inv.InvestorID == actorID || actorRole == constants.Admin
	if !allowed {
		return nil, ErrNotProjectOwner
	}
	if inv.Status != models.InvestmentPending {
		return nil, ErrInvestmentNotPending
	}
	if err := s.DB.WithContext(ctx).Model(&inv).Update("status", models.InvestmentCancelled).Error; err != nil {
		return nil, err
	}
	inv.Status = models.InvestmentCancelled
	return &inv, nil
}

// ListProjectInvestments returns a project's pledges newest first (owner only).
func (s *Service) ListProjectInvestments(ctx context.Context, projectID, actorID uuid.UUID, actorRole string) ([]models.ProjectInvestment, error) {
	var project models.InvestmentProject
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	if project.OwnerID != actorID && actorRole != constants.Admin {
		return nil, ErrNotProjectOwner
	}
	var out []models.ProjectInvestment
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListOwnInvestments returns the caller's pledges newest first.
func (s *Service) ListOwnInvestments(ctx context.Context, investorID uuid.UUID) ([]models.ProjectInvestment, error) {
	var out []models.ProjectInvestment
	if err := s.DB.WithContext(ctx).Where("investor_id = ?", investorID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
