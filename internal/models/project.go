package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project status values. Transitions are set by the owner or an admin, never
// derived from funding totals.
const (
	ProjectPending   = "pending"
	ProjectActive    = "active"
	ProjectFunded    = "funded"
	ProjectCompleted = "completed"
	ProjectCancelled = "cancelled"
)

// ValidProjectStatuses for status-transition validation.
var ValidProjectStatuses = []string{
	ProjectPending, ProjectActive, ProjectFunded, ProjectCompleted, ProjectCancelled,
}

// InvestmentProject is a crowdfunding campaign for saltwater-intrusion
// infrastructure (sluice gates, freshwater reservoirs, resilient seed stock).
// CurrentFunding only ever grows: confirmed investments add to it, cancels do
// not subtract.
type InvestmentProject struct {
	ProjectID       uuid.UUID      `gorm:"column:project_id;type:uuid;primaryKey" json:"project_id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	FundingGoal     int64          `gorm:"column:funding_goal;not null" json:"funding_goal"`
	CurrentFunding  int64          `gorm:"column:current_funding;not null;default:0" json:"current_funding"`
	FarmersImpacted int            `gorm:"column:farmers_impacted;not null;default:0" json:"farmers_impacted"`
	Area            string         `gorm:"column:area" json:"area"`
	ImageURL        *string        `gorm:"column:image_url" json:"image_url"`
	Status          string         `gorm:"column:status;not null;default:pending" json:"status"`
	OwnerID         uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InvestmentProject) TableName() string {
	return "investment_projects"
}

func (p *InvestmentProject) BeforeCreate(tx *gorm.DB) error {
	if p.ProjectID == uuid.Nil {
		p.ProjectID = uuid.New()
	}
	return nil
}
