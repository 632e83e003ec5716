package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Investment status values.
const (
	InvestmentPending   = "pending"
	InvestmentConfirmed = "confirmed"
	InvestmentCancelled = "cancelled"
)

// ProjectInvestment is a pledged contribution against a project. Amount is in
// whole VND. Contact fields are captured at submission time so the project
// owner can follow up outside the platform.
type ProjectInvestment struct {
	InvestmentID  uuid.UUID      `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	ProjectID     uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	InvestorID    uuid.UUID      `gorm:"column:investor_id;type:uuid;not null;index" json:"investor_id"`
	InvestorName  string         `gorm:"column:investor_name;not null" json:"investor_name"`
	InvestorPhone string         `gorm:"column:investor_phone;not null" json:"investor_phone"`
	InvestorEmail string         `gorm:"column:investor_email;not null" json:"investor_email"`
	Amount        int64          `gorm:"column:amount;not null" json:"amount"`
	Status        string         `gorm:"column:status;not null;default:pending" json:"status"`
	Message       *string        `gorm:"column:message;type:text" json:"message"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ProjectInvestment) TableName() string {
	return "project_investments"
}

func (i *ProjectInvestment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}
