package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRating is one star rating per (user, project); re-rating updates the
// existing row (upsert in the ratings service).
type ProjectRating struct {
	RatingID  uuid.UUID `gorm:"column:rating_id;type:uuid;primaryKey" json:"rating_id"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_project_user" json:"user_id"`
	Rating    int       `gorm:"column:rating;not null" json:"rating"`
	Review    *string   `gorm:"column:review;type:text" json:"review"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ProjectRating) TableName() string {
	return "project_ratings"
}

func (r *ProjectRating) BeforeCreate(tx *gorm.DB) error {
	if r.RatingID == uuid.Nil {
		r.RatingID = uuid.New()
	}
	return nil
}
