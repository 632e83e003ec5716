package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedPost is a community feed entry.
type FeedPost struct {
	PostID    uuid.UUID      `gorm:"column:post_id;type:uuid;primaryKey" json:"post_id"`
	AuthorID  uuid.UUID      `gorm:"column:author_id;type:uuid;not null;index" json:"author_id"`
	Content   string         `gorm:"column:content;type:text;not null" json:"content"`
	ImageURL  *string        `gorm:"column:image_url" json:"image_url"`
	Likes     int            `gorm:"column:likes;not null;default:0" json:"likes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (FeedPost) TableName() string {
	return "feed_posts"
}

func (p *FeedPost) BeforeCreate(tx *gorm.DB) error {
	if p.PostID == uuid.Nil {
		p.PostID = uuid.New()
	}
	return nil
}

// Product is a marketplace item (seed stock, pumps, sensors) sold by a
// business account.
type Product struct {
	ProductID   uuid.UUID      `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	SellerID    uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Price       int64          `gorm:"column:price;not null" json:"price"`
	Unit        string         `gorm:"column:unit" json:"unit"`
	ImageURL    *string        `gorm:"column:image_url" json:"image_url"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == uuid.Nil {
		p.ProductID = uuid.New()
	}
	return nil
}
