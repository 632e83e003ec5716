package feed

import (
	"context"
	"errors"
	"strings"

	"mekong-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

var (
	ErrPostNotFound    = errors.New("Post not found")
	ErrProductNotFound = errors.New("Product not found")
	ErrNotAuthor       = errors.New("Only the author can delete this post")
	ErrNotSeller       = errors.New("Only the seller can delete this product")
	ErrContentRequired = errors.New("Content is required")
	ErrNameRequired    = errors.New("Product name is required")
	ErrPriceInvalid    = errors.New("Price must be a positive amount")
)

// CreatePost adds a feed entry.
func (s *Service) CreatePost(ctx context.Context, authorID uuid.UUID, content string, imageURL *string) (*models.FeedPost, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}
	p := &models.FeedPost{
		AuthorID: authorID,
		Content:  strings.TrimSpace(content),
		ImageURL: imageURL,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns the feed newest first.
func (s *Service) ListPosts(ctx context.Context) ([]models.FeedPost, error) {
	var out []models.FeedPost
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LikePost increments the like counter.
func (s *Service) LikePost(ctx context.Context, postID uuid.UUID) (*models.FeedPost, error) {
	var p models.FeedPost
	if err := s.DB.WithContext(ctx).Where("post_id = ?", postID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&p).Update("likes", gorm.Expr("likes + 1")).Error; err != nil {
		return nil, err
	}
	p.Likes++
	return &p, nil
}

// DeletePost removes an own post.
func (s *Service) DeletePost(ctx context.Context, postID, actorID uuid.UUID) error {
	var p models.FeedPost
	if err := s.DB.WithContext(ctx).Where("post_id = ?", postID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrPostNotFound
		}
		return err
	}
	if p.AuthorID != actorID {
		return ErrNotAuthor
	}
	return s.DB.WithContext(ctx).Delete(&p).Error
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Unit        string
	ImageURL    *string
	SellerID    uuid.UUID
}

// CreateProduct lists a marketplace item.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	if in.Price <= 0 {
		return nil, ErrPriceInvalid
	}
	p := &models.Product{
		SellerID:    in.SellerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Unit:        in.Unit,
		ImageURL:    in.ImageURL,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns products newest first. A non-nil sellerID filters to
// one seller's catalog.
func (s *Service) ListProducts(ctx context.Context, sellerID *uuid.UUID) ([]models.Product, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if sellerID != nil {
		q = q.Where("seller_id = ?", *sellerID)
	}
	var out []models.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes an own product.
func (s *Service) DeleteProduct(ctx context.Context, productID, actorID uuid.UUID) error {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.SellerID != actorID {
		return ErrNotSeller
	}
	return s.DB.WithContext(ctx).Delete(p).Error
}
