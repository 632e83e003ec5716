package feed

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mekong-backend/internal/middleware"
	"mekong-backend/internal/pkg/response"
)

type Handlers struct {
	Service *Service
}

func NewHandlers(s *Service) *Handlers {
	return &Handlers{Service: s}
}

type createPostRequest struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

func (h *Handlers) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	authorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	post, err := h.Service.CreatePost(c.Context(), authorID, req.Content, req.ImageURL)
	if err != nil {
		if err == ErrContentRequired {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		log.Error().Err(err).Msg("create post failed")
		return response.Error(c, "Could not create post", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Post created", post, nil)
}

func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	posts, err := h.Service.ListPosts(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("list posts failed")
		return response.Error(c, "Could not load feed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Feed retrieved", posts, fiber.Map{"count": len(posts)})
}

func (h *Handlers) LikePost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid post id", fiber.StatusBadRequest, nil)
	}
	post, err := h.Service.LikePost(c.Context(), postID)
	if err != nil {
		if err == ErrPostNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("like post failed")
		return response.Error(c, "Could not like post", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Post liked", post, nil)
}

func (h *Handlers) DeletePost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid post id", fiber.StatusBadRequest, nil)
	}
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeletePost(c.Context(), postID, actorID); err != nil {
		switch err {
		case ErrPostNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case ErrNotAuthor:
			return response.Forbidden(c, err.Error())
		default:
			log.Error().Err(err).Msg("delete post failed")
			return response.Error(c, "Could not delete post", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Post deleted", nil, nil)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Unit        string  `json:"unit"`
	ImageURL    *string `json:"image_url"`
}

func (h *Handlers) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	sellerID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	product, err := h.Service.CreateProduct(c.Context(), CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
		SellerID:    sellerID,
	})
	if err != nil {
		switch err {
		case ErrNameRequired, ErrPriceInvalid:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			log.Error().Err(err).Msg("create product failed")
			return response.Error(c, "Could not create product", fiber.StatusInternalServerError, nil)
		}
	}
	return response.SuccessCreated(c, "Product created", product, nil)
}

func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	var sellerID *uuid.UUID
	if raw := c.Query("seller_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.Error(c, "Invalid seller id", fiber.StatusBadRequest, nil)
		}
		sellerID = &id
	}
	products, err := h.Service.ListProducts(c.Context(), sellerID)
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		return response.Error(c, "Could not load products", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Products retrieved", products, fiber.Map{"count": len(products)})
}

func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest, nil)
	}
	product, err := h.Service.GetProduct(c.Context(), productID)
	if err != nil {
		if err == ErrProductNotFound {
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		}
		log.Error().Err(err).Msg("get product failed")
		return response.Error(c, "Could not load product", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Product retrieved", product, nil)
}

func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid product id", fiber.StatusBadRequest, nil)
	}
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeleteProduct(c.Context(), productID, actorID); err != nil {
		switch err {
		case ErrProductNotFound:
			return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
		case ErrNotSeller:
			return response.Forbidden(c, err.Error())
		default:
			log.Error().Err(err).Msg("delete product failed")
			return response.Error(c, "Could not delete product", fiber.StatusInternalServerError, nil)
		}
	}
	return response.Success(c, "Product deleted", nil, nil)
}
