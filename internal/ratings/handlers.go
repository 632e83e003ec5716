package ratings

import (
	"mekong-backend/internal/middleware"
	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// RateProject POST /api/v1/ratings/rate-project
func (h *Handlers) RateProject(c *fiber.Ctx) error {
	var req RateProjectInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	r, err := h.Service.RateProject(c.Context(), userID, req)
	if err != nil {
		switch err {
		case ErrRatingOutOfRange:
			return response.Error(c, err.Error(), 400, nil)
		case ErrProjectNotFound:
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Đã xảy ra lỗi. Vui lòng thử lại.", 500, nil)
		}
	}
	return response.Success(c, "Rating saved successfully", r, nil)
}

// GetMyRating GET /api/v1/ratings/my-rating/:project_id
func (h *Handlers) GetMyRating(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	userID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	r, err := h.Service.GetUserRating(c.Context(), userID, projectID)
	if err != nil {
		if err == ErrRatingNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Rating fetched successfully", r, nil)
}

// ListProjectRatings GET /api/v1/ratings/project-ratings/:project_id
func (h *Handlers) ListProjectRatings(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	list, err := h.Service.ListProjectRatings(c.Context(), projectID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Ratings fetched successfully", list, nil)
}
