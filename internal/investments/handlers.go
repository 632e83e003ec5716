package investments

import (
	"context"

	"mekong-backend/internal/middleware"
	"mekong-backend/internal/models"
	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Generic fallback shown by the submission forms when nothing more specific
// applies.
const genericSubmitError = "Đã xảy ra lỗi. Vui lòng thử lại."

var transitionStatusMap = map[string]int{
	ErrInvestmentNotFound.Error():   404,
	ErrProjectNotFound.Error():      404,
	ErrNotProjectOwner.Error():      403,
	ErrInvestmentNotPending.Error(): 400,
}

// CreateInvestment POST /api/v1/investments/create-investment
func (h *Handlers) CreateInvestment(c *fiber.Ctx) error {
	var req CreateInvestmentInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, genericSubmitError, 400, nil)
	}
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	inv, err := h.Service.CreateInvestment(c.Context(), actorID, req)
	if err != nil {
		statusMap := map[string]int{
			ErrAmountInvalid.Error():    400,
			ErrNameRequired.Error():     400,
			ErrPhoneRequired.Error():    400,
			ErrEmailRequired.Error():    400,
			ErrTermsNotAccepted.Error(): 400,
			ErrProjectNotFound.Error():  404,
			ErrProjectNotOpen.Error():   400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, genericSubmitError, 500, nil)
	}
	return response.SuccessCreated(c, "Investment submitted successfully", inv, nil)
}

// ConfirmInvestment POST /api/v1/investments/confirm-investment
func (h *Handlers) ConfirmInvestment(c *fiber.Ctx) error {
	return h.transition(c, "Investment confirmed", h.Service.ConfirmInvestment)
}

// CancelInvestment POST /api/v1/investments/cancel-investment
func (h *Handlers) CancelInvestment(c *fiber.Ctx) error {
	return h.transition(c, "Investment cancelled", h.Service.CancelInvestment)
}

func (h *Handlers) transition(
	c *fiber.Ctx,
	message string,
	fn func(ctx context.Context, investmentID, actorID uuid.UUID, actorRole string) (*models.ProjectInvestment, error),
) error {
	var body struct {
		InvestmentID string `json:"investment_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.InvestmentID == "" {
		return response.Error(c, "investment_id is required", 400, nil)
	}
	investmentID, err := uuid.Parse(body.InvestmentID)
	if err != nil {
		return response.Error(c, "Invalid investment_id format", 400, nil)
	}
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	inv, err := fn(c.Context(), investmentID, actorID, middleware.GetUserRole(c))
	if err != nil {
		if code, ok := transitionStatusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, message, inv, nil)
}

// ListProjectInvestments GET /api/v1/investments/project-investments/:project_id
func (h *Handlers) ListProjectInvestments(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	list, err := h.Service.ListProjectInvestments(c.Context(), projectID, actorID, middleware.GetUserRole(c))
	if err != nil {
		switch err {
		case ErrProjectNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case ErrNotProjectOwner:
			return response.Error(c, err.Error(), 403, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Investments fetched successfully", list, nil)
}

// ListOwnInvestments GET /api/v1/investments/my-investments
func (h *Handlers) ListOwnInvestments(c *fiber.Ctx) error {
	actorID, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	list, err := h.Service.ListOwnInvestments(c.Context(), actorID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Investments fetched successfully", list, nil)
}
