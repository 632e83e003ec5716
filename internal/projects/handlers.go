package projects

import (
	"mekong-backend/internal/middleware"
	"mekong-backend/internal/navigation"
	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type createProjectRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	FundingGoal     int64   `json:"funding_goal"`
	FarmersImpacted int     `json:"farmers_impacted"`
	Area            string  `json:"area"`
	ImageURL        *string `json:"image_url"`
}

// CreateProject POST /api/v1/projects/create-project. On success the client
// shows its timed success panel and navigates to the invest page; the
// metadata carries that target so the redirect has one source of truth.
func (h *Handlers) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	actorID, err := actorUUID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Service.CreateProject(c.Context(), CreateProjectInput{
		Title:           req.Title,
		Description:     req.Description,
		FundingGoal:     req.FundingGoal,
		FarmersImpacted: req.FarmersImpacted,
		Area:            req.Area,
		ImageURL:        req.ImageURL,
		OwnerID:         actorID,
	})
	if err != nil {
		switch err {
		case ErrTitleRequired, ErrGoalInvalid:
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.SuccessCreated(c, "Project created successfully", p, fiber.Map{
		"next_page": navigation.PageInvest,
	})
}

// ListProjects GET /api/v1/projects/get-all-projects?status=active
func (h *Handlers) ListProjects(c *fiber.Ctx) error {
	list, err := h.Service.ListProjects(c.Context(), c.Query("status"))
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Projects fetched successfully", list, nil)
}

// ListOwnProjects GET /api/v1/projects/get-my-projects
func (h *Handlers) ListOwnProjects(c *fiber.Ctx) error {
	actorID, err := actorUUID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	list, err := h.Service.ListOwnProjects(c.Context(), actorID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Projects fetched successfully", list, nil)
}

// GetProject GET /api/v1/projects/get-project/:project_id
func (h *Handlers) GetProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	p, err := h.Service.GetProject(c.Context(), projectID)
	if err != nil {
		if err == ErrProjectNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project fetched successfully", p, nil)
}

// UpdateProject PUT /api/v1/projects/update-project/:project_id
func (h *Handlers) UpdateProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	actorID, err := actorUUID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Service.UpdateProject(c.Context(), UpdateProjectInput{
		ProjectID: projectID,
		ActorID:   actorID,
		Fields:    fields,
	})
	if err != nil {
		statusMap := map[string]int{
			ErrProjectNotFound.Error():  404,
			ErrNotProjectOwner.Error():  403,
			ErrTitleRequired.Error():    400,
			ErrGoalInvalid.Error():      400,
			ErrProjectCancelled.Error(): 400,
			"No valid changes provided": 400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project updated successfully", p, nil)
}

// UpdateStatus POST /api/v1/projects/update-status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		ProjectID string `json:"project_id"`
		Status    string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.ProjectID == "" || body.Status == "" {
		return response.Error(c, "project_id and status are required", 400, nil)
	}
	projectID, err := uuid.Parse(body.ProjectID)
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	actorID, err := actorUUID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	p, err := h.Service.UpdateStatus(c.Context(), projectID, actorID, middleware.GetUserRole(c), body.Status)
	if err != nil {
		statusMap := map[string]int{
			ErrProjectNotFound.Error(): 404,
			ErrNotProjectOwner.Error(): 403,
			ErrInvalidStatus.Error():   400,
		}
		if code, ok := statusMap[err.Error()]; ok {
			return response.Error(c, err.Error(), code, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Project status updated", p, nil)
}

// DeleteProject DELETE /api/v1/projects/delete-project/:project_id
func (h *Handlers) DeleteProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return response.Error(c, "Invalid project_id format", 400, nil)
	}
	actorID, err := actorUUID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.DeleteProject(c.Context(), projectID, actorID); err != nil {
		switch err {
		case ErrProjectNotFound:
			return response.Error(c, err.Error(), 404, nil)
		case ErrNotProjectOwner:
			return response.Error(c, err.Error(), 403, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Project deleted successfully", nil, nil)
}

func actorUUID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(middleware.GetUserID(c))
}
