package users

import (
	"mekong-backend/internal/middleware"
	"mekong-backend/internal/navigation"
	"mekong-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Config  middleware.SessionConfig
}

// ViewProfile GET /api/v1/users/view-profile/:id
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	profile, err := h.Service.GetProfile(c.Context(), c.Params("id"))
	if err != nil {
		switch err {
		case ErrMissingUserID, ErrInvalidUserID:
			return response.Error(c, err.Error(), 400, nil)
		case ErrUserNotFound:
			return response.Error(c, err.Error(), 404, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Profile fetched successfully", profile, nil)
}

// UpdateProfile PUT /api/v1/users/update-profile, own account only.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	userID := middleware.GetUserID(c)
	u, err := h.Service.UpdateProfile(c.Context(), userID, fields)
	if err != nil {
		switch err {
		case ErrMissingUserID, ErrNoFields:
			return response.Error(c, err.Error(), 400, nil)
		case ErrUserNotFound:
			return response.Error(c, err.Error(), 404, nil)
		default:
			if err.Error() == "Full name contains invalid characters" {
				return response.Error(c, err.Error(), 400, nil)
			}
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	// Keep the session in sync so /me reflects the change immediately.
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:    u.UserID.String(),
		Username:  u.Username,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	})
	return response.Success(c, "Profile updated successfully", u, nil)
}

// GetSettings GET /api/v1/users/settings
func (h *Handlers) GetSettings(c *fiber.Ctx) error {
	settings, err := h.Service.GetSettings(c.Context(), middleware.GetUserID(c))
	if err != nil {
		if err == ErrUserNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Settings fetched successfully", settings, nil)
}

// UpdateSettings PUT /api/v1/users/settings
func (h *Handlers) UpdateSettings(c *fiber.Ctx) error {
	var in Settings
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	settings, err := h.Service.UpdateSettings(c.Context(), middleware.GetUserID(c), in)
	if err != nil {
		if err == ErrUserNotFound {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Settings updated successfully", settings, nil)
}

// UpdateRole PATCH /api/v1/users/update-role switches own role between farmer
// and business. Responds with the page set for the new role so the client can
// redirect off a now-disallowed page.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.Role == "" {
		return response.Error(c, "Role is required", 400, nil)
	}
	u, err := h.Service.UpdateRole(c.Context(), middleware.GetUserID(c), body.Role)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			return response.Error(c, err.Error(), 404, nil)
		default:
			if err.Error() == "Role must be farmer or business" {
				return response.Error(c, err.Error(), 400, nil)
			}
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:    u.UserID.String(),
		Username:  u.Username,
		Fullname:  u.Fullname,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	})
	return response.Success(c, "Role updated successfully", u, fiber.Map{
		"allowed_pages": navigation.AllowedPages(u.Role),
	})
}
