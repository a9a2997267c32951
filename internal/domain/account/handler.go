package account

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/platform/auth"
	"github.com/rxgate/rxgate/pkg/apperror"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/set-role", h.SetRole)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

// SetRole handles POST /set-role for the authenticated user.
func (h *Handler) SetRole(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := h.svc.SetRole(c.Request().Context(), userID, req.Role); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"role":    req.Role,
	})
}
