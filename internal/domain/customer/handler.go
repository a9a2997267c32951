package customer

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/pkg/apperror"
)

type Handler struct {
	svc     *Service
	fetcher *Fetcher
}

func NewHandler(svc *Service, fetcher *Fetcher) *Handler {
	return &Handler{svc: svc, fetcher: fetcher}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/customer-lookup", h.Lookup)
	api.GET("/search", h.Search)
}

type lookupRequest struct {
	Email string `json:"email"`
}

// Lookup handles POST /customer-lookup.
func (h *Handler) Lookup(c echo.Context) error {
	var req lookupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	result, err := h.fetcher.Fetch(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	customerData := json.RawMessage(result.CustomerData)
	if len(customerData) == 0 {
		customerData = json.RawMessage("null")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"customerData":   customerData,
		"orderConfirmed": result.OrderConfirmed,
	})
}

// Search handles GET /search?query=.
func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("query")

	results, err := h.svc.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
