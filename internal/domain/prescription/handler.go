package prescription

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/platform/metrics"
	"github.com/rxgate/rxgate/pkg/apperror"
	"github.com/rxgate/rxgate/pkg/pagination"
)

type Handler struct {
	svc       *Service
	forwarder *Forwarder
	metrics   *metrics.Metrics
}

func NewHandler(svc *Service, forwarder *Forwarder, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, forwarder: forwarder, metrics: m}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/prescriptions", h.Submit)
	api.GET("/prescriptions", h.List)
	api.POST("/prescription-submit", h.Forward)
}

// Submit handles POST /prescriptions: the direct-persistence path.
func (h *Handler) Submit(c echo.Context) error {
	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	result, err := h.svc.Submit(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	h.metrics.PrescriptionsSaved.Inc()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Prescription saved successfully",
		"prescriptionId": result.PrescriptionID,
		"orderId":        result.OrderID,
		"customerId":     result.CustomerID,
	})
}

// List handles GET /prescriptions?customerId=&orderId=.
func (h *Handler) List(c echo.Context) error {
	var customerID *uuid.UUID
	if raw := c.QueryParam("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Validation("customerId must be a UUID")
		}
		customerID = &id
	}
	var orderID *string
	if raw := c.QueryParam("orderId"); raw != "" {
		orderID = &raw
	}

	rows, err := h.svc.List(c.Request().Context(), customerID, orderID, pagination.FromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"prescriptions": rows,
		"count":         len(rows),
	})
}

// Forward handles POST /prescription-submit: the external-forward path.
func (h *Handler) Forward(c echo.Context) error {
	var req ForwardRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request body")
	}

	if err := h.forwarder.Forward(c.Request().Context(), &req); err != nil {
		if apperror.IsKind(err, apperror.KindUpstream) || apperror.IsKind(err, apperror.KindTimeout) {
			h.metrics.WebhookFailures.WithLabelValues("prescription-submit").Inc()
		}
		return err
	}

	h.metrics.PrescriptionsForwarded.Inc()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Prescription form submitted successfully",
	})
}
