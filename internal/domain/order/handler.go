package order

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/internal/platform/metrics"
	"github.com/rxgate/rxgate/pkg/apperror"
)

type Handler struct {
	svc     *Service
	queue   *MemoryQueue
	metrics *metrics.Metrics
}

func NewHandler(svc *Service, queue *MemoryQueue, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, queue: queue, metrics: m}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/orders-intake", h.ReceiveOrder)
	api.POST("/orders-queue", h.PushToQueue)
	api.GET("/orders-queue", h.DrainQueue)
}

// ReceiveOrder handles POST /orders-intake: the persistent intake path
// used by the upstream automation.
func (h *Handler) ReceiveOrder(c echo.Context) error {
	var o Order
	if err := c.Bind(&o); err != nil {
		return apperror.Validation("invalid request body")
	}

	result, err := h.svc.Receive(c.Request().Context(), &o)
	if err != nil {
		return err
	}

	if result.Duplicate {
		h.metrics.OrdersDeduplicated.Inc()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Order already exists",
			"orderId": result.OrderID,
		})
	}

	h.metrics.OrdersReceived.Inc()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order stored",
		"orderId": result.OrderID,
	})
}

// PushToQueue handles POST /orders-queue: the transient queue the
// automation fills ahead of a customer lookup.
func (h *Handler) PushToQueue(c echo.Context) error {
	var o Order
	if err := c.Bind(&o); err != nil {
		return apperror.Validation("invalid request body")
	}
	if missing := o.MissingRequired(); len(missing) > 0 {
		return apperror.MissingFields(missing)
	}

	h.queue.Enqueue(&o)
	h.metrics.OrdersReceived.Inc()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order added to queue",
		"orderId": o.OrderID,
	})
}

// DrainQueue handles GET /orders-queue: returns all pending orders and
// clears the queue.
func (h *Handler) DrainQueue(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": h.queue.DrainAll(),
	})
}
