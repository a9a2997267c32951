package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rxgate/rxgate/pkg/apperror"
)

func TestMiddlewareRecordsDuration(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/orders-queue", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", m.Handler())

	req := httptest.NewRequest(http.MethodGet, "/orders-queue", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "rxgate_http_request_duration_seconds") {
		t.Error("expected http duration metric in exposition output")
	}
}

func TestMiddlewareRecordsErrorStatus(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/prescriptions", func(c echo.Context) error {
		return apperror.NotFound("Order 42 not found")
	})
	e.GET("/metrics", m.Handler())

	req := httptest.NewRequest(http.MethodGet, "/prescriptions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `status="404"`) {
		t.Error("typed error not recorded with its mapped status")
	}
	if strings.Contains(body, `path="/prescriptions",status="200"`) {
		t.Error("failed request recorded as 200")
	}
}

func TestCountersExposed(t *testing.T) {
	m := New()
	m.OrdersReceived.Inc()
	m.OrdersDeduplicated.Inc()
	m.PrescriptionsSaved.Inc()
	m.WebhookFailures.WithLabelValues("customer-lookup").Inc()

	e := echo.New()
	e.GET("/metrics", m.Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"rxgate_orders_received_total 1",
		"rxgate_orders_deduplicated_total 1",
		"rxgate_prescriptions_saved_total 1",
		`rxgate_webhook_failures_total{endpoint="customer-lookup"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in exposition output", want)
		}
	}
}
