package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{MissingFields([]string{"orderId"}), http.StatusBadRequest},
		{NotFound("customer %s not found", "x"), http.StatusNotFound},
		{Unauthorized("no session"), http.StatusUnauthorized},
		{Upstream("webhook failed", nil), http.StatusInternalServerError},
		{Timeout("webhook timed out", nil), http.StatusInternalServerError},
		{Internal("db error", errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.Status(); got != tc.status {
			t.Errorf("%q: expected status %d, got %d", tc.err.Message, tc.status, got)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("db error", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NotFound("order O1 not found"))
	e := As(wrapped)
	if e == nil {
		t.Fatal("expected to extract *Error from wrapped error")
	}
	if e.Kind != KindNotFound {
		t.Errorf("expected KindNotFound, got %v", e.Kind)
	}
	if As(errors.New("plain")) != nil {
		t.Error("expected nil for a non-taxonomy error")
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{echo.NewHTTPError(http.StatusForbidden, "nope"), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestHTTPErrorHandler_TypedError(t *testing.T) {
	e := echo.New()
	logger := zerolog.New(os.Stderr)
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(MissingFields([]string{"orderId", "customerEmail"}), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error != "Missing required fields" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if len(body.MissingFields) != 2 || body.MissingFields[0] != "orderId" {
		t.Errorf("unexpected missingFields: %v", body.MissingFields)
	}
}

func TestHTTPErrorHandler_InternalDetails(t *testing.T) {
	e := echo.New()
	logger := zerolog.New(os.Stderr)
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(Internal("Internal server error", errors.New("duplicate key")), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body Body
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Details != "duplicate key" {
		t.Errorf("expected details to carry underlying message, got %q", body.Details)
	}
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	e := echo.New()
	logger := zerolog.New(os.Stderr)
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	e.HTTPErrorHandler(echo.NewHTTPError(http.StatusForbidden, "required role: doctor"), c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
