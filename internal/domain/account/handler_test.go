package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/auth"
	"github.com/rxgate/rxgate/pkg/apperror"
)

func setupHandler(t *testing.T, provider Provider) *echo.Echo {
	t.Helper()
	h := NewHandler(newTestService(provider))

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zerolog.New(os.Stderr).Level(zerolog.Disabled))
	h.RegisterRoutes(e.Group(""))
	return e
}

func postSetRole(e *echo.Echo, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/set-role", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSetRoleEndpoint(t *testing.T) {
	provider := &mockProvider{}
	e := setupHandler(t, provider)

	rec := postSetRole(e, `{"role":"doctor"}`, "user_1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != true || resp["role"] != "doctor" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
}

func TestSetRoleEndpoint_Unauthenticated(t *testing.T) {
	e := setupHandler(t, &mockProvider{})

	rec := postSetRole(e, `{"role":"doctor"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestSetRoleEndpoint_InvalidRole(t *testing.T) {
	e := setupHandler(t, &mockProvider{})

	rec := postSetRole(e, `{"role":"admin"}`, "user_1")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
