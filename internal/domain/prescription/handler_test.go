package prescription

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/metrics"
	"github.com/rxgate/rxgate/pkg/apperror"
)

func setupHandler(t *testing.T, repo Repository, poster Poster) *echo.Echo {
	t.Helper()
	h := NewHandler(newTestService(repo), newTestForwarder(poster), metrics.New())

	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(zerolog.New(os.Stderr).Level(zerolog.Disabled))
	h.RegisterRoutes(e.Group(""))
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func submitBody() string {
	return `{
		"customerEmail": "jane@x.com",
		"orderId": "O1",
		"doctorName": "Dr. Smith",
		"medicineName": "NAD+ Injection",
		"doctorNotes": "Take with food, twice daily.",
		"healthChanges": "no",
		"takingMedications": "no",
		"hadMedicationBefore": "no",
		"pregnancyStatus": "no",
		"allergicReaction": "no",
		"allergies": "no",
		"medicalConditions": "no"
	}`
}

func TestSubmitEndpoint(t *testing.T) {
	repo := newMockRepo()
	repo.addOrder("jane@x.com", "O1")
	e := setupHandler(t, repo, &mockPoster{})

	rec := postJSON(e, "/prescriptions", submitBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["success"] != true || resp["prescriptionId"] == "" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
}

func TestSubmitEndpoint_OrderNotFoundIs404(t *testing.T) {
	repo := newMockRepo()
	repo.addOrder("jane@x.com", "OTHER")
	e := setupHandler(t, repo, &mockPoster{})

	rec := postJSON(e, "/prescriptions", submitBody())
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitEndpoint_MissingFieldsListed(t *testing.T) {
	e := setupHandler(t, newMockRepo(), &mockPoster{})

	rec := postJSON(e, "/prescriptions", `{"customerEmail":"jane@x.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		MissingFields []string `json:"missingFields"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.MissingFields) != 4 {
		t.Errorf("missingFields = %v", resp.MissingFields)
	}
}

func TestListEndpoint_RequiresFilter(t *testing.T) {
	e := setupHandler(t, newMockRepo(), &mockPoster{})

	req := httptest.NewRequest(http.MethodGet, "/prescriptions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListEndpoint_ByCustomer(t *testing.T) {
	repo := newMockRepo()
	cid := uuid.New()
	repo.rows = []*Row{{
		Prescription:    Prescription{ID: uuid.New(), CustomerID: cid, DoctorName: "Dr. Smith"},
		CustomerEmail:   "jane@x.com",
		OrderExternalID: "O1",
	}}
	e := setupHandler(t, repo, &mockPoster{})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/prescriptions?customerId=%s", cid), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success       bool   `json:"success"`
		Count         int    `json:"count"`
		Prescriptions []*Row `json:"prescriptions"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 1 || resp.Prescriptions[0].CustomerEmail != "jane@x.com" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
}

func TestListEndpoint_BadUUID(t *testing.T) {
	e := setupHandler(t, newMockRepo(), &mockPoster{})

	req := httptest.NewRequest(http.MethodGet, "/prescriptions?customerId=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestForwardEndpoint(t *testing.T) {
	poster := &mockPoster{}
	e := setupHandler(t, newMockRepo(), poster)

	body := `{
		"orderId": "O1",
		"customerEmail": "jane@x.com",
		"doctorNotes": "Take with food, twice daily.",
		"signaturePdf": "data:application/pdf;base64,JVBERi0=",
		"healthChanges": "no"
	}`
	rec := postJSON(e, "/prescription-submit", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if poster.calls != 1 {
		t.Errorf("webhook posted %d times, want 1", poster.calls)
	}
}

func TestForwardEndpoint_WebhookFailureIs500(t *testing.T) {
	poster := &mockPoster{err: apperror.Upstream("webhook returned status 502", nil)}
	e := setupHandler(t, newMockRepo(), poster)

	body := `{
		"orderId": "O1",
		"customerEmail": "jane@x.com",
		"doctorNotes": "Take with food, twice daily.",
		"signaturePdf": "data:application/pdf;base64,JVBERi0="
	}`
	rec := postJSON(e, "/prescription-submit", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500, body %s", rec.Code, rec.Body.String())
	}
}
