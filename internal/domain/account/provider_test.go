package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProviderUpdateRole(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody metadataPatch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "sk_test_key")
	if err := p.UpdateRole(context.Background(), "user_1", "nurse"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/users/user_1/metadata" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer sk_test_key" {
		t.Errorf("authorization = %s", gotAuth)
	}
	if gotBody.PublicMetadata["role"] != "nurse" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestHTTPProviderUpdateRole_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "k")
	if err := p.UpdateRole(context.Background(), "user_1", "nurse"); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
