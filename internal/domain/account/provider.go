// Package account manages clinical role assignment through the identity
// provider's management API.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider writes role metadata for a user in the identity provider.
type Provider interface {
	UpdateRole(ctx context.Context, userID, role string) error
}

// HTTPProvider talks to the identity provider's management REST API with
// a bearer API key.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// metadataPatch mirrors the provider's user metadata update body.
type metadataPatch struct {
	PublicMetadata map[string]string `json:"public_metadata"`
}

func (p *HTTPProvider) UpdateRole(ctx context.Context, userID, role string) error {
	body, err := json.Marshal(metadataPatch{
		PublicMetadata: map[string]string{"role": role},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/users/%s/metadata", p.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
