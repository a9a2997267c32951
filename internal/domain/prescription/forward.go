package prescription

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/webhook"
	"github.com/rxgate/rxgate/pkg/apperror"
)

// MedicineOverride replaces a bundle's inherited quantity or description
// for one contained medicine.
type MedicineOverride struct {
	Quantity    string `json:"quantity,omitempty"`
	Description string `json:"description,omitempty"`
}

// MedicineLine is one prescribed medicine in a forwarded submission. A
// line whose name matches a catalog bundle is expanded before sending;
// SelectedContents narrows the expansion to a subset of the bundle.
type MedicineLine struct {
	Name             string                      `json:"name"`
	Quantity         string                      `json:"quantity"`
	Description      string                      `json:"description"`
	SelectedContents []string                    `json:"selectedContents,omitempty"`
	Overrides        map[string]MedicineOverride `json:"overrides,omitempty"`
}

// ForwardRequest is the wire body for the external-forward path.
type ForwardRequest struct {
	OrderID              string           `json:"orderId"`
	CustomerEmail        string           `json:"customerEmail"`
	DoctorNotes          string           `json:"doctorNotes"`
	SignaturePDF         string           `json:"signaturePdf"`
	Medicines            []MedicineLine   `json:"medicines"`
	Order                json.RawMessage  `json:"order,omitempty"`
	HealthAssessment     HealthAssessment `json:"healthAssessment"`
	PreApprovedMedicines []string         `json:"preApprovedMedicines"`
}

// MissingRequired lists required fields absent from the request.
func (r *ForwardRequest) MissingRequired() []string {
	var missing []string
	if r.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if r.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if r.DoctorNotes == "" {
		missing = append(missing, "doctorNotes")
	}
	if r.SignaturePDF == "" {
		missing = append(missing, "signaturePdf")
	}
	return missing
}

// forwardPayload is what goes over the wire to the automation webhook.
type forwardPayload struct {
	OrderID              string           `json:"orderId"`
	CustomerEmail        string           `json:"customerEmail"`
	Order                json.RawMessage  `json:"order,omitempty"`
	Medicines            []MedicineLine   `json:"medicines"`
	DoctorNotes          string           `json:"doctorNotes"`
	SignaturePDF         string           `json:"signaturePdf"`
	HealthAssessment     HealthAssessment `json:"healthAssessment"`
	PreApprovedMedicines []string         `json:"preApprovedMedicines"`
	SubmittedAt          string           `json:"submittedAt"`
}

// Poster posts JSON payloads to a webhook endpoint.
type Poster interface {
	Post(ctx context.Context, name, rawURL string, payload any) (*webhook.Response, error)
}

// Forwarder implements the external-forward submission path: nothing is
// persisted locally, the assembled payload goes straight to the
// automation webhook.
type Forwarder struct {
	poster     Poster
	catalog    *Catalog
	webhookURL string
	logger     zerolog.Logger
	now        func() time.Time
}

func NewForwarder(poster Poster, catalog *Catalog, webhookURL string, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		poster:     poster,
		catalog:    catalog,
		webhookURL: webhookURL,
		logger:     logger.With().Str("component", "prescription-forward").Logger(),
		now:        time.Now,
	}
}

// ExpandMedicines resolves bundle lines into their constituent
// medicines. Each expanded medicine inherits the bundle's quantity and
// description unless the caller gave a per-item override. Non-bundle
// lines pass through untouched.
func (f *Forwarder) ExpandMedicines(lines []MedicineLine) []MedicineLine {
	var out []MedicineLine
	for _, line := range lines {
		if !f.catalog.IsBundle(line.Name) {
			line.SelectedContents = nil
			line.Overrides = nil
			out = append(out, line)
			continue
		}

		contents := line.SelectedContents
		if len(contents) == 0 {
			contents = f.catalog.BundleContents(line.Name)
		}
		for _, name := range contents {
			item := MedicineLine{
				Name:        name,
				Quantity:    line.Quantity,
				Description: line.Description,
			}
			if ov, ok := line.Overrides[name]; ok {
				if ov.Quantity != "" {
					item.Quantity = ov.Quantity
				}
				if ov.Description != "" {
					item.Description = ov.Description
				}
			}
			out = append(out, item)
		}
	}
	if out == nil {
		out = []MedicineLine{}
	}
	return out
}

// Forward validates the submission and POSTs it to the automation
// webhook. A non-2xx response or timeout is terminal; nothing was
// persisted so there is nothing to roll back.
func (f *Forwarder) Forward(ctx context.Context, req *ForwardRequest) error {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return apperror.MissingFields(missing)
	}
	if len(req.DoctorNotes) < minDoctorNotesLen {
		return apperror.Validation("Doctor's notes must be at least 10 characters")
	}
	req.HealthAssessment.Normalize()
	if err := req.HealthAssessment.Validate(); err != nil {
		return err
	}

	payload := &forwardPayload{
		OrderID:              req.OrderID,
		CustomerEmail:        req.CustomerEmail,
		Order:                req.Order,
		Medicines:            f.ExpandMedicines(req.Medicines),
		DoctorNotes:          req.DoctorNotes,
		SignaturePDF:         req.SignaturePDF,
		HealthAssessment:     req.HealthAssessment,
		PreApprovedMedicines: req.PreApprovedMedicines,
		SubmittedAt:          f.now().UTC().Format(time.RFC3339),
	}

	if _, err := f.poster.Post(ctx, "prescription-submit", f.webhookURL, payload); err != nil {
		return err
	}

	f.logger.Info().
		Str("order_id", req.OrderID).
		Int("medicines", len(payload.Medicines)).
		Msg("prescription forwarded")
	return nil
}
