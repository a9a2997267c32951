package prescription

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rxgate/rxgate/internal/platform/db"
	"github.com/rxgate/rxgate/pkg/apperror"
	"github.com/rxgate/rxgate/pkg/pagination"
)

// minDoctorNotesLen is the shortest clinically useful note.
const minDoctorNotesLen = 10

// SubmitResult identifies the persisted prescription and its parents.
type SubmitResult struct {
	PrescriptionID uuid.UUID
	OrderID        string
	CustomerID     uuid.UUID
}

// Service implements the direct-persistence submission path.
type Service struct {
	repo   Repository
	inTx   func(ctx context.Context, fn func(ctx context.Context) error) error
	logger zerolog.Logger
}

func NewService(repo Repository, pool *pgxpool.Pool, logger zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		inTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.InTx(ctx, pool, fn)
		},
		logger: logger.With().Str("component", "prescription").Logger(),
	}
}

// Submit validates and stores a prescription. Customer and order must
// already exist; the whole write runs in one transaction.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return nil, apperror.MissingFields(missing)
	}
	if len(req.DoctorNotes) < minDoctorNotesLen {
		return nil, apperror.Validation("Doctor's notes must be at least 10 characters")
	}
	req.Normalize()
	if err := req.HealthAssessment.Validate(); err != nil {
		return nil, err
	}

	result := &SubmitResult{OrderID: req.OrderID}
	err := s.inTx(ctx, func(ctx context.Context) error {
		customerID, err := s.repo.FindCustomerIDByEmail(ctx, req.CustomerEmail)
		if err != nil {
			return apperror.Internal("resolving customer", err)
		}
		if customerID == uuid.Nil {
			return apperror.NotFound("Customer with email %s not found", req.CustomerEmail)
		}

		orderDBID, err := s.repo.FindOrderID(ctx, req.OrderID, customerID)
		if err != nil {
			return apperror.Internal("resolving order", err)
		}
		if orderDBID == uuid.Nil {
			return apperror.NotFound("Order %s not found for customer %s", req.OrderID, req.CustomerEmail)
		}

		p := &Prescription{
			CustomerID:           customerID,
			OrderID:              orderDBID,
			DoctorName:           req.DoctorName,
			ClinicState:          req.ClinicState,
			MedicineName:         req.MedicineName,
			MedicineQuantity:     req.MedicineQuantity,
			MedicineDescription:  req.MedicineDescription,
			DoctorNotes:          req.DoctorNotes,
			Assessment:           req.HealthAssessment,
			PreApprovedMedicines: req.PreApprovedMedicines,
			SignaturePDFPath:     req.SignaturePDFPath,
		}
		id, err := s.repo.Insert(ctx, p)
		if err != nil {
			return apperror.Internal("inserting prescription", err)
		}
		result.PrescriptionID = id
		result.CustomerID = customerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("prescription_id", result.PrescriptionID.String()).
		Str("order_id", req.OrderID).
		Msg("prescription saved")
	return result, nil
}

// List returns prescriptions for a customer and/or order, newest first.
// At least one filter is required.
func (s *Service) List(ctx context.Context, customerID *uuid.UUID, orderExternalID *string, page pagination.Params) ([]*Row, error) {
	if customerID == nil && orderExternalID == nil {
		return nil, apperror.Validation("Either customerId or orderId is required")
	}
	rows, err := s.repo.List(ctx, customerID, orderExternalID, page.Limit, page.Offset)
	if err != nil {
		return nil, apperror.Internal("listing prescriptions", err)
	}
	if rows == nil {
		rows = []*Row{}
	}
	return rows, nil
}
