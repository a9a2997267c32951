package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rxgate/rxgate/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *repoPG) FindCustomerIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM customers WHERE email = $1`, email).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	return id, err
}

func (r *repoPG) FindOrderID(ctx context.Context, externalID string, customerID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id FROM orders WHERE order_id = $1 AND customer_id = $2`,
		externalID, customerID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	return id, err
}

func (r *repoPG) Insert(ctx context.Context, p *Prescription) (uuid.UUID, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (
			id, customer_id, order_id, doctor_name, clinic_state,
			medicine_name, medicine_quantity, medicine_description,
			doctor_notes, health_changes, health_changes_details,
			taking_medications, taking_medications_details,
			had_medication_before, pregnancy_status, allergic_reaction,
			allergies, allergies_details, medical_conditions,
			medical_conditions_details, pre_approved_medicines, signature_pdf_path
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22
		) RETURNING id`,
		p.ID, p.CustomerID, p.OrderID, p.DoctorName, p.ClinicState,
		p.MedicineName, p.MedicineQuantity, p.MedicineDescription,
		p.DoctorNotes, p.Assessment.HealthChanges, p.Assessment.HealthChangesDetails,
		p.Assessment.TakingMedications, p.Assessment.TakingMedicationsDetails,
		p.Assessment.HadMedicationBefore, p.Assessment.PregnancyStatus,
		p.Assessment.AllergicReaction, p.Assessment.Allergies,
		p.Assessment.AllergiesDetails, p.Assessment.MedicalConditions,
		p.Assessment.MedicalConditionsDetails, p.PreApprovedMedicines, p.SignaturePDFPath,
	).Scan(&id)
	return id, err
}

const rowCols = `p.id, p.customer_id, p.order_id, p.doctor_name, p.clinic_state,
	p.medicine_name, p.medicine_quantity, p.medicine_description,
	p.doctor_notes, p.health_changes, p.health_changes_details,
	p.taking_medications, p.taking_medications_details,
	p.had_medication_before, p.pregnancy_status, p.allergic_reaction,
	p.allergies, p.allergies_details, p.medical_conditions,
	p.medical_conditions_details, p.pre_approved_medicines, p.signature_pdf_path,
	p.created_at,
	c.email, c.name, o.order_id, o.order_number`

func (r *repoPG) List(ctx context.Context, customerID *uuid.UUID, orderExternalID *string, limit, offset int) ([]*Row, error) {
	query := `SELECT ` + rowCols + `
		FROM prescriptions p
		JOIN customers c ON p.customer_id = c.id
		JOIN orders o ON p.order_id = o.id
		WHERE 1=1`

	var args []interface{}
	if customerID != nil {
		args = append(args, *customerID)
		query += fmt.Sprintf(` AND p.customer_id = $%d`, len(args))
	}
	if orderExternalID != nil {
		args = append(args, *orderExternalID)
		query += fmt.Sprintf(` AND o.order_id = $%d`, len(args))
	}
	query += ` ORDER BY p.created_at DESC`
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))
	args = append(args, offset)
	query += fmt.Sprintf(` OFFSET $%d`, len(args))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Row
	for rows.Next() {
		var row Row
		err := rows.Scan(
			&row.ID, &row.CustomerID, &row.OrderID, &row.DoctorName, &row.ClinicState,
			&row.MedicineName, &row.MedicineQuantity, &row.MedicineDescription,
			&row.DoctorNotes, &row.Assessment.HealthChanges, &row.Assessment.HealthChangesDetails,
			&row.Assessment.TakingMedications, &row.Assessment.TakingMedicationsDetails,
			&row.Assessment.HadMedicationBefore, &row.Assessment.PregnancyStatus,
			&row.Assessment.AllergicReaction, &row.Assessment.Allergies,
			&row.Assessment.AllergiesDetails, &row.Assessment.MedicalConditions,
			&row.Assessment.MedicalConditionsDetails, &row.PreApprovedMedicines,
			&row.SignaturePDFPath, &row.CreatedAt,
			&row.CustomerEmail, &row.CustomerName, &row.OrderExternalID, &row.OrderNumber,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
