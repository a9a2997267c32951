package prescription

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxgate/rxgate/pkg/apperror"
)

// HealthAssessment is the structured yes/no questionnaire a clinician
// fills in at prescription time. Details fields only make sense for a
// "yes" answer.
type HealthAssessment struct {
	HealthChanges            string  `json:"healthChanges"`
	HealthChangesDetails     *string `json:"healthChangesDetails"`
	TakingMedications        string  `json:"takingMedications"`
	TakingMedicationsDetails *string `json:"takingMedicationsDetails"`
	HadMedicationBefore      string  `json:"hadMedicationBefore"`
	PregnancyStatus          string  `json:"pregnancyStatus"`
	AllergicReaction         string  `json:"allergicReaction"`
	Allergies                string  `json:"allergies"`
	AllergiesDetails         *string `json:"allergiesDetails"`
	MedicalConditions        string  `json:"medicalConditions"`
	MedicalConditionsDetails *string `json:"medicalConditionsDetails"`
}

// answers enumerates the yes/no fields in reporting order, with the
// detail slot for those that require elaboration on "yes".
func (h *HealthAssessment) answers() []struct {
	name    string
	value   string
	details **string
} {
	return []struct {
		name    string
		value   string
		details **string
	}{
		{"healthChanges", h.HealthChanges, &h.HealthChangesDetails},
		{"takingMedications", h.TakingMedications, &h.TakingMedicationsDetails},
		{"hadMedicationBefore", h.HadMedicationBefore, nil},
		{"pregnancyStatus", h.PregnancyStatus, nil},
		{"allergicReaction", h.AllergicReaction, nil},
		{"allergies", h.Allergies, &h.AllergiesDetails},
		{"medicalConditions", h.MedicalConditions, &h.MedicalConditionsDetails},
	}
}

// Validate checks that every answer is "yes" or "no" and that each "yes"
// on a details-bearing question carries its details.
func (h *HealthAssessment) Validate() error {
	for _, a := range h.answers() {
		if a.value != "yes" && a.value != "no" {
			return apperror.Validation(fmt.Sprintf("%s must be answered yes or no", a.name))
		}
		if a.value == "yes" && a.details != nil {
			d := *a.details
			if d == nil || *d == "" {
				return apperror.Validation(fmt.Sprintf("%s requires details when answered yes", a.name))
			}
		}
	}
	return nil
}

// Normalize nulls out detail text left behind on questions answered "no".
func (h *HealthAssessment) Normalize() {
	for _, a := range h.answers() {
		if a.value == "no" && a.details != nil {
			*a.details = nil
		}
	}
}

// Prescription is a row in the prescriptions table. Insert-only.
type Prescription struct {
	ID                   uuid.UUID        `json:"id"`
	CustomerID           uuid.UUID        `json:"customerId"`
	OrderID              uuid.UUID        `json:"orderId"`
	DoctorName           string           `json:"doctorName"`
	ClinicState          *string          `json:"clinicState"`
	MedicineName         string           `json:"medicineName"`
	MedicineQuantity     *string          `json:"medicineQuantity"`
	MedicineDescription  *string          `json:"medicineDescription"`
	DoctorNotes          string           `json:"doctorNotes"`
	Assessment           HealthAssessment `json:"healthAssessment"`
	PreApprovedMedicines []string         `json:"preApprovedMedicines"`
	SignaturePDFPath     *string          `json:"signaturePdfPath"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Row is a prescription joined to its customer and order for reads.
type Row struct {
	Prescription
	CustomerEmail   string `json:"customerEmail"`
	CustomerName    string `json:"customerName"`
	OrderExternalID string `json:"orderExternalId"`
	OrderNumber     string `json:"orderNumber"`
}

// SubmitRequest is the wire body for the direct-persistence path.
type SubmitRequest struct {
	CustomerEmail        string   `json:"customerEmail"`
	OrderID              string   `json:"orderId"`
	DoctorName           string   `json:"doctorName"`
	ClinicState          *string  `json:"clinicState"`
	MedicineName         string   `json:"medicineName"`
	MedicineQuantity     *string  `json:"medicineQuantity"`
	MedicineDescription  *string  `json:"medicineDescription"`
	DoctorNotes          string   `json:"doctorNotes"`
	SignaturePDFPath     *string  `json:"signaturePdfPath"`
	PreApprovedMedicines []string `json:"preApprovedMedicines"`
	HealthAssessment
}

// MissingRequired lists required fields absent from the request.
func (r *SubmitRequest) MissingRequired() []string {
	var missing []string
	if r.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if r.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if r.DoctorName == "" {
		missing = append(missing, "doctorName")
	}
	if r.MedicineName == "" {
		missing = append(missing, "medicineName")
	}
	if r.DoctorNotes == "" {
		missing = append(missing, "doctorNotes")
	}
	return missing
}
