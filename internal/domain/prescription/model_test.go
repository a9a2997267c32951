package prescription

import (
	"testing"

	"github.com/rxgate/rxgate/pkg/apperror"
)

func strPtr(s string) *string { return &s }

func validAssessment() HealthAssessment {
	return HealthAssessment{
		HealthChanges:       "no",
		TakingMedications:   "no",
		HadMedicationBefore: "no",
		PregnancyStatus:     "no",
		AllergicReaction:    "no",
		Allergies:           "no",
		MedicalConditions:   "no",
	}
}

func TestAssessmentValidate_AllNo(t *testing.T) {
	h := validAssessment()
	if err := h.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssessmentValidate_MissingAnswer(t *testing.T) {
	h := validAssessment()
	h.PregnancyStatus = ""
	err := h.Validate()
	if !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssessmentValidate_NonYesNoAnswer(t *testing.T) {
	h := validAssessment()
	h.Allergies = "maybe"
	if err := h.Validate(); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAssessmentValidate_YesRequiresDetails(t *testing.T) {
	h := validAssessment()
	h.Allergies = "yes"
	if err := h.Validate(); !apperror.IsKind(err, apperror.KindValidation) {
		t.Fatalf("expected validation error for yes without details, got %v", err)
	}

	h.AllergiesDetails = strPtr("penicillin")
	if err := h.Validate(); err != nil {
		t.Fatalf("unexpected error with details present: %v", err)
	}
}

func TestAssessmentValidate_YesWithoutDetailsSlotIsFine(t *testing.T) {
	h := validAssessment()
	h.HadMedicationBefore = "yes"
	h.PregnancyStatus = "yes"
	h.AllergicReaction = "yes"
	if err := h.Validate(); err != nil {
		t.Fatalf("questions without a details slot should accept bare yes: %v", err)
	}
}

func TestAssessmentNormalize_ClearsStrayDetails(t *testing.T) {
	h := validAssessment()
	h.HealthChangesDetails = stray("felt dizzy")
	h.TakingMedicationsDetails = stray("aspirin")
	h.AllergiesDetails = stray("pollen")
	h.MedicalConditionsDetails = stray("asthma")

	h.Normalize()

	for name, d := range map[string]*string{
		"healthChangesDetails":     h.HealthChangesDetails,
		"takingMedicationsDetails": h.TakingMedicationsDetails,
		"allergiesDetails":         h.AllergiesDetails,
		"medicalConditionsDetails": h.MedicalConditionsDetails,
	} {
		if d != nil {
			t.Errorf("%s not cleared for no answer: %q", name, *d)
		}
	}
}

func stray(s string) *string { return &s }

func TestAssessmentNormalize_KeepsYesDetails(t *testing.T) {
	h := validAssessment()
	h.Allergies = "yes"
	h.AllergiesDetails = strPtr("penicillin")

	h.Normalize()

	if h.AllergiesDetails == nil || *h.AllergiesDetails != "penicillin" {
		t.Error("details for a yes answer must survive normalization")
	}
}

func TestSubmitRequestMissingRequired(t *testing.T) {
	req := &SubmitRequest{CustomerEmail: "jane@x.com"}
	missing := req.MissingRequired()
	want := []string{"orderId", "doctorName", "medicineName", "doctorNotes"}
	if len(missing) != len(want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, missing[i], want[i])
		}
	}
}
