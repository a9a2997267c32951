package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is a row in the orders table plus the intake fields that arrive
// from the upstream automation. JSON tags preserve the automation's wire
// names, including the trailing "c" suffixes its CRM export produces.
type Order struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"-"`

	// External identity and commerce fields.
	OrderID         string  `json:"orderId"`
	OrderNumber     string  `json:"orderNumber"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	OrderDate       *string `json:"orderDate,omitempty"`
	TotalAmount     *string `json:"totalAmount,omitempty"`
	Currency        *string `json:"currency,omitempty"`
	LineItems       *string `json:"lineItems,omitempty"`
	ShippingAddress *string `json:"shippingAddress,omitempty"`
	Tags            *string `json:"tags,omitempty"`

	// Intake questionnaire. All answers are free text and optional.
	Sex                             *string `json:"sex,omitempty"`
	Weight                          *string `json:"weight,omitempty"`
	Height                          *string `json:"height,omitempty"`
	Over18                          *string `json:"over18,omitempty"`
	WeightSatisfaction              *string `json:"weightsatisfaction,omitempty"`
	DietDescription                 *string `json:"dietdescription,omitempty"`
	SexualIssuesImpactRelationship  *string `json:"SexualIssuesImpactRelationshipc,omitempty"`
	WorriedAboutFastAging           *string `json:"WorriedAboutFastAgingc,omitempty"`
	LookOlderThanFeel               *string `json:"LookOlderThanFeelc,omitempty"`
	DeclineInBalanceFunctionMental  *string `json:"DeclineInBalanceFunctionMentalc,omitempty"`
	OvertakenByAging                *string `json:"OvertakenByAgingc,omitempty"`
	AgingProcessImpact              *string `json:"AgingProcessImpactc,omitempty"`
	InterestInSlowingAging          *string `json:"InterestInSlowingAgingc,omitempty"`
	LackOfMuscleMassStrengthImpact  *string `json:"LackOfMuscleMassStrengthImpactc,omitempty"`
	DesiredMuscleMassDefinition     *string `json:"DesiredMuscleMassDefinitionc,omitempty"`
	DesiredResponseToExercise       *string `json:"DesiredResponseToExercisec,omitempty"`
	MuscleFunctionImprovementImpact *string `json:"MuscleFunctionImprovementImpactc,omitempty"`
	StepsTakenForMuscleHealth       *string `json:"StepsTakenForMuscleHealthc,omitempty"`
	EffectivenessOfActionsTaken     *string `json:"EffectivenessOfActionsTakenc,omitempty"`
	MentallySharpAsBefore           *string `json:"MentallySharpAsBeforec,omitempty"`
	ConcernAboutCognitiveDecline    *string `json:"ConcernAboutCognitiveDeclinec,omitempty"`
	TakenActionsToImproveBrain      *string `json:"TakenActionsToImproveBrainFunctionc,omitempty"`
	NutritionalSupportHelpsForBrain *string `json:"NutritionalSupportHelpsForBrainc,omitempty"`
	ConcernedAboutFutureBrain       *string `json:"ConcernedAboutFutureBrainFunctionc,omitempty"`
	MoreUnwellThanBefore            *string `json:"MoreUnwellThanBeforec,omitempty"`
	LessEffectiveRecoveryThanBefore *string `json:"LessEffectiveRecoveryThanBeforec,omitempty"`
	LessResilientThanBefore         *string `json:"LessResilientThanBeforec,omitempty"`
	ImmuneHealthHelpsOnWellness     *string `json:"ImmuneHealthHelpsOnOverallWellnessc,omitempty"`
	ImmuneSystemFunctioningWell     *string `json:"ImmuneSystemFunctioningWellc,omitempty"`
	ImmuneMeasuresImproveHealth     *string `json:"ImmuneMeasuresImproveHealthc,omitempty"`
	SatisfiedWithGutHealth          *string `json:"SatisfiedWithGutHealthc,omitempty"`
	TakenActionsToImproveGutHealth  *string `json:"TakenActionsToImproveGutHealthc,omitempty"`
	StepsTakenForGutHealth          *string `json:"StepsTakenForGutHealthc,omitempty"`
	GutHealthImproveOverallHealth   *string `json:"GutHealthImproveOverallHealthc,omitempty"`
	SymptomsMightRelatedToGutHealth *string `json:"SymptomsMightRelatedToGutHealthc,omitempty"`
	ImpactOfBetterGutHealth         *string `json:"ImpactOfBetterGutHealthc,omitempty"`
	MentalHealthHistory             *string `json:"MentalHealthHistoryc,omitempty"`
	EverReceivedCounseling          *string `json:"EverReceivedCounselingOrTreatmentc,omitempty"`
	CurrentMentalEmotionalState     *string `json:"CurrentMentalEmotionalStateRatingc,omitempty"`
	DifficultySleeping              *string `json:"DifficultySleepingc,omitempty"`
	FeelRefreshedEagerUponWaking    *string `json:"FeelRefreshedEagerUponWaking_c,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// MissingRequired lists the required intake fields that are absent, in
// the order the upstream automation expects them reported.
func (o *Order) MissingRequired() []string {
	var missing []string
	if o.OrderID == "" {
		missing = append(missing, "orderId")
	}
	if o.OrderNumber == "" {
		missing = append(missing, "orderNumber")
	}
	if o.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if o.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	return missing
}
