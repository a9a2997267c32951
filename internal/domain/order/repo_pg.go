package order

import (
	"context"

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

func (r *repoPG) UpsertCustomer(ctx context.Context, email, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO customers (id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id`,
		uuid.New(), email, name,
	).Scan(&id)
	return id, err
}

func (r *repoPG) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)`, orderID,
	).Scan(&exists)
	return exists, err
}

const orderCols = `id, customer_id, order_id, order_number, order_date, total_amount,
	currency, line_items, shipping_address, tags,
	sex, weight, height, over_18, weight_satisfaction, diet_description,
	sexual_issues_impact_relationship, worried_about_fast_aging, look_older_than_feel,
	decline_in_balance_function_mental, overtaken_by_aging, aging_process_impact,
	interest_in_slowing_aging, lack_of_muscle_mass_strength_impact,
	desired_muscle_mass_definition, desired_response_to_exercise,
	muscle_function_improvement_impact, steps_taken_for_muscle_health,
	effectiveness_of_actions_taken, mentally_sharp_as_before,
	concern_about_cognitive_decline, taken_actions_to_improve_brain_function,
	nutritional_support_helps_for_brain, concerned_about_future_brain_function,
	more_unwell_than_before, less_effective_recovery_than_before,
	less_resilient_than_before, immune_health_helps_on_overall_wellness,
	immune_system_functioning_well, immune_measures_improve_health,
	satisfied_with_gut_health, taken_actions_to_improve_gut_health,
	steps_taken_for_gut_health, gut_health_improve_overall_health,
	symptoms_might_related_to_gut_health, impact_of_better_gut_health,
	mental_health_history, ever_received_counseling_or_treatment,
	current_mental_emotional_state_rating, difficulty_sleeping,
	feel_refreshed_eager_upon_waking, created_at, updated_at`

func (r *repoPG) Insert(ctx context.Context, o *Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO orders (
			id, customer_id, order_id, order_number, order_date, total_amount,
			currency, line_items, shipping_address, tags,
			sex, weight, height, over_18, weight_satisfaction, diet_description,
			sexual_issues_impact_relationship, worried_about_fast_aging, look_older_than_feel,
			decline_in_balance_function_mental, overtaken_by_aging, aging_process_impact,
			interest_in_slowing_aging, lack_of_muscle_mass_strength_impact,
			desired_muscle_mass_definition, desired_response_to_exercise,
			muscle_function_improvement_impact, steps_taken_for_muscle_health,
			effectiveness_of_actions_taken, mentally_sharp_as_before,
			concern_about_cognitive_decline, taken_actions_to_improve_brain_function,
			nutritional_support_helps_for_brain, concerned_about_future_brain_function,
			more_unwell_than_before, less_effective_recovery_than_before,
			less_resilient_than_before, immune_health_helps_on_overall_wellness,
			immune_system_functioning_well, immune_measures_improve_health,
			satisfied_with_gut_health, taken_actions_to_improve_gut_health,
			steps_taken_for_gut_health, gut_health_improve_overall_health,
			symptoms_might_related_to_gut_health, impact_of_better_gut_health,
			mental_health_history, ever_received_counseling_or_treatment,
			current_mental_emotional_state_rating, difficulty_sleeping,
			feel_refreshed_eager_upon_waking
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,
			$31,$32,$33,$34,$35,$36,$37,$38,$39,$40,
			$41,$42,$43,$44,$45,$46,$47,$48,$49,$50,$51
		)`,
		o.ID, o.CustomerID, o.OrderID, o.OrderNumber, o.OrderDate, o.TotalAmount,
		o.Currency, o.LineItems, o.ShippingAddress, o.Tags,
		o.Sex, o.Weight, o.Height, o.Over18, o.WeightSatisfaction, o.DietDescription,
		o.SexualIssuesImpactRelationship, o.WorriedAboutFastAging, o.LookOlderThanFeel,
		o.DeclineInBalanceFunctionMental, o.OvertakenByAging, o.AgingProcessImpact,
		o.InterestInSlowingAging, o.LackOfMuscleMassStrengthImpact,
		o.DesiredMuscleMassDefinition, o.DesiredResponseToExercise,
		o.MuscleFunctionImprovementImpact, o.StepsTakenForMuscleHealth,
		o.EffectivenessOfActionsTaken, o.MentallySharpAsBefore,
		o.ConcernAboutCognitiveDecline, o.TakenActionsToImproveBrain,
		o.NutritionalSupportHelpsForBrain, o.ConcernedAboutFutureBrain,
		o.MoreUnwellThanBefore, o.LessEffectiveRecoveryThanBefore,
		o.LessResilientThanBefore, o.ImmuneHealthHelpsOnWellness,
		o.ImmuneSystemFunctioningWell, o.ImmuneMeasuresImproveHealth,
		o.SatisfiedWithGutHealth, o.TakenActionsToImproveGutHealth,
		o.StepsTakenForGutHealth, o.GutHealthImproveOverallHealth,
		o.SymptomsMightRelatedToGutHealth, o.ImpactOfBetterGutHealth,
		o.MentalHealthHistory, o.EverReceivedCounseling,
		o.CurrentMentalEmotionalState, o.DifficultySleeping,
		o.FeelRefreshedEagerUponWaking,
	)
	return err
}

func (r *repoPG) ListByCustomers(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID][]*Order, error) {
	byCustomer := make(map[uuid.UUID][]*Order, len(customerIDs))
	if len(customerIDs) == 0 {
		return byCustomer, nil
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+orderCols+` FROM orders
		 WHERE customer_id = ANY($1)
		 ORDER BY created_at DESC`, customerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], o)
	}
	return byCustomer, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.OrderID, &o.OrderNumber, &o.OrderDate, &o.TotalAmount,
		&o.Currency, &o.LineItems, &o.ShippingAddress, &o.Tags,
		&o.Sex, &o.Weight, &o.Height, &o.Over18, &o.WeightSatisfaction, &o.DietDescription,
		&o.SexualIssuesImpactRelationship, &o.WorriedAboutFastAging, &o.LookOlderThanFeel,
		&o.DeclineInBalanceFunctionMental, &o.OvertakenByAging, &o.AgingProcessImpact,
		&o.InterestInSlowingAging, &o.LackOfMuscleMassStrengthImpact,
		&o.DesiredMuscleMassDefinition, &o.DesiredResponseToExercise,
		&o.MuscleFunctionImprovementImpact, &o.StepsTakenForMuscleHealth,
		&o.EffectivenessOfActionsTaken, &o.MentallySharpAsBefore,
		&o.ConcernAboutCognitiveDecline, &o.TakenActionsToImproveBrain,
		&o.NutritionalSupportHelpsForBrain, &o.ConcernedAboutFutureBrain,
		&o.MoreUnwellThanBefore, &o.LessEffectiveRecoveryThanBefore,
		&o.LessResilientThanBefore, &o.ImmuneHealthHelpsOnWellness,
		&o.ImmuneSystemFunctioningWell, &o.ImmuneMeasuresImproveHealth,
		&o.SatisfiedWithGutHealth, &o.TakenActionsToImproveGutHealth,
		&o.StepsTakenForGutHealth, &o.GutHealthImproveOverallHealth,
		&o.SymptomsMightRelatedToGutHealth, &o.ImpactOfBetterGutHealth,
		&o.MentalHealthHistory, &o.EverReceivedCounseling,
		&o.CurrentMentalEmotionalState, &o.DifficultySleeping,
		&o.FeelRefreshedEagerUponWaking, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
