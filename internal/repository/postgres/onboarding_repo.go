package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go-coaching-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type onboardingRepo struct {
	db *pgxpool.Pool
}

func NewOnboardingRepository(db *pgxpool.Pool) domain.OnboardingRepository {
	return &onboardingRepo{db: db}
}

func (r *onboardingRepo) CreateInitial(ctx context.Context, userID string) error {
	// Idempotent: profile sync runs on every sign-in.
	query := `
		INSERT INTO onboarding_progress (user_id, completed_step_ids, step_data, created_at, updated_at)
		VALUES ($1, '{}', '{}'::jsonb, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to create onboarding progress: %w", err)
	}
	return nil
}

func (r *onboardingRepo) GetProgress(ctx context.Context, userID string) (*domain.OnboardingProgress, error) {
	query := `
		SELECT user_id, onboarding_completed, agent_onboarding_completed, call_center_onboarding_completed,
		       completed_step_ids, core_completed_at, agents_completed_at, call_center_completed_at,
		       created_at, updated_at
		FROM onboarding_progress
		WHERE user_id = $1
	`
	var p domain.OnboardingProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.CoreCompleted, &p.AgentsCompleted, &p.CallCenterCompleted,
		&p.CompletedStepIDs, &p.CoreCompletedAt, &p.AgentsCompletedAt, &p.CallCenterCompletedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get onboarding progress: %w", err)
	}
	if p.CompletedStepIDs == nil {
		p.CompletedStepIDs = []string{}
	}
	return &p, nil
}

func (r *onboardingRepo) SaveStep(ctx context.Context, userID string, completedStepIDs []string, stepID string, stepData json.RawMessage) error {
	if stepData == nil {
		stepData = json.RawMessage("null")
	}
	// The step payload lands under its step ID inside the step_data blob in
	// the same statement that stores the completed set, so a failed write
	// leaves both untouched and the sequencer does not advance.
	query := `
		UPDATE onboarding_progress
		SET completed_step_ids = $2,
		    step_data = jsonb_set(COALESCE(step_data, '{}'::jsonb), ARRAY[$3], $4::jsonb, true),
		    updated_at = NOW()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, completedStepIDs, stepID, string(stepData))
	if err != nil {
		return fmt.Errorf("failed to save onboarding step: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("onboarding progress row missing for user %s", userID)
	}
	return nil
}

func (r *onboardingRepo) SetModuleComplete(ctx context.Context, userID string, module domain.ModuleKey) error {
	var column, stamp string
	switch module {
	case domain.ModuleCore:
		column, stamp = "onboarding_completed", "core_completed_at"
	case domain.ModuleAgents:
		column, stamp = "agent_onboarding_completed", "agents_completed_at"
	case domain.ModuleCallCenter:
		column, stamp = "call_center_onboarding_completed", "call_center_completed_at"
	default:
		return fmt.Errorf("unknown onboarding module: %s", module)
	}

	// Flags are monotonic: only ever set to true, timestamp kept from the
	// first completion.
	query := fmt.Sprintf(`
		UPDATE onboarding_progress
		SET %s = TRUE, %s = COALESCE(%s, NOW()), updated_at = NOW()
		WHERE user_id = $1
	`, column, stamp, stamp)
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark module complete: %w", err)
	}
	return nil
}

func (r *onboardingRepo) ClearSteps(ctx context.Context, userID string) error {
	query := `
		UPDATE onboarding_progress
		SET completed_step_ids = '{}', step_data = '{}'::jsonb, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to reset onboarding steps: %w", err)
	}
	return nil
}
