package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go-coaching-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type planRepo struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) domain.PlanRepository {
	return &planRepo{db: db}
}

// Upsert supersedes the single plan row per user; there is no version
// history by design.
func (r *planRepo) Upsert(ctx context.Context, plan *domain.BusinessPlan) error {
	detail, err := json.Marshal(plan.Detail)
	if err != nil {
		return fmt.Errorf("failed to encode plan detail: %w", err)
	}
	targets, err := json.Marshal(plan.Targets)
	if err != nil {
		return fmt.Errorf("failed to encode plan targets: %w", err)
	}

	query := `
		INSERT INTO business_plans (user_id, schema_version, detail, targets, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET schema_version = EXCLUDED.schema_version,
		    detail = EXCLUDED.detail,
		    targets = EXCLUDED.targets,
		    updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, plan.UserID, plan.SchemaVersion, detail, targets); err != nil {
		return fmt.Errorf("failed to save business plan: %w", err)
	}
	return nil
}

func (r *planRepo) GetByUser(ctx context.Context, userID string) (*domain.BusinessPlan, error) {
	query := `
		SELECT user_id, schema_version, detail, targets, created_at, updated_at
		FROM business_plans
		WHERE user_id = $1
	`
	var (
		plan          domain.BusinessPlan
		detailBytes   []byte
		targetsBytes  []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&plan.UserID, &plan.SchemaVersion, &detailBytes, &targetsBytes,
		&plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Versioned schema: an unknown version or a broken blob is a typed
	// error, never a silently defaulted plan.
	if plan.SchemaVersion != domain.PlanSchemaVersion {
		return nil, fmt.Errorf("unsupported plan schema version %d", plan.SchemaVersion)
	}
	if err := json.Unmarshal(detailBytes, &plan.Detail); err != nil {
		return nil, fmt.Errorf("failed to decode plan detail: %w", err)
	}
	if err := json.Unmarshal(targetsBytes, &plan.Targets); err != nil {
		return nil, fmt.Errorf("failed to decode plan targets: %w", err)
	}
	return &plan, nil
}
