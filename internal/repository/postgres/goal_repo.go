package postgres

import (
	"context"
	"fmt"

	"go-coaching-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type goalRepo struct {
	db *pgxpool.Pool
}

func NewGoalRepository(db *pgxpool.Pool) domain.GoalRepository {
	return &goalRepo{db: db}
}

const goalColumns = `id, user_id, title, type, unit, target_value, current_value, timeframe, deadline, status, from_plan, created_at, updated_at`

func scanGoal(row pgx.Row) (*domain.Goal, error) {
	var g domain.Goal
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Type, &g.Unit,
		&g.TargetValue, &g.CurrentValue, &g.Timeframe, &g.Deadline,
		&g.Status, &g.FromPlan, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *goalRepo) Create(ctx context.Context, goal *domain.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Type, goal.Unit,
		goal.TargetValue, goal.CurrentValue, goal.Timeframe, goal.Deadline,
		goal.Status, goal.FromPlan, goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *goalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	return scanGoal(r.db.QueryRow(ctx, query, id))
}

func (r *goalRepo) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal rows: %w", err)
	}
	return goals, nil
}

func (r *goalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	query := `UPDATE goals
              SET title = $2, target_value = $3, current_value = $4, deadline = $5, status = $6, updated_at = $7
              WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		goal.ID, goal.Title, goal.TargetValue, goal.CurrentValue,
		goal.Deadline, goal.Status, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

func (r *goalRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}

func (r *goalRepo) DeletePlanGenerated(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM goals WHERE user_id = $1 AND from_plan = TRUE`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete plan goals: %w", err)
	}
	return nil
}
