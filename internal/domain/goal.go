package domain

import (
	"context"
	"time"
)

// GoalStatus is user-owned. The only automatic transition is active ->
// completed when a progress update pushes current past target; a manual edit
// always wins otherwise.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAtRisk    GoalStatus = "at-risk"
)

func ValidGoalStatuses() []GoalStatus {
	return []GoalStatus{GoalActive, GoalCompleted, GoalAtRisk}
}

func (s GoalStatus) IsValid() bool {
	for _, valid := range ValidGoalStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

type Goal struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Unit         string     `json:"unit"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	Timeframe    string     `json:"timeframe"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       GoalStatus `json:"status"`
	// Confidence is derived on read, never stored.
	Confidence int       `json:"confidence"`
	FromPlan   bool      `json:"fromPlan"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type GoalCreateRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Type        string     `json:"type" validate:"required,max=50"`
	Unit        string     `json:"unit" validate:"required,max=30"`
	TargetValue float64    `json:"targetValue" validate:"required,gt=0"`
	Timeframe   string     `json:"timeframe" validate:"required,valid_timeframe"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type GoalUpdateRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,max=200"`
	TargetValue *float64    `json:"targetValue,omitempty" validate:"omitempty,gt=0"`
	Deadline    *time.Time  `json:"deadline,omitempty"`
	Status      *GoalStatus `json:"status,omitempty"`
}

// GoalProgressRequest sets the absolute current value of a goal.
type GoalProgressRequest struct {
	CurrentValue float64 `json:"currentValue" validate:"gte=0"`
}

type GoalRepository interface {
	Create(ctx context.Context, goal *Goal) error
	GetByID(ctx context.Context, id string) (*Goal, error)
	ListByUser(ctx context.Context, userID string) ([]Goal, error)
	Update(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, id string) error
	// DeletePlanGenerated removes goals the planner created, ahead of a
	// plan re-save that regenerates them.
	DeletePlanGenerated(ctx context.Context, userID string) error
}

type GoalUsecase interface {
	List(ctx context.Context, userID string) ([]Goal, error)
	Create(ctx context.Context, userID string, req *GoalCreateRequest) (*Goal, error)
	Update(ctx context.Context, userID, goalID string, req *GoalUpdateRequest) (*Goal, error)
	UpdateProgress(ctx context.Context, userID, goalID string, req *GoalProgressRequest) (*Goal, error)
	Delete(ctx context.Context, userID, goalID string) error
}
