package usecase

import (
	"context"
	"net/http"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type goalUsecase struct {
	repo     domain.GoalRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewGoalUsecase(repo domain.GoalRepository, validate *validator.Validate) domain.GoalUsecase {
	return &goalUsecase{
		repo:     repo,
		validate: validate,
		now:      time.Now,
	}
}

func (u *goalUsecase) List(ctx context.Context, userID string) ([]domain.Goal, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	goals, err := u.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to list goals: "+err.Error(), err)
	}
	now := u.now()
	for i := range goals {
		goals[i].Confidence = ConfidenceScore(&goals[i], now)
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	return goals, nil
}

func (u *goalUsecase) Create(ctx context.Context, userID string, req *domain.GoalCreateRequest) (*domain.Goal, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	now := u.now()
	goal := &domain.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Type:        req.Type,
		Unit:        req.Unit,
		TargetValue: req.TargetValue,
		Timeframe:   req.Timeframe,
		Deadline:    req.Deadline,
		Status:      domain.GoalActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.repo.Create(ctx, goal); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to create goal: "+err.Error(), err)
	}
	goal.Confidence = ConfidenceScore(goal, now)
	return goal, nil
}

func (u *goalUsecase) getOwned(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	goal, err := u.repo.GetByID(ctx, goalID)
	if err != nil {
		return nil, apperror.NotFound("Goal not found")
	}
	if goal.UserID != userID {
		// Same response as a missing row so goal IDs cannot be probed.
		return nil, apperror.NotFound("Goal not found")
	}
	return goal, nil
}

func (u *goalUsecase) Update(ctx context.Context, userID, goalID string, req *domain.GoalUpdateRequest) (*domain.Goal, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apperror.BadRequest("Invalid goal status: " + string(*req.Status))
	}

	goal, err := u.getOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.TargetValue != nil {
		goal.TargetValue = *req.TargetValue
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}
	if req.Status != nil {
		// Manual status edits win; confidence stays derived and may
		// disagree with an override, which is the documented behavior.
		goal.Status = *req.Status
	}
	goal.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, goal); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update goal: "+err.Error(), err)
	}
	goal.Confidence = ConfidenceScore(goal, u.now())
	return goal, nil
}

func (u *goalUsecase) UpdateProgress(ctx context.Context, userID, goalID string, req *domain.GoalProgressRequest) (*domain.Goal, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	goal, err := u.getOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.CurrentValue = req.CurrentValue
	// The only automatic status transition: reaching the target completes
	// an active goal. Manual overrides are never undone here.
	if goal.Status == domain.GoalActive && goal.CurrentValue >= goal.TargetValue {
		goal.Status = domain.GoalCompleted
	}
	goal.UpdatedAt = u.now()

	if err := u.repo.Update(ctx, goal); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update goal progress: "+err.Error(), err)
	}
	goal.Confidence = ConfidenceScore(goal, u.now())
	return goal, nil
}

func (u *goalUsecase) Delete(ctx context.Context, userID, goalID string) error {
	if err := requireCtxUser(ctx, userID); err != nil {
		return err
	}
	if _, err := u.getOwned(ctx, userID, goalID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, goalID); err != nil {
		return apperror.New(http.StatusInternalServerError, "Failed to delete goal: "+err.Error(), err)
	}
	return nil
}
