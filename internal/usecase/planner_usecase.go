package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type plannerUsecase struct {
	planRepo domain.PlanRepository
	goalRepo domain.GoalRepository
	validate *validator.Validate
}

func NewPlannerUsecase(planRepo domain.PlanRepository, goalRepo domain.GoalRepository, validate *validator.Validate) domain.PlannerUsecase {
	return &plannerUsecase{
		planRepo: planRepo,
		goalRepo: goalRepo,
		validate: validate,
	}
}

func (u *plannerUsecase) SavePlan(ctx context.Context, userID string, req *domain.PlanSaveRequest) (*domain.BusinessPlan, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	plan := &domain.BusinessPlan{
		UserID:        userID,
		SchemaVersion: domain.PlanSchemaVersion,
		Detail:        req.Detail,
		Targets:       BuildPlanTargets(req.Detail),
	}
	if err := u.planRepo.Upsert(ctx, plan); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save business plan: "+err.Error(), err)
	}

	if req.GenerateGoals {
		if err := u.regenerateGoals(ctx, userID, plan); err != nil {
			return nil, err
		}
	}

	saved, err := u.planRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to reload business plan: "+err.Error(), err)
	}
	return saved, nil
}

func (u *plannerUsecase) GetPlan(ctx context.Context, userID string) (*domain.BusinessPlan, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	plan, err := u.planRepo.GetByUser(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("No business plan saved yet")
		}
		return nil, apperror.New(http.StatusInternalServerError, "Failed to load business plan: "+err.Error(), err)
	}
	return plan, nil
}

// regenerateGoals replaces the planner-derived goals with a fresh set for
// the saved targets. Manually created goals are untouched.
func (u *plannerUsecase) regenerateGoals(ctx context.Context, userID string, plan *domain.BusinessPlan) error {
	if err := u.goalRepo.DeletePlanGenerated(ctx, userID); err != nil {
		return apperror.New(http.StatusInternalServerError, "Failed to clear plan goals: "+err.Error(), err)
	}

	deadline := time.Date(time.Now().Year(), 12, 31, 23, 59, 59, 0, time.UTC)
	now := time.Now()
	derived := []domain.Goal{
		{
			Title:       fmt.Sprintf("Close %d transactions", plan.Targets.TotalDealsNeeded),
			Type:        "transactions",
			Unit:        "deals",
			TargetValue: float64(plan.Targets.TotalDealsNeeded),
		},
		{
			Title:       fmt.Sprintf("Earn $%.0f in GCI", plan.Targets.GCIRequired),
			Type:        "income",
			Unit:        "dollars",
			TargetValue: plan.Targets.GCIRequired,
		},
		{
			Title: fmt.Sprintf("Hold %d conversations",
				plan.Targets.BuyerFunnel.Conversations.Annual+plan.Targets.ListingFunnel.Conversations.Annual),
			Type:        "activity",
			Unit:        "conversations",
			TargetValue: float64(plan.Targets.BuyerFunnel.Conversations.Annual + plan.Targets.ListingFunnel.Conversations.Annual),
		},
	}

	for i := range derived {
		goal := derived[i]
		if goal.TargetValue <= 0 {
			continue
		}
		goal.ID = uuid.NewString()
		goal.UserID = userID
		goal.Timeframe = "annual"
		goal.Deadline = &deadline
		goal.Status = domain.GoalActive
		goal.FromPlan = true
		goal.CreatedAt = now
		goal.UpdatedAt = now
		if err := u.goalRepo.Create(ctx, &goal); err != nil {
			return apperror.New(http.StatusInternalServerError, "Failed to create plan goal: "+err.Error(), err)
		}
	}
	return nil
}
