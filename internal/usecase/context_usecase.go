package usecase

import (
	"context"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"
	"go-coaching-backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	recentActionsCap = 50
	pulseHistoryCap  = 30
)

// contextUsecase produces the one-round-trip snapshot the dashboard needs.
type contextUsecase struct {
	profileRepo    domain.ProfileRepository
	onboardingRepo domain.OnboardingRepository
	goalRepo       domain.GoalRepository
	planRepo       domain.PlanRepository
	contextRepo    domain.ContextRepository
	now            func() time.Time
}

func NewContextUsecase(
	profileRepo domain.ProfileRepository,
	onboardingRepo domain.OnboardingRepository,
	goalRepo domain.GoalRepository,
	planRepo domain.PlanRepository,
	contextRepo domain.ContextRepository,
) domain.ContextUsecase {
	return &contextUsecase{
		profileRepo:    profileRepo,
		onboardingRepo: onboardingRepo,
		goalRepo:       goalRepo,
		planRepo:       planRepo,
		contextRepo:    contextRepo,
		now:            time.Now,
	}
}

// GetUserContext fans out one read per table and joins the results. The
// profile read is the only fatal one; every other failure is logged and its
// section stays null/empty so partial data still renders. Each goroutine
// writes a distinct field, so no locking is needed.
func (u *contextUsecase) GetUserContext(ctx context.Context, userID string) (*domain.UserContext, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}

	uc := &domain.UserContext{
		RecentActions: []domain.RecentAction{},
		Goals:         []domain.Goal{},
		PulseHistory:  []domain.PulseEntry{},
	}

	g, gctx := errgroup.WithContext(ctx)

	// Critical: profile. Its error is the only one returned.
	g.Go(func() error {
		profile, err := u.profileRepo.GetByID(gctx, userID)
		if err != nil {
			return apperror.NotFound("Profile not found")
		}
		uc.User = profile
		return nil
	})

	optional := func(name string, fn func() error) func() error {
		return func() error {
			if err := fn(); err != nil {
				logger.Log.Warn("context aggregation: table read failed",
					"table", name, "user_id", userID, "error", err)
			}
			return nil
		}
	}

	g.Go(optional("onboarding_progress", func() error {
		progress, err := u.onboardingRepo.GetProgress(gctx, userID)
		if err != nil {
			return err
		}
		uc.Onboarding = progress
		return nil
	}))
	g.Go(optional("market_config", func() error {
		mc, err := u.contextRepo.GetMarketConfig(gctx, userID)
		if err != nil {
			return err
		}
		uc.MarketConfig = mc
		return nil
	}))
	g.Go(optional("user_preferences", func() error {
		prefs, err := u.contextRepo.GetPreferences(gctx, userID)
		if err != nil {
			return err
		}
		uc.Preferences = prefs
		return nil
	}))
	g.Go(optional("recent_actions", func() error {
		actions, err := u.contextRepo.ListRecentActions(gctx, userID, recentActionsCap)
		if err != nil {
			return err
		}
		if actions != nil {
			uc.RecentActions = actions
		}
		return nil
	}))
	g.Go(optional("agent_config", func() error {
		cfg, err := u.contextRepo.GetAgentConfig(gctx, userID)
		if err != nil {
			return err
		}
		uc.AgentConfig = cfg
		return nil
	}))
	g.Go(optional("agent_subscriptions", func() error {
		sub, err := u.contextRepo.GetAgentSubscription(gctx, userID)
		if err != nil {
			return err
		}
		uc.AgentSubscription = sub
		return nil
	}))
	g.Go(optional("goals", func() error {
		goals, err := u.goalRepo.ListByUser(gctx, userID)
		if err != nil {
			return err
		}
		now := u.now()
		for i := range goals {
			goals[i].Confidence = ConfidenceScore(&goals[i], now)
		}
		if goals != nil {
			uc.Goals = goals
		}
		return nil
	}))
	g.Go(optional("business_plans", func() error {
		plan, err := u.planRepo.GetByUser(gctx, userID)
		if err != nil {
			return err
		}
		uc.BusinessPlan = plan
		return nil
	}))
	g.Go(optional("pulse_history", func() error {
		entries, err := u.contextRepo.ListPulseHistory(gctx, userID, pulseHistoryCap)
		if err != nil {
			return err
		}
		if entries != nil {
			uc.PulseHistory = entries
		}
		return nil
	}))
	g.Go(optional("pulse_config", func() error {
		cfg, err := u.contextRepo.GetPulseConfig(gctx, userID)
		if err != nil {
			return err
		}
		uc.PulseConfig = cfg
		return nil
	}))
	g.Go(optional("agent_intelligence", func() error {
		ai, err := u.contextRepo.GetAgentIntelligence(gctx, userID)
		if err != nil {
			return err
		}
		uc.AgentIntelligence = ai
		return nil
	}))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return uc, nil
}
