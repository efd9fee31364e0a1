package usecase

import (
	"context"
	"net/http"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"
	"go-coaching-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type onboardingUsecase struct {
	repo        domain.OnboardingRepository
	profileRepo domain.ProfileRepository
	validate    *validator.Validate
}

func NewOnboardingUsecase(repo domain.OnboardingRepository, profileRepo domain.ProfileRepository, validate *validator.Validate) domain.OnboardingUsecase {
	return &onboardingUsecase{
		repo:        repo,
		profileRepo: profileRepo,
		validate:    validate,
	}
}

// ============================================================================
// Position
// ============================================================================

// position derives the resumable sequencer state from persisted progress.
// The current module is the first active module whose flag is unset; the
// current step is its first step not in the completed set. A module whose
// steps are all completed but whose flag never landed is skipped the same as
// a flagged one, which heals a crash between the step save and the flag save.
func position(active []domain.ModuleKey, progress *domain.OnboardingProgress) *domain.SequencerState {
	state := &domain.SequencerState{
		ActiveModules:    active,
		CompletedStepIDs: progress.CompletedStepIDs,
	}

	for _, module := range active {
		if progress.ModuleCompleted(module) {
			continue
		}
		steps := domain.StepsFor(module)
		for i, stepID := range steps {
			if !progress.HasStep(stepID) {
				state.CurrentModule = module
				state.CurrentStepID = stepID
				state.CurrentStepIndex = i
				return state
			}
		}
	}

	state.Completed = true
	return state
}

func (u *onboardingUsecase) load(ctx context.Context, userID string) ([]domain.ModuleKey, *domain.OnboardingProgress, error) {
	profile, err := u.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, apperror.NotFound("Profile not found")
	}
	progress, err := u.repo.GetProgress(ctx, userID)
	if err != nil {
		return nil, nil, apperror.New(http.StatusInternalServerError, "Failed to load onboarding progress: "+err.Error(), err)
	}
	return domain.ActiveModules(profile.Tier, profile.CallCenterAddon), progress, nil
}

func requireCtxUser(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own data")
	}
	return nil
}

// healModuleFlags retries the completion flag for any active module whose
// steps are all in the completed set but whose flag write was lost. position()
// already skips such modules on read; persisting the flag keeps a later Reset
// (which clears the step set) from regressing into a finished module. Failures
// are logged and retried on the next advance.
func (u *onboardingUsecase) healModuleFlags(ctx context.Context, userID string, active []domain.ModuleKey, progress *domain.OnboardingProgress) {
	for _, module := range active {
		if progress.ModuleCompleted(module) {
			continue
		}
		allSaved := true
		for _, stepID := range domain.StepsFor(module) {
			if !progress.HasStep(stepID) {
				allSaved = false
				break
			}
		}
		if !allSaved {
			continue
		}
		if err := u.repo.SetModuleComplete(ctx, userID, module); err != nil {
			logger.Log.Warn("failed to persist onboarding module flag",
				"module", module, "user_id", userID, "error", err)
			continue
		}
		markModuleCompleted(progress, module)
	}
}

func markModuleCompleted(progress *domain.OnboardingProgress, module domain.ModuleKey) {
	switch module {
	case domain.ModuleCore:
		progress.CoreCompleted = true
	case domain.ModuleAgents:
		progress.AgentsCompleted = true
	case domain.ModuleCallCenter:
		progress.CallCenterCompleted = true
	}
}

// ============================================================================
// Operations
// ============================================================================

func (u *onboardingUsecase) GetState(ctx context.Context, userID string) (*domain.SequencerState, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	active, progress, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return position(active, progress), nil
}

// Advance records the current step's payload, persists the completed set, and
// only then rolls the position forward. Re-submitting a step that is already
// in the completed set (the redo after a retreat) re-records its payload and
// leaves the position at the furthest saved step. A persistence failure
// surfaces as an error with the position unchanged; the client retries by
// re-invoking.
func (u *onboardingUsecase) Advance(ctx context.Context, userID string, req *domain.AdvanceRequest) (*domain.SequencerState, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	active, progress, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.healModuleFlags(ctx, userID, active, progress)

	state := position(active, progress)
	if state.Completed {
		return nil, apperror.Conflict("Onboarding is already complete")
	}
	if req.StepID != state.CurrentStepID {
		// A step already in the completed set is a redo after a retreat:
		// re-record its payload and keep the derived position where it was.
		if progress.HasStep(req.StepID) {
			if err := u.repo.SaveStep(ctx, userID, progress.CompletedStepIDs, req.StepID, req.StepData); err != nil {
				return nil, apperror.New(http.StatusInternalServerError, "Failed to save onboarding step: "+err.Error(), err)
			}
			return state, nil
		}
		// Stale or out-of-order client; the only recovery is resuming from
		// the returned state or a hard reset.
		return nil, apperror.Conflict("Step " + req.StepID + " is not the current step")
	}

	completed := progress.CompletedStepIDs
	if !progress.HasStep(req.StepID) {
		completed = append(completed, req.StepID)
	}
	if err := u.repo.SaveStep(ctx, userID, completed, req.StepID, req.StepData); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save onboarding step: "+err.Error(), err)
	}
	progress.CompletedStepIDs = completed

	// Last step of the module: persist the monotonic completion flag before
	// reporting the next module's position.
	steps := domain.StepsFor(state.CurrentModule)
	if state.CurrentStepIndex == len(steps)-1 {
		if err := u.repo.SetModuleComplete(ctx, userID, state.CurrentModule); err != nil {
			return nil, apperror.New(http.StatusInternalServerError, "Failed to complete onboarding module: "+err.Error(), err)
		}
		markModuleCompleted(progress, state.CurrentModule)
	}

	return position(active, progress), nil
}

// Retreat moves the view one step back without touching persisted progress,
// so a reload resumes at the furthest saved step. No-op at the very first
// step of the first active module.
func (u *onboardingUsecase) Retreat(ctx context.Context, userID string) (*domain.SequencerState, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	active, progress, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	state := position(active, progress)
	if state.Completed {
		return nil, apperror.Conflict("Onboarding is already complete")
	}

	if state.CurrentStepIndex > 0 {
		steps := domain.StepsFor(state.CurrentModule)
		state.CurrentStepIndex--
		state.CurrentStepID = steps[state.CurrentStepIndex]
		return state, nil
	}

	// First step of the module: land on the previous applicable module's
	// last step, or stay put at the very beginning.
	prevIdx := -1
	for i, m := range active {
		if m == state.CurrentModule {
			prevIdx = i - 1
			break
		}
	}
	if prevIdx < 0 {
		return state, nil
	}
	prev := active[prevIdx]
	steps := domain.StepsFor(prev)
	state.CurrentModule = prev
	state.CurrentStepIndex = len(steps) - 1
	state.CurrentStepID = steps[state.CurrentStepIndex]
	return state, nil
}

// Reset is the defensive fallback for an unrecoverable client state: it
// clears the completed step set (module flags stay, they are monotonic) so
// the sequencer recomputes from the first incomplete module's first step.
func (u *onboardingUsecase) Reset(ctx context.Context, userID string) (*domain.SequencerState, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.repo.ClearSteps(ctx, userID); err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to reset onboarding: "+err.Error(), err)
	}
	active, progress, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return position(active, progress), nil
}
