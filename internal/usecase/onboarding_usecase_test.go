package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func freshProgress(userID string) *domain.OnboardingProgress {
	return &domain.OnboardingProgress{UserID: userID, CompletedStepIDs: []string{}}
}

func subscriberProfile(id string) *domain.Profile {
	return &domain.Profile{ID: id, Tier: domain.TierSubscriber}
}

func TestOnboardingGetState(t *testing.T) {
	validate := validator.New()

	t.Run("Free tier sees core only", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(&domain.Profile{ID: "u1", Tier: domain.TierFree}, nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)

		state, err := uc.GetState(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, []domain.ModuleKey{domain.ModuleCore}, state.ActiveModules)
		assert.Equal(t, domain.ModuleCore, state.CurrentModule)
		assert.Equal(t, "welcome", state.CurrentStepID)
		assert.False(t, state.Completed)
	})

	t.Run("Subscriber sees agents but never callcenter", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)

		state, err := uc.GetState(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, []domain.ModuleKey{domain.ModuleCore, domain.ModuleAgents}, state.ActiveModules)
		assert.NotContains(t, state.ActiveModules, domain.ModuleCallCenter)
	})

	t.Run("Admin sees every module", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(&domain.Profile{ID: "u1", Tier: domain.TierAdmin}, nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)

		state, err := uc.GetState(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Len(t, state.ActiveModules, 3)
	})

	t.Run("Resumes from the first incomplete step", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CompletedStepIDs = []string{"welcome", "profile-basics"}
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		state, err := uc.GetState(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, "market-setup", state.CurrentStepID)
		assert.Equal(t, 2, state.CurrentStepIndex)
	})

	t.Run("Completed-step set without the flag still skips the module", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		// Crash after the last core SaveStep, before SetModuleComplete.
		progress := freshProgress("u1")
		progress.CompletedStepIDs = domain.StepsFor(domain.ModuleCore)
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		state, err := uc.GetState(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, domain.ModuleAgents, state.CurrentModule)
		assert.Equal(t, "agents-intro", state.CurrentStepID)
	})

	t.Run("IDOR check", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		_, err := uc.GetState(asUser("u1"), "u2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only access your own data")

		_, err = uc.GetState(context.Background(), "u1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "User not authenticated")
	})
}

func TestOnboardingAdvance(t *testing.T) {
	validate := validator.New()

	t.Run("Persists before moving forward", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)
		repo.On("SaveStep", mock.Anything, "u1", []string{"welcome"}, "welcome", mock.Anything).Return(nil)

		state, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "welcome"})
		assert.NoError(t, err)
		assert.Equal(t, "profile-basics", state.CurrentStepID)
		repo.AssertCalled(t, "SaveStep", mock.Anything, "u1", []string{"welcome"}, "welcome", mock.Anything)
	})

	t.Run("Persistence failure blocks the advance", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)
		repo.On("SaveStep", mock.Anything, "u1", mock.Anything, "welcome", mock.Anything).Return(errors.New("db down"))

		_, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "welcome"})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "SetModuleComplete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stale step is rejected", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)

		_, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "market-setup"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not the current step")
		repo.AssertNotCalled(t, "SaveStep", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Last step of a module sets the flag and rolls to the next module", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		coreSteps := domain.StepsFor(domain.ModuleCore)
		progress := freshProgress("u1")
		progress.CompletedStepIDs = coreSteps[:len(coreSteps)-1]
		last := coreSteps[len(coreSteps)-1]

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)
		repo.On("SaveStep", mock.Anything, "u1", mock.Anything, last, mock.Anything).Return(nil)
		repo.On("SetModuleComplete", mock.Anything, "u1", domain.ModuleCore).Return(nil)

		state, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: last})
		assert.NoError(t, err)
		assert.Equal(t, domain.ModuleAgents, state.CurrentModule)
		assert.Equal(t, "agents-intro", state.CurrentStepID)
		repo.AssertCalled(t, "SetModuleComplete", mock.Anything, "u1", domain.ModuleCore)
	})

	t.Run("A retreated step can be redone and advanced through again", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CompletedStepIDs = []string{"welcome", "profile-basics"}
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)
		repo.On("SaveStep", mock.Anything, "u1", []string{"welcome", "profile-basics"}, "profile-basics", mock.Anything).Return(nil)

		back, err := uc.Retreat(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, "profile-basics", back.CurrentStepID)

		// Re-submitting the retreated step re-records its payload; the
		// completed set is unchanged and the position stays at the furthest
		// saved step.
		state, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{
			StepID:   "profile-basics",
			StepData: []byte(`{"firstName":"Jo"}`),
		})
		assert.NoError(t, err)
		assert.Equal(t, "market-setup", state.CurrentStepID)
		repo.AssertCalled(t, "SaveStep", mock.Anything, "u1", []string{"welcome", "profile-basics"}, "profile-basics", mock.Anything)
		repo.AssertNotCalled(t, "SetModuleComplete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("A lost module flag is re-persisted on the next advance", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		// Crash after the last core SaveStep, before SetModuleComplete.
		progress := freshProgress("u1")
		progress.CompletedStepIDs = domain.StepsFor(domain.ModuleCore)
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)
		repo.On("SetModuleComplete", mock.Anything, "u1", domain.ModuleCore).Return(nil)
		repo.On("SaveStep", mock.Anything, "u1", mock.Anything, "agents-intro", mock.Anything).Return(nil)

		state, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "agents-intro"})
		assert.NoError(t, err)
		assert.Equal(t, "agent-selection", state.CurrentStepID)
		repo.AssertCalled(t, "SetModuleComplete", mock.Anything, "u1", domain.ModuleCore)
	})

	t.Run("Flag healing failure does not block the advance", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CompletedStepIDs = domain.StepsFor(domain.ModuleCore)
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)
		repo.On("SetModuleComplete", mock.Anything, "u1", domain.ModuleCore).Return(errors.New("db down"))
		repo.On("SaveStep", mock.Anything, "u1", mock.Anything, "agents-intro", mock.Anything).Return(nil)

		state, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "agents-intro"})
		assert.NoError(t, err)
		assert.Equal(t, "agent-selection", state.CurrentStepID)
	})

	t.Run("Already complete is a conflict", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CoreCompleted = true
		progress.AgentsCompleted = true
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		_, err := uc.Advance(asUser("u1"), "u1", &domain.AdvanceRequest{StepID: "welcome"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already complete")
	})
}

func TestOnboardingRetreatAndReset(t *testing.T) {
	validate := validator.New()

	t.Run("Retreat steps back without persisting", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CompletedStepIDs = []string{"welcome", "profile-basics"}
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		state, err := uc.Retreat(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, "profile-basics", state.CurrentStepID)
		repo.AssertNotCalled(t, "SaveStep", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Retreat is a no-op at the very first step", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(freshProgress("u1"), nil)

		state, err := uc.Retreat(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, "welcome", state.CurrentStepID)
	})

	t.Run("Retreat across a module boundary lands on the previous module's last step", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CoreCompleted = true
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		state, err := uc.Retreat(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.Equal(t, domain.ModuleCore, state.CurrentModule)
		assert.Equal(t, "preferences", state.CurrentStepID)
	})

	t.Run("Reset clears steps but keeps module flags", func(t *testing.T) {
		repo := new(MockOnboardingRepo)
		profiles := new(MockProfileRepo)
		uc := usecase.NewOnboardingUsecase(repo, profiles, validate)

		progress := freshProgress("u1")
		progress.CoreCompleted = true
		profiles.On("GetByID", mock.Anything, "u1").Return(subscriberProfile("u1"), nil)
		repo.On("ClearSteps", mock.Anything, "u1").Return(nil)
		repo.On("GetProgress", mock.Anything, "u1").Return(progress, nil)

		state, err := uc.Reset(asUser("u1"), "u1")
		assert.NoError(t, err)
		// Core stays completed; the sequencer resumes at agents.
		assert.Equal(t, domain.ModuleAgents, state.CurrentModule)
		repo.AssertCalled(t, "ClearSteps", mock.Anything, "u1")
	})
}
