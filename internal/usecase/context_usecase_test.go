package usecase_test

import (
	"errors"
	"testing"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func contextSetup() (*MockProfileRepo, *MockOnboardingRepo, *MockGoalRepo, *MockPlanRepo, *MockContextRepo, domain.ContextUsecase) {
	profiles := new(MockProfileRepo)
	onboarding := new(MockOnboardingRepo)
	goals := new(MockGoalRepo)
	plans := new(MockPlanRepo)
	ctxRepo := new(MockContextRepo)
	uc := usecase.NewContextUsecase(profiles, onboarding, goals, plans, ctxRepo)
	return profiles, onboarding, goals, plans, ctxRepo, uc
}

// stubAllOptional makes every non-profile read fail so individual tests only
// override what they care about.
func stubAllOptional(onboarding *MockOnboardingRepo, goals *MockGoalRepo, plans *MockPlanRepo, ctxRepo *MockContextRepo) {
	unavailable := errors.New("unavailable")
	onboarding.On("GetProgress", mock.Anything, "u1").Return(nil, unavailable)
	goals.On("ListByUser", mock.Anything, "u1").Return(nil, unavailable)
	plans.On("GetByUser", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("GetMarketConfig", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("GetPreferences", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("ListRecentActions", mock.Anything, "u1", mock.Anything).Return(nil, unavailable)
	ctxRepo.On("GetAgentConfig", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("GetAgentSubscription", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("ListPulseHistory", mock.Anything, "u1", mock.Anything).Return(nil, unavailable)
	ctxRepo.On("GetPulseConfig", mock.Anything, "u1").Return(nil, unavailable)
	ctxRepo.On("GetAgentIntelligence", mock.Anything, "u1").Return(nil, unavailable)
}

func TestGetUserContext(t *testing.T) {
	t.Run("Profile failure is fatal", func(t *testing.T) {
		profiles, onboarding, goals, plans, ctxRepo, uc := contextSetup()
		stubAllOptional(onboarding, goals, plans, ctxRepo)
		profiles.On("GetByID", mock.Anything, "u1").Return(nil, errors.New("no rows"))

		_, err := uc.GetUserContext(asUser("u1"), "u1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Profile not found")
	})

	t.Run("Broken sections degrade to empty, not failure", func(t *testing.T) {
		profiles, onboarding, goals, plans, ctxRepo, uc := contextSetup()
		stubAllOptional(onboarding, goals, plans, ctxRepo)
		profiles.On("GetByID", mock.Anything, "u1").Return(&domain.Profile{ID: "u1", Email: "a@b.co"}, nil)

		got, err := uc.GetUserContext(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.NotNil(t, got.User)
		assert.Equal(t, "u1", got.User.ID)
		assert.Nil(t, got.MarketConfig)
		assert.Nil(t, got.BusinessPlan)
		// Collections stay empty slices so the JSON renders [] not null.
		assert.NotNil(t, got.Goals)
		assert.Empty(t, got.Goals)
		assert.NotNil(t, got.RecentActions)
		assert.NotNil(t, got.PulseHistory)
	})

	t.Run("Available sections are populated with derived confidence", func(t *testing.T) {
		profiles, onboarding, goals, plans, ctxRepo, uc := contextSetup()

		unavailable := errors.New("unavailable")
		profiles.On("GetByID", mock.Anything, "u1").Return(&domain.Profile{ID: "u1", Tier: domain.TierSubscriber}, nil)
		onboarding.On("GetProgress", mock.Anything, "u1").Return(&domain.OnboardingProgress{UserID: "u1", CoreCompleted: true}, nil)
		goals.On("ListByUser", mock.Anything, "u1").Return([]domain.Goal{
			{ID: "g1", UserID: "u1", TargetValue: 10, CurrentValue: 10, CreatedAt: time.Now()},
		}, nil)
		plans.On("GetByUser", mock.Anything, "u1").Return(nil, unavailable)
		ctxRepo.On("GetMarketConfig", mock.Anything, "u1").Return(&domain.MarketConfig{MarketArea: "Austin", AvgSalePrice: 450000}, nil)
		ctxRepo.On("GetPreferences", mock.Anything, "u1").Return(nil, unavailable)
		ctxRepo.On("ListRecentActions", mock.Anything, "u1", 50).Return([]domain.RecentAction{{ID: "a1"}}, nil)
		ctxRepo.On("GetAgentConfig", mock.Anything, "u1").Return(nil, unavailable)
		ctxRepo.On("GetAgentSubscription", mock.Anything, "u1").Return(nil, unavailable)
		ctxRepo.On("ListPulseHistory", mock.Anything, "u1", 30).Return(nil, unavailable)
		ctxRepo.On("GetPulseConfig", mock.Anything, "u1").Return(nil, unavailable)
		ctxRepo.On("GetAgentIntelligence", mock.Anything, "u1").Return(nil, unavailable)

		got, err := uc.GetUserContext(asUser("u1"), "u1")
		assert.NoError(t, err)
		assert.True(t, got.Onboarding.CoreCompleted)
		assert.Equal(t, "Austin", got.MarketConfig.MarketArea)
		assert.Len(t, got.RecentActions, 1)
		assert.Len(t, got.Goals, 1)
		assert.Equal(t, 100, got.Goals[0].Confidence)
	})

	t.Run("IDOR check", func(t *testing.T) {
		_, _, _, _, _, uc := contextSetup()
		_, err := uc.GetUserContext(asUser("u1"), "u2")
		assert.Error(t, err)
	})
}
