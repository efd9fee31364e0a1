package usecase_test

import (
	"errors"
	"net/http"
	"testing"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/internal/usecase"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func chatSetup() (*MockChatGateway, *MockConversationRepo, *MockProfileRepo, *MockGoalRepo, *MockContextRepo, domain.ChatUsecase) {
	gateway := new(MockChatGateway)
	convs := new(MockConversationRepo)
	profiles := new(MockProfileRepo)
	goals := new(MockGoalRepo)
	ctxRepo := new(MockContextRepo)
	uc := usecase.NewChatUsecase(gateway, convs, profiles, goals, ctxRepo, validator.New())
	return gateway, convs, profiles, goals, ctxRepo, uc
}

// primeContext stubs the best-effort prompt lookups to fail; the prompt then
// carries only the persona intro and the profile line.
func primeContext(profiles *MockProfileRepo, goals *MockGoalRepo, ctxRepo *MockContextRepo) {
	profiles.On("GetByID", mock.Anything, "u1").Return(&domain.Profile{
		ID: "u1", FirstName: "Jo", LastName: "March", MarketArea: "Austin",
	}, nil)
	goals.On("ListByUser", mock.Anything, "u1").Return(nil, errors.New("unavailable"))
	ctxRepo.On("GetMarketConfig", mock.Anything, "u1").Return(nil, errors.New("unavailable"))
	ctxRepo.On("GetAgentIntelligence", mock.Anything, "u1").Return(nil, errors.New("unavailable"))
}

func TestChat(t *testing.T) {
	t.Run("Relays and persists a fresh conversation", func(t *testing.T) {
		gateway, convs, profiles, goals, ctxRepo, uc := chatSetup()
		primeContext(profiles, goals, ctxRepo)

		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, "How do I win listings?").
			Return("Prospect daily.", nil)
		convs.On("GetLatest", mock.Anything, "u1", domain.PersonaAdvisor).Return(nil, errors.New("no rows"))
		convs.On("Create", mock.Anything, mock.AnythingOfType("*domain.AgentConversation")).Return(nil).Run(func(args mock.Arguments) {
			conv := args.Get(1).(*domain.AgentConversation)
			assert.Equal(t, "u1", conv.UserID)
			assert.Len(t, conv.Turns, 2)
			assert.Equal(t, domain.RoleUser, conv.Turns[0].Role)
			assert.Equal(t, domain.RoleAssistant, conv.Turns[1].Role)
		})

		resp, err := uc.Chat(asUser("u1"), "u1", domain.PersonaAdvisor, &domain.ChatRequest{Message: "How do I win listings?"})
		assert.NoError(t, err)
		assert.Equal(t, "Prospect daily.", resp.Response)
		assert.NotEmpty(t, resp.ConversationID)
	})

	t.Run("Unknown persona is not found", func(t *testing.T) {
		_, _, _, _, _, uc := chatSetup()

		_, err := uc.Chat(asUser("u1"), "u1", "astrologer", &domain.ChatRequest{Message: "hi"})
		assert.Error(t, err)
		appErr := &apperror.AppError{}
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	})

	t.Run("Gateway throttling propagates as 429", func(t *testing.T) {
		gateway, _, profiles, goals, ctxRepo, uc := chatSetup()
		primeContext(profiles, goals, ctxRepo)

		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, "hi").
			Return("", apperror.RateLimited("AI service is rate limited, try again shortly"))

		_, err := uc.Chat(asUser("u1"), "u1", domain.PersonaRoleplay, &domain.ChatRequest{Message: "hi"})
		assert.Error(t, err)
		appErr := &apperror.AppError{}
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusTooManyRequests, appErr.Code)
	})

	t.Run("Persistence failure still returns the reply", func(t *testing.T) {
		gateway, convs, profiles, goals, ctxRepo, uc := chatSetup()
		primeContext(profiles, goals, ctxRepo)

		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, "hi").Return("Hello!", nil)
		convs.On("GetLatest", mock.Anything, "u1", domain.PersonaContent).Return(nil, errors.New("no rows"))
		convs.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		resp, err := uc.Chat(asUser("u1"), "u1", domain.PersonaContent, &domain.ChatRequest{Message: "hi"})
		assert.NoError(t, err)
		assert.Equal(t, "Hello!", resp.Response)
	})

	t.Run("System prompt carries the persona and the agent's market", func(t *testing.T) {
		gateway, convs, profiles, goals, ctxRepo, uc := chatSetup()
		primeContext(profiles, goals, ctxRepo)

		var prompt string
		gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything, "hi").
			Return("ok", nil).Run(func(args mock.Arguments) {
			prompt = args.String(1)
		})
		convs.On("GetLatest", mock.Anything, "u1", domain.PersonaAdvisor).Return(nil, errors.New("no rows"))
		convs.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := uc.Chat(asUser("u1"), "u1", domain.PersonaAdvisor, &domain.ChatRequest{Message: "hi"})
		assert.NoError(t, err)
		assert.Contains(t, prompt, "production coach")
		assert.Contains(t, prompt, "Jo March")
		assert.Contains(t, prompt, "Austin")
	})
}

func TestChatHistory(t *testing.T) {
	t.Run("Empty history is an empty slice", func(t *testing.T) {
		_, convs, _, _, _, uc := chatSetup()
		convs.On("ListByUser", mock.Anything, "u1", domain.PersonaAdvisor, 20).Return(nil, nil)

		got, err := uc.History(asUser("u1"), "u1", domain.PersonaAdvisor)
		assert.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("IDOR check", func(t *testing.T) {
		_, _, _, _, _, uc := chatSetup()
		_, err := uc.History(asUser("u1"), "u2", domain.PersonaAdvisor)
		assert.Error(t, err)
	})
}
