package usecase_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/llm"
	"go-coaching-backend/pkg/logger"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// Mock Repositories

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockProfileRepo) RelinkByEmail(ctx context.Context, email string, profile *domain.Profile) error {
	return m.Called(ctx, email, profile).Error(0)
}

type MockOnboardingRepo struct {
	mock.Mock
}

func (m *MockOnboardingRepo) CreateInitial(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockOnboardingRepo) GetProgress(ctx context.Context, userID string) (*domain.OnboardingProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingProgress), args.Error(1)
}
func (m *MockOnboardingRepo) SaveStep(ctx context.Context, userID string, completedStepIDs []string, stepID string, stepData json.RawMessage) error {
	return m.Called(ctx, userID, completedStepIDs, stepID, stepData).Error(0)
}
func (m *MockOnboardingRepo) SetModuleComplete(ctx context.Context, userID string, module domain.ModuleKey) error {
	return m.Called(ctx, userID, module).Error(0)
}
func (m *MockOnboardingRepo) ClearSteps(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) Create(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}
func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}
func (m *MockGoalRepo) ListByUser(ctx context.Context, userID string) ([]domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}
func (m *MockGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}
func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockGoalRepo) DeletePlanGenerated(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPlanRepo struct {
	mock.Mock
}

func (m *MockPlanRepo) Upsert(ctx context.Context, plan *domain.BusinessPlan) error {
	return m.Called(ctx, plan).Error(0)
}
func (m *MockPlanRepo) GetByUser(ctx context.Context, userID string) (*domain.BusinessPlan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessPlan), args.Error(1)
}

type MockEntityRepo struct {
	mock.Mock
}

func (m *MockEntityRepo) List(ctx context.Context, schema domain.TableSchema, ownerID string, filters map[string]interface{}, limit int, orderBy string, ascending bool) ([]domain.EntityRow, error) {
	args := m.Called(ctx, schema, ownerID, filters, limit, orderBy, ascending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntityRow), args.Error(1)
}
func (m *MockEntityRepo) Get(ctx context.Context, schema domain.TableSchema, ownerID, id string) (domain.EntityRow, error) {
	args := m.Called(ctx, schema, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.EntityRow), args.Error(1)
}
func (m *MockEntityRepo) Create(ctx context.Context, schema domain.TableSchema, ownerID string, data map[string]interface{}) (domain.EntityRow, error) {
	args := m.Called(ctx, schema, ownerID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.EntityRow), args.Error(1)
}
func (m *MockEntityRepo) CreateBatch(ctx context.Context, schema domain.TableSchema, ownerID string, rows []map[string]interface{}) (int, error) {
	args := m.Called(ctx, schema, ownerID, rows)
	return args.Int(0), args.Error(1)
}
func (m *MockEntityRepo) Update(ctx context.Context, schema domain.TableSchema, ownerID, id string, data map[string]interface{}) (domain.EntityRow, error) {
	args := m.Called(ctx, schema, ownerID, id, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.EntityRow), args.Error(1)
}
func (m *MockEntityRepo) Delete(ctx context.Context, schema domain.TableSchema, ownerID, id string) error {
	return m.Called(ctx, schema, ownerID, id).Error(0)
}

type MockContextRepo struct {
	mock.Mock
}

func (m *MockContextRepo) GetMarketConfig(ctx context.Context, userID string) (*domain.MarketConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MarketConfig), args.Error(1)
}
func (m *MockContextRepo) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preferences), args.Error(1)
}
func (m *MockContextRepo) ListRecentActions(ctx context.Context, userID string, limit int) ([]domain.RecentAction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecentAction), args.Error(1)
}
func (m *MockContextRepo) GetAgentConfig(ctx context.Context, userID string) (*domain.AgentConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentConfig), args.Error(1)
}
func (m *MockContextRepo) GetAgentSubscription(ctx context.Context, userID string) (*domain.AgentSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentSubscription), args.Error(1)
}
func (m *MockContextRepo) ListPulseHistory(ctx context.Context, userID string, limit int) ([]domain.PulseEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PulseEntry), args.Error(1)
}
func (m *MockContextRepo) GetPulseConfig(ctx context.Context, userID string) (*domain.PulseConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PulseConfig), args.Error(1)
}
func (m *MockContextRepo) GetAgentIntelligence(ctx context.Context, userID string) (*domain.AgentIntelligence, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentIntelligence), args.Error(1)
}

type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) GetByID(ctx context.Context, id string) (*domain.AgentConversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentConversation), args.Error(1)
}
func (m *MockConversationRepo) GetLatest(ctx context.Context, userID string, persona domain.AgentPersona) (*domain.AgentConversation, error) {
	args := m.Called(ctx, userID, persona)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentConversation), args.Error(1)
}
func (m *MockConversationRepo) Create(ctx context.Context, conv *domain.AgentConversation) error {
	return m.Called(ctx, conv).Error(0)
}
func (m *MockConversationRepo) AppendTurns(ctx context.Context, id string, turns []domain.ConversationTurn) error {
	return m.Called(ctx, id, turns).Error(0)
}
func (m *MockConversationRepo) ListByUser(ctx context.Context, userID string, persona domain.AgentPersona, limit int) ([]domain.AgentConversation, error) {
	args := m.Called(ctx, userID, persona, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgentConversation), args.Error(1)
}

type MockChatGateway struct {
	mock.Mock
}

func (m *MockChatGateway) Complete(ctx context.Context, systemPrompt string, history []llm.Message, userMessage string) (string, error) {
	args := m.Called(ctx, systemPrompt, history, userMessage)
	return args.String(0), args.Error(1)
}

// asUser builds a context carrying the authenticated subject, the way the
// auth middleware does for real requests.
func asUser(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}
