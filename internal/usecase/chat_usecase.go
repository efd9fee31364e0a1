package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"
	"go-coaching-backend/pkg/llm"
	"go-coaching-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxHistoryTurns = 40

// ChatGateway abstracts the LLM relay so the usecase can be tested without
// the network. *llm.Client satisfies it.
type ChatGateway interface {
	Complete(ctx context.Context, systemPrompt string, history []llm.Message, userMessage string) (string, error)
}

type chatUsecase struct {
	gateway     ChatGateway
	convRepo    domain.ConversationRepository
	profileRepo domain.ProfileRepository
	goalRepo    domain.GoalRepository
	contextRepo domain.ContextRepository
	validate    *validator.Validate
	now         func() time.Time
}

func NewChatUsecase(
	gateway ChatGateway,
	convRepo domain.ConversationRepository,
	profileRepo domain.ProfileRepository,
	goalRepo domain.GoalRepository,
	contextRepo domain.ContextRepository,
	validate *validator.Validate,
) domain.ChatUsecase {
	return &chatUsecase{
		gateway:     gateway,
		convRepo:    convRepo,
		profileRepo: profileRepo,
		goalRepo:    goalRepo,
		contextRepo: contextRepo,
		validate:    validate,
		now:         time.Now,
	}
}

// ============================================================================
// Persona prompts
// ============================================================================

var personaIntro = map[domain.AgentPersona]string{
	domain.PersonaAdvisor: "You are a seasoned real estate production coach. " +
		"Give direct, actionable advice on lead generation, time blocking, and hitting production targets. " +
		"Keep answers under 250 words and always end with one concrete next action.",
	domain.PersonaRoleplay: "You are a prospective home seller or buyer in a role-play. " +
		"Stay in character, raise realistic objections (pricing, commission, timing), and only break " +
		"character to give one line of feedback when the agent asks for it.",
	domain.PersonaContent: "You are a real estate marketing copywriter. " +
		"Produce listing descriptions, social posts, and email copy in the agent's voice. " +
		"Match fair-housing rules: never reference protected classes or steer.",
}

// buildSystemPrompt layers what we know about the user under the fixed
// persona instructions. Lookups besides the profile are best-effort: a
// missing section just drops out of the prompt.
func (u *chatUsecase) buildSystemPrompt(ctx context.Context, userID string, persona domain.AgentPersona) (string, error) {
	profile, err := u.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.NotFound("Profile not found")
	}

	var sb strings.Builder
	sb.WriteString(personaIntro[persona])
	fmt.Fprintf(&sb, "\n\nThe agent you are working with is %s %s", profile.FirstName, profile.LastName)
	if profile.Brokerage != "" {
		fmt.Fprintf(&sb, " of %s", profile.Brokerage)
	}
	if profile.MarketArea != "" {
		fmt.Fprintf(&sb, ", working the %s market", profile.MarketArea)
	}
	sb.WriteString(".")

	if goals, err := u.goalRepo.ListByUser(ctx, userID); err == nil && len(goals) > 0 {
		sb.WriteString("\nTheir active goals:")
		for _, g := range goals {
			if g.Status != domain.GoalActive {
				continue
			}
			fmt.Fprintf(&sb, "\n- %s (%.0f of %.0f %s)", g.Title, g.CurrentValue, g.TargetValue, g.Unit)
		}
	}
	if mc, err := u.contextRepo.GetMarketConfig(ctx, userID); err == nil && mc != nil {
		fmt.Fprintf(&sb, "\nMarket snapshot: average sale price $%.0f, %d days on market.",
			mc.AvgSalePrice, mc.AvgDaysOnMarket)
	}
	if ai, err := u.contextRepo.GetAgentIntelligence(ctx, userID); err == nil && ai != nil && ai.Summary != "" {
		fmt.Fprintf(&sb, "\nCoaching notes: %s", ai.Summary)
	}

	return sb.String(), nil
}

// ============================================================================
// Chat
// ============================================================================

func (u *chatUsecase) Chat(ctx context.Context, userID string, persona domain.AgentPersona, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if !persona.IsValid() {
		return nil, apperror.NotFound("Unknown agent persona")
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	systemPrompt, err := u.buildSystemPrompt(ctx, userID, persona)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(req.History))
	turns := req.History
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	for _, t := range turns {
		history = append(history, llm.Message{Role: string(t.Role), Content: t.Content})
	}

	// Gateway failures (401/429/402) carry their own error kinds and are
	// returned as-is; no automatic retry.
	reply, err := u.gateway.Complete(ctx, systemPrompt, history, req.Message)
	if err != nil {
		return nil, err
	}

	convID, err := u.persistExchange(ctx, userID, persona, req, reply)
	if err != nil {
		// The user already has the reply; losing the transcript row is not
		// worth failing the turn.
		logger.Log.Error("failed to persist conversation", "persona", persona, "user_id", userID, "error", err)
		convID = req.ConversationID
	}

	return &domain.ChatResponse{Response: reply, ConversationID: convID}, nil
}

// persistExchange appends the user/assistant pair to today's conversation
// row, starting a new row when the latest one is from a prior calendar day.
func (u *chatUsecase) persistExchange(ctx context.Context, userID string, persona domain.AgentPersona, req *domain.ChatRequest, reply string) (string, error) {
	now := u.now()
	newTurns := []domain.ConversationTurn{
		{Role: domain.RoleUser, Content: req.Message, Timestamp: now},
		{Role: domain.RoleAssistant, Content: reply, Timestamp: now},
	}

	var conv *domain.AgentConversation
	if req.ConversationID != "" {
		if c, err := u.convRepo.GetByID(ctx, req.ConversationID); err == nil && c.UserID == userID && c.Persona == persona {
			conv = c
		}
	}
	if conv == nil {
		if c, err := u.convRepo.GetLatest(ctx, userID, persona); err == nil {
			conv = c
		}
	}

	if conv != nil && sameDay(conv.UpdatedAt, now) {
		return conv.ID, u.convRepo.AppendTurns(ctx, conv.ID, newTurns)
	}

	fresh := &domain.AgentConversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Persona:   persona,
		Turns:     newTurns,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return fresh.ID, u.convRepo.Create(ctx, fresh)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (u *chatUsecase) History(ctx context.Context, userID string, persona domain.AgentPersona) ([]domain.AgentConversation, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if !persona.IsValid() {
		return nil, apperror.NotFound("Unknown agent persona")
	}
	convs, err := u.convRepo.ListByUser(ctx, userID, persona, 20)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to load conversations: "+err.Error(), err)
	}
	if convs == nil {
		convs = []domain.AgentConversation{}
	}
	return convs, nil
}
