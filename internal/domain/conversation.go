package domain

import (
	"context"
	"time"
)

// ============================================================================
// Agent Personas
// ============================================================================

// AgentPersona names one of the fixed coaching agents, each with its own
// chat endpoint and system prompt.
type AgentPersona string

const (
	PersonaAdvisor  AgentPersona = "advisor"  // personal production advisor
	PersonaRoleplay AgentPersona = "roleplay" // objection-handling practice partner
	PersonaContent  AgentPersona = "content"  // listing/social content studio
)

func ValidPersonas() []AgentPersona {
	return []AgentPersona{PersonaAdvisor, PersonaRoleplay, PersonaContent}
}

func (p AgentPersona) IsValid() bool {
	for _, valid := range ValidPersonas() {
		if p == valid {
			return true
		}
	}
	return false
}

// ============================================================================
// Conversations
// ============================================================================

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is one role-tagged entry in the stored history.
type ConversationTurn struct {
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// AgentConversation groups the turns of one user/persona pair for one
// calendar day. A new row starts when the latest row is from a prior day.
type AgentConversation struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Persona   AgentPersona       `json:"persona"`
	Turns     []ConversationTurn `json:"turns"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// ChatRequest is the per-turn payload from the client. History is the
// locally held transcript the client wants the model to see; the persisted
// row is still appended server-side.
type ChatRequest struct {
	Message        string             `json:"message" validate:"required,max=8000"`
	ConversationID string             `json:"conversationId,omitempty"`
	History        []ConversationTurn `json:"conversationHistory,omitempty" validate:"max=100"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
}

// ============================================================================
// Interfaces
// ============================================================================

type ConversationRepository interface {
	GetByID(ctx context.Context, id string) (*AgentConversation, error)
	GetLatest(ctx context.Context, userID string, persona AgentPersona) (*AgentConversation, error)
	Create(ctx context.Context, conv *AgentConversation) error
	AppendTurns(ctx context.Context, id string, turns []ConversationTurn) error
	ListByUser(ctx context.Context, userID string, persona AgentPersona, limit int) ([]AgentConversation, error)
}

type ChatUsecase interface {
	Chat(ctx context.Context, userID string, persona AgentPersona, req *ChatRequest) (*ChatResponse, error)
	History(ctx context.Context, userID string, persona AgentPersona) ([]AgentConversation, error)
}
