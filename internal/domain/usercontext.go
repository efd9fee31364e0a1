package domain

import (
	"context"
	"time"
)

// ============================================================================
// Aggregated per-user context
// ============================================================================
//
// One call joins the latest rows of every per-user table the dashboard needs.
// The profile read is fatal; every other read degrades to null/empty so a
// single broken table never blanks the whole dashboard.

type MarketConfig struct {
	MarketArea       string    `json:"marketArea"`
	AvgSalePrice     float64   `json:"avgSalePrice"`
	AvgDaysOnMarket  int       `json:"avgDaysOnMarket"`
	InventoryMonths  float64   `json:"inventoryMonths"`
	FocusZipCodes    []string  `json:"focusZipCodes"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type Preferences struct {
	Theme                string    `json:"theme"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	DailyDigest          bool      `json:"dailyDigest"`
	Timezone             string    `json:"timezone"`
	CoachingStyle        string    `json:"coachingStyle"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type RecentAction struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"actionType"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AgentConfig struct {
	EnabledPersonas []string  `json:"enabledPersonas"`
	Tone            string    `json:"tone"`
	ResponseLength  string    `json:"responseLength"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type AgentSubscription struct {
	Tier            Tier       `json:"tier"`
	CallCenterAddon bool       `json:"callCenterAddon"`
	RenewsAt        *time.Time `json:"renewsAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type PulseEntry struct {
	ID         string    `json:"id"`
	Score      int       `json:"score"`
	Mood       string    `json:"mood"`
	Note       string    `json:"note,omitempty"`
	RecordedOn time.Time `json:"recordedOn"`
}

type PulseConfig struct {
	ReminderHour int       `json:"reminderHour"`
	Enabled      bool      `json:"enabled"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AgentIntelligence is the slow-moving profile the chat personas are primed
// with (strengths, struggles, communication style).
type AgentIntelligence struct {
	Summary            string    `json:"summary"`
	Strengths          []string  `json:"strengths"`
	GrowthAreas        []string  `json:"growthAreas"`
	CommunicationStyle string    `json:"communicationStyle"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UserContext is the composite snapshot returned by the aggregator. Optional
// sections are nil/empty when their read failed or no row exists.
type UserContext struct {
	User              *Profile            `json:"user"`
	Onboarding        *OnboardingProgress `json:"onboarding,omitempty"`
	MarketConfig      *MarketConfig       `json:"marketConfig,omitempty"`
	Preferences       *Preferences        `json:"preferences,omitempty"`
	RecentActions     []RecentAction      `json:"recentActions"`
	AgentConfig       *AgentConfig        `json:"agentConfig,omitempty"`
	AgentSubscription *AgentSubscription  `json:"agentSubscription,omitempty"`
	Goals             []Goal              `json:"goals"`
	BusinessPlan      *BusinessPlan       `json:"businessPlan,omitempty"`
	PulseHistory      []PulseEntry        `json:"pulseHistory"`
	PulseConfig       *PulseConfig        `json:"pulseConfig,omitempty"`
	AgentIntelligence *AgentIntelligence  `json:"agentIntelligence,omitempty"`
}

// ContextRepository covers the per-user tables that have no dedicated
// repository of their own.
type ContextRepository interface {
	GetMarketConfig(ctx context.Context, userID string) (*MarketConfig, error)
	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	ListRecentActions(ctx context.Context, userID string, limit int) ([]RecentAction, error)
	GetAgentConfig(ctx context.Context, userID string) (*AgentConfig, error)
	GetAgentSubscription(ctx context.Context, userID string) (*AgentSubscription, error)
	ListPulseHistory(ctx context.Context, userID string, limit int) ([]PulseEntry, error)
	GetPulseConfig(ctx context.Context, userID string) (*PulseConfig, error)
	GetAgentIntelligence(ctx context.Context, userID string) (*AgentIntelligence, error)
}

type ContextUsecase interface {
	GetUserContext(ctx context.Context, userID string) (*UserContext, error)
}
