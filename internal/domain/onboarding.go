package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ============================================================================
// Onboarding Modules
// ============================================================================

// ModuleKey identifies a named group of setup steps. Modules run in a fixed
// order; tier and the call-center add-on decide which ones apply.
type ModuleKey string

const (
	ModuleCore       ModuleKey = "core"
	ModuleAgents     ModuleKey = "agents"
	ModuleCallCenter ModuleKey = "callcenter"
)

// moduleOrder is the fixed adjacency: core -> agents -> callcenter.
var moduleOrder = []ModuleKey{ModuleCore, ModuleAgents, ModuleCallCenter}

// moduleSteps holds the fixed ordered step identifiers per module. Step
// payloads are opaque to the sequencer.
var moduleSteps = map[ModuleKey][]string{
	ModuleCore: {
		"welcome",
		"profile-basics",
		"market-setup",
		"deal-economics",
		"first-goal",
		"preferences",
	},
	ModuleAgents: {
		"agents-intro",
		"agent-selection",
		"agent-tuning",
	},
	ModuleCallCenter: {
		"script-setup",
		"calendar-link",
		"dialer-test",
	},
}

// StepsFor returns the ordered step IDs of a module, or nil for an unknown key.
func StepsFor(module ModuleKey) []string {
	return moduleSteps[module]
}

// ActiveModules returns the ordered modules a user can reach. Core is always
// active; agents needs subscriber or admin; callcenter needs the call-center
// add-on or admin.
func ActiveModules(tier Tier, callCenterAddon bool) []ModuleKey {
	active := []ModuleKey{ModuleCore}
	for _, m := range moduleOrder[1:] {
		switch m {
		case ModuleAgents:
			if tier == TierSubscriber || tier == TierAdmin {
				active = append(active, m)
			}
		case ModuleCallCenter:
			if callCenterAddon || tier == TierAdmin {
				active = append(active, m)
			}
		}
	}
	return active
}

// ============================================================================
// Persisted Progress
// ============================================================================

// OnboardingProgress is the one-to-one progress row. Module completion flags
// are monotonic: once true the sequencer never resets them.
type OnboardingProgress struct {
	UserID                string     `json:"userId"`
	CoreCompleted         bool       `json:"coreCompleted"`
	AgentsCompleted       bool       `json:"agentsCompleted"`
	CallCenterCompleted   bool       `json:"callCenterCompleted"`
	CompletedStepIDs      []string   `json:"completedStepIds"`
	CoreCompletedAt       *time.Time `json:"coreCompletedAt,omitempty"`
	AgentsCompletedAt     *time.Time `json:"agentsCompletedAt,omitempty"`
	CallCenterCompletedAt *time.Time `json:"callCenterCompletedAt,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// ModuleCompleted reports the persisted flag for a module.
func (p *OnboardingProgress) ModuleCompleted(module ModuleKey) bool {
	switch module {
	case ModuleCore:
		return p.CoreCompleted
	case ModuleAgents:
		return p.AgentsCompleted
	case ModuleCallCenter:
		return p.CallCenterCompleted
	}
	return false
}

// HasStep reports whether a step ID is in the completed set.
func (p *OnboardingProgress) HasStep(stepID string) bool {
	for _, id := range p.CompletedStepIDs {
		if id == stepID {
			return true
		}
	}
	return false
}

// ============================================================================
// Sequencer DTOs
// ============================================================================

// SequencerState is the resumable position returned to the client.
type SequencerState struct {
	ActiveModules    []ModuleKey `json:"activeModules"`
	CurrentModule    ModuleKey   `json:"currentModule,omitempty"`
	CurrentStepID    string      `json:"currentStepId,omitempty"`
	CurrentStepIndex int         `json:"currentStepIndex"`
	CompletedStepIDs []string    `json:"completedStepIds"`
	Completed        bool        `json:"completed"`
}

// AdvanceRequest records the current step's payload and moves forward.
type AdvanceRequest struct {
	StepID   string          `json:"stepId" validate:"required"`
	StepData json.RawMessage `json:"stepData,omitempty"`
}

// ============================================================================
// Interfaces
// ============================================================================

type OnboardingRepository interface {
	CreateInitial(ctx context.Context, userID string) error
	GetProgress(ctx context.Context, userID string) (*OnboardingProgress, error)
	// SaveStep persists the completed step set and the step's payload in one
	// statement; the sequencer only advances after this succeeds.
	SaveStep(ctx context.Context, userID string, completedStepIDs []string, stepID string, stepData json.RawMessage) error
	SetModuleComplete(ctx context.Context, userID string, module ModuleKey) error
	ClearSteps(ctx context.Context, userID string) error
}

type OnboardingUsecase interface {
	GetState(ctx context.Context, userID string) (*SequencerState, error)
	Advance(ctx context.Context, userID string, req *AdvanceRequest) (*SequencerState, error)
	Retreat(ctx context.Context, userID string) (*SequencerState, error)
	Reset(ctx context.Context, userID string) (*SequencerState, error)
}
