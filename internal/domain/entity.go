package domain

import (
	"context"
	"fmt"
)

// ============================================================================
// Entity Gateway
// ============================================================================
//
// The gateway relays generic CRUD to a closed set of per-user tables. The
// table is an enum with a compile-time registry (columns + owner column), so
// there is no runtime string allow-list to keep in sync: an unknown table
// simply fails to parse.

type EntityTable string

const (
	TableContacts      EntityTable = "contacts"
	TableGoals         EntityTable = "goals"
	TableRecentActions EntityTable = "recent_actions"
	TableMarketConfig  EntityTable = "market_config"
	TablePreferences   EntityTable = "user_preferences"
	TablePulseHistory  EntityTable = "pulse_history"
)

// TableSchema describes what the gateway may touch on a table.
type TableSchema struct {
	Name        EntityTable
	OwnerColumn string
	// Columns the gateway may read, write, filter, and order by. The primary
	// key and owner column are managed by the gateway itself.
	Columns []string
}

var tableRegistry = map[EntityTable]TableSchema{
	TableContacts: {
		Name:        TableContacts,
		OwnerColumn: "user_id",
		Columns:     []string{"first_name", "last_name", "email", "phone", "address", "source", "stage", "notes", "last_contacted_at"},
	},
	TableGoals: {
		Name:        TableGoals,
		OwnerColumn: "user_id",
		Columns:     []string{"title", "type", "unit", "target_value", "current_value", "timeframe", "deadline", "status", "from_plan"},
	},
	TableRecentActions: {
		Name:        TableRecentActions,
		OwnerColumn: "user_id",
		Columns:     []string{"action_type", "description", "metadata"},
	},
	TableMarketConfig: {
		Name:        TableMarketConfig,
		OwnerColumn: "user_id",
		Columns:     []string{"market_area", "avg_sale_price", "avg_days_on_market", "inventory_months", "focus_zip_codes"},
	},
	TablePreferences: {
		Name:        TablePreferences,
		OwnerColumn: "user_id",
		Columns:     []string{"theme", "notifications_enabled", "daily_digest", "timezone", "coaching_style"},
	},
	TablePulseHistory: {
		Name:        TablePulseHistory,
		OwnerColumn: "user_id",
		Columns:     []string{"score", "mood", "note", "recorded_on"},
	},
}

// ParseEntityTable resolves a request string to a registered table.
func ParseEntityTable(s string) (TableSchema, error) {
	schema, ok := tableRegistry[EntityTable(s)]
	if !ok {
		return TableSchema{}, fmt.Errorf("table %q is not accessible", s)
	}
	return schema, nil
}

// HasColumn reports whether the gateway may touch the named column.
func (s TableSchema) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// ============================================================================
// Gateway DTOs
// ============================================================================

type EntityOperation string

const (
	OpList   EntityOperation = "list"
	OpFilter EntityOperation = "filter"
	OpGet    EntityOperation = "get"
	OpCreate EntityOperation = "create"
	OpUpdate EntityOperation = "update"
	OpDelete EntityOperation = "delete"
)

// EntityRequest is the generic relay payload. Filters are equality-only.
type EntityRequest struct {
	Table     string                 `json:"table" validate:"required"`
	Operation EntityOperation        `json:"operation" validate:"required"`
	ID        string                 `json:"id,omitempty"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Limit     int                    `json:"limit,omitempty" validate:"gte=0,lte=500"`
	OrderBy   string                 `json:"orderBy,omitempty"`
	Ascending bool                   `json:"ascending,omitempty"`
}

// EntityRow is one generic row keyed by column name.
type EntityRow map[string]interface{}

type EntityRepository interface {
	List(ctx context.Context, schema TableSchema, ownerID string, filters map[string]interface{}, limit int, orderBy string, ascending bool) ([]EntityRow, error)
	Get(ctx context.Context, schema TableSchema, ownerID, id string) (EntityRow, error)
	Create(ctx context.Context, schema TableSchema, ownerID string, data map[string]interface{}) (EntityRow, error)
	CreateBatch(ctx context.Context, schema TableSchema, ownerID string, rows []map[string]interface{}) (int, error)
	Update(ctx context.Context, schema TableSchema, ownerID, id string, data map[string]interface{}) (EntityRow, error)
	Delete(ctx context.Context, schema TableSchema, ownerID, id string) error
}

type EntityUsecase interface {
	Handle(ctx context.Context, userID string, req *EntityRequest) (interface{}, error)
}
