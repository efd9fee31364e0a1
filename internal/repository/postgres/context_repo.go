package postgres

import (
	"context"
	"fmt"

	"go-coaching-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// contextRepo reads the per-user tables that only the aggregator needs.
type contextRepo struct {
	db *pgxpool.Pool
}

func NewContextRepository(db *pgxpool.Pool) domain.ContextRepository {
	return &contextRepo{db: db}
}

func (r *contextRepo) GetMarketConfig(ctx context.Context, userID string) (*domain.MarketConfig, error) {
	query := `SELECT market_area, avg_sale_price, avg_days_on_market, inventory_months, focus_zip_codes, updated_at
              FROM market_config WHERE user_id = $1`
	var m domain.MarketConfig
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.MarketArea, &m.AvgSalePrice, &m.AvgDaysOnMarket, &m.InventoryMonths, &m.FocusZipCodes, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.FocusZipCodes == nil {
		m.FocusZipCodes = []string{}
	}
	return &m, nil
}

func (r *contextRepo) GetPreferences(ctx context.Context, userID string) (*domain.Preferences, error) {
	query := `SELECT theme, notifications_enabled, daily_digest, timezone, coaching_style, updated_at
              FROM user_preferences WHERE user_id = $1`
	var p domain.Preferences
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.Theme, &p.NotificationsEnabled, &p.DailyDigest, &p.Timezone, &p.CoachingStyle, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *contextRepo) ListRecentActions(ctx context.Context, userID string, limit int) ([]domain.RecentAction, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	query := `SELECT id, action_type, description, COALESCE(metadata::text, ''), created_at
              FROM recent_actions WHERE user_id = $1
              ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.RecentAction
	for rows.Next() {
		var a domain.RecentAction
		if err := rows.Scan(&a.ID, &a.ActionType, &a.Description, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent action: %w", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent actions: %w", err)
	}
	return actions, nil
}

func (r *contextRepo) GetAgentConfig(ctx context.Context, userID string) (*domain.AgentConfig, error) {
	query := `SELECT enabled_personas, tone, response_length, updated_at
              FROM agent_config WHERE user_id = $1`
	var c domain.AgentConfig
	err := r.db.QueryRow(ctx, query, userID).Scan(&c.EnabledPersonas, &c.Tone, &c.ResponseLength, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.EnabledPersonas == nil {
		c.EnabledPersonas = []string{}
	}
	return &c, nil
}

func (r *contextRepo) GetAgentSubscription(ctx context.Context, userID string) (*domain.AgentSubscription, error) {
	query := `SELECT tier, call_center_addon, renews_at, updated_at
              FROM agent_subscriptions WHERE user_id = $1`
	var s domain.AgentSubscription
	err := r.db.QueryRow(ctx, query, userID).Scan(&s.Tier, &s.CallCenterAddon, &s.RenewsAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *contextRepo) ListPulseHistory(ctx context.Context, userID string, limit int) ([]domain.PulseEntry, error) {
	if limit <= 0 || limit > 30 {
		limit = 30
	}
	query := `SELECT id, score, mood, COALESCE(note, ''), recorded_on
              FROM pulse_history WHERE user_id = $1
              ORDER BY recorded_on DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pulse history: %w", err)
	}
	defer rows.Close()

	var entries []domain.PulseEntry
	for rows.Next() {
		var e domain.PulseEntry
		if err := rows.Scan(&e.ID, &e.Score, &e.Mood, &e.Note, &e.RecordedOn); err != nil {
			return nil, fmt.Errorf("failed to scan pulse entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pulse history: %w", err)
	}
	return entries, nil
}

func (r *contextRepo) GetPulseConfig(ctx context.Context, userID string) (*domain.PulseConfig, error) {
	query := `SELECT reminder_hour, enabled, updated_at FROM pulse_config WHERE user_id = $1`
	var c domain.PulseConfig
	err := r.db.QueryRow(ctx, query, userID).Scan(&c.ReminderHour, &c.Enabled, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contextRepo) GetAgentIntelligence(ctx context.Context, userID string) (*domain.AgentIntelligence, error) {
	query := `SELECT COALESCE(summary, ''), strengths, growth_areas, COALESCE(communication_style, ''), updated_at
              FROM agent_intelligence WHERE user_id = $1`
	var a domain.AgentIntelligence
	err := r.db.QueryRow(ctx, query, userID).Scan(&a.Summary, &a.Strengths, &a.GrowthAreas, &a.CommunicationStyle, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.Strengths == nil {
		a.Strengths = []string{}
	}
	if a.GrowthAreas == nil {
		a.GrowthAreas = []string{}
	}
	return &a, nil
}
