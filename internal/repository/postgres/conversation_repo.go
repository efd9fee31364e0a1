package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"go-coaching-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type conversationRepo struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) domain.ConversationRepository {
	return &conversationRepo{db: db}
}

const conversationColumns = `id, user_id, persona, turns, created_at, updated_at`

func scanConversation(row pgx.Row) (*domain.AgentConversation, error) {
	var (
		conv       domain.AgentConversation
		turnsBytes []byte
	)
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.Persona, &turnsBytes, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(turnsBytes, &conv.Turns); err != nil {
		return nil, fmt.Errorf("failed to decode conversation turns: %w", err)
	}
	if conv.Turns == nil {
		conv.Turns = []domain.ConversationTurn{}
	}
	return &conv, nil
}

func (r *conversationRepo) GetByID(ctx context.Context, id string) (*domain.AgentConversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM agent_conversations WHERE id = $1`
	return scanConversation(r.db.QueryRow(ctx, query, id))
}

func (r *conversationRepo) GetLatest(ctx context.Context, userID string, persona domain.AgentPersona) (*domain.AgentConversation, error) {
	query := `SELECT ` + conversationColumns + `
              FROM agent_conversations
              WHERE user_id = $1 AND persona = $2
              ORDER BY updated_at DESC
              LIMIT 1`
	return scanConversation(r.db.QueryRow(ctx, query, userID, persona))
}

func (r *conversationRepo) Create(ctx context.Context, conv *domain.AgentConversation) error {
	turns, err := json.Marshal(conv.Turns)
	if err != nil {
		return fmt.Errorf("failed to encode conversation turns: %w", err)
	}
	query := `INSERT INTO agent_conversations (` + conversationColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.Exec(ctx, query, conv.ID, conv.UserID, conv.Persona, turns, conv.CreatedAt, conv.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) AppendTurns(ctx context.Context, id string, turns []domain.ConversationTurn) error {
	encoded, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("failed to encode turns: %w", err)
	}
	query := `
		UPDATE agent_conversations
		SET turns = COALESCE(turns, '[]'::jsonb) || $2::jsonb, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, encoded)
	if err != nil {
		return fmt.Errorf("failed to append turns: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("conversation %s not found", id)
	}
	return nil
}

func (r *conversationRepo) ListByUser(ctx context.Context, userID string, persona domain.AgentPersona, limit int) ([]domain.AgentConversation, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	query := `SELECT ` + conversationColumns + `
              FROM agent_conversations
              WHERE user_id = $1 AND persona = $2
              ORDER BY updated_at DESC
              LIMIT $3`
	rows, err := r.db.Query(ctx, query, userID, persona, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.AgentConversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return convs, nil
}
