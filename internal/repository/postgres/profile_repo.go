package postgres

import (
	"context"
	"errors"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, first_name, last_name, phone, avatar_url, market_area, brokerage, tier, call_center_addon, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.AvatarURL,
		&p.MarketArea, &p.Brokerage, &p.Tier, &p.CallCenterAddon,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	query := `INSERT INTO profiles (id, email, first_name, last_name, phone, avatar_url, market_area, brokerage, tier, call_center_addon, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Email, profile.FirstName, profile.LastName,
		profile.Phone, profile.AvatarURL, profile.MarketArea, profile.Brokerage,
		profile.Tier, profile.CallCenterAddon, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("A profile with this email already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.db.QueryRow(ctx, query, email))
}

func (r *profileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE profiles
              SET first_name = $2, last_name = $3, phone = $4, avatar_url = $5,
                  market_area = $6, brokerage = $7, tier = $8, call_center_addon = $9, updated_at = $10
              WHERE id = $1`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.FirstName, profile.LastName, profile.Phone,
		profile.AvatarURL, profile.MarketArea, profile.Brokerage,
		profile.Tier, profile.CallCenterAddon, profile.UpdatedAt,
	)
	return err
}

// RelinkByEmail moves a profile and its dependent rows to a new provider ID.
// Used when the identity provider reissued the account (same email, new sub).
func (r *profileRepo) RelinkByEmail(ctx context.Context, email string, profile *domain.Profile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.Internal(err)
	}
	defer tx.Rollback(ctx)

	var oldID string
	if err := tx.QueryRow(ctx, `SELECT id FROM profiles WHERE email = $1`, email).Scan(&oldID); err != nil {
		return apperror.Internal(err)
	}

	// profiles cascades to FK tables via ON UPDATE CASCADE; the JSON-keyed
	// tables below reference user_id as plain text and need manual moves.
	if _, err := tx.Exec(ctx, `UPDATE profiles SET id = $1, updated_at = $2 WHERE email = $3`,
		profile.ID, profile.UpdatedAt, email); err != nil {
		return apperror.Internal(err)
	}
	for _, table := range []string{"onboarding_progress", "agent_conversations", "business_plans"} {
		if _, err := tx.Exec(ctx, `UPDATE `+table+` SET user_id = $1 WHERE user_id = $2`, profile.ID, oldID); err != nil {
			return apperror.Internal(err)
		}
	}

	return tx.Commit(ctx)
}
