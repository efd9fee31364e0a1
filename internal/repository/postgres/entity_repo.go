package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-coaching-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// entityRepo executes the generic gateway operations. All identifiers come
// from the compile-time table registry, never from the request, so the SQL
// built here cannot name an unregistered table or column. Every statement is
// scoped by the owner column.
type entityRepo struct {
	db *pgxpool.Pool
}

func NewEntityRepository(db *pgxpool.Pool) domain.EntityRepository {
	return &entityRepo{db: db}
}

// selectColumns is id + owner + registry columns + timestamps, in a fixed
// order so scans line up.
func selectColumns(schema domain.TableSchema) []string {
	cols := []string{"id", schema.OwnerColumn}
	cols = append(cols, schema.Columns...)
	return append(cols, "created_at", "updated_at")
}

func scanEntityRows(rows pgx.Rows, cols []string) ([]domain.EntityRow, error) {
	var out []domain.EntityRow
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(domain.EntityRow, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

func (r *entityRepo) List(ctx context.Context, schema domain.TableSchema, ownerID string, filters map[string]interface{}, limit int, orderBy string, ascending bool) ([]domain.EntityRow, error) {
	cols := selectColumns(schema)

	var sb strings.Builder
	args := []interface{}{ownerID}
	fmt.Fprintf(&sb, "SELECT %s FROM %s WHERE %s = $1", strings.Join(cols, ", "), schema.Name, schema.OwnerColumn)

	// Equality filters only; the usecase has already validated the columns.
	for col, val := range filters {
		args = append(args, val)
		fmt.Fprintf(&sb, " AND %s = $%d", col, len(args))
	}

	if orderBy != "" {
		dir := "DESC"
		if ascending {
			dir = "ASC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", orderBy, dir)
	} else {
		sb.WriteString(" ORDER BY created_at DESC")
	}

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", schema.Name, err)
	}
	defer rows.Close()
	return scanEntityRows(rows, cols)
}

func (r *entityRepo) Get(ctx context.Context, schema domain.TableSchema, ownerID, id string) (domain.EntityRow, error) {
	cols := selectColumns(schema)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND id = $2",
		strings.Join(cols, ", "), schema.Name, schema.OwnerColumn)

	rows, err := r.db.Query(ctx, query, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", schema.Name, err)
	}
	defer rows.Close()

	out, err := scanEntityRows(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, pgx.ErrNoRows
	}
	return out[0], nil
}

func (r *entityRepo) Create(ctx context.Context, schema domain.TableSchema, ownerID string, data map[string]interface{}) (domain.EntityRow, error) {
	id := uuid.NewString()
	now := time.Now()

	cols := []string{"id", schema.OwnerColumn, "created_at", "updated_at"}
	args := []interface{}{id, ownerID, now, now}
	for col, val := range data {
		cols = append(cols, col)
		args = append(args, val)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", schema.Name, err)
	}
	return r.Get(ctx, schema, ownerID, id)
}

func (r *entityRepo) CreateBatch(ctx context.Context, schema domain.TableSchema, ownerID string, rowsData []map[string]interface{}) (int, error) {
	if len(rowsData) == 0 {
		return 0, nil
	}

	// One transaction per batch: a bad row fails its whole batch, which the
	// importer reports as a single batch error.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	inserted := 0
	for _, data := range rowsData {
		cols := []string{"id", schema.OwnerColumn, "created_at", "updated_at"}
		args := []interface{}{uuid.NewString(), ownerID, now, now}
		for col, val := range data {
			cols = append(cols, col)
			args = append(args, val)
		}
		placeholders := make([]string, len(args))
		for i := range args {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			schema.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("failed to insert batch row: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

func (r *entityRepo) Update(ctx context.Context, schema domain.TableSchema, ownerID, id string, data map[string]interface{}) (domain.EntityRow, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{ownerID, id}
	for col, val := range data {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1 AND id = $2",
		schema.Name, strings.Join(sets, ", "), schema.OwnerColumn)
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s row: %w", schema.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.Get(ctx, schema, ownerID, id)
}

func (r *entityRepo) Delete(ctx context.Context, schema domain.TableSchema, ownerID, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND id = $2", schema.Name, schema.OwnerColumn)
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", schema.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
