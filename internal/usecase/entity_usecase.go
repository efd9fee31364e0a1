package usecase

import (
	"context"
	"net/http"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

type entityUsecase struct {
	repo     domain.EntityRepository
	validate *validator.Validate
}

func NewEntityUsecase(repo domain.EntityRepository, validate *validator.Validate) domain.EntityUsecase {
	return &entityUsecase{repo: repo, validate: validate}
}

// Handle dispatches one generic relay request. The table resolves through
// the closed registry, filters and data columns are checked against it, and
// every repository call is scoped to the token subject.
func (u *entityUsecase) Handle(ctx context.Context, userID string, req *domain.EntityRequest) (interface{}, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	schema, err := domain.ParseEntityTable(req.Table)
	if err != nil {
		return nil, apperror.Forbidden(err.Error())
	}

	switch req.Operation {
	case domain.OpList, domain.OpFilter:
		return u.list(ctx, schema, userID, req)
	case domain.OpGet:
		return u.get(ctx, schema, userID, req)
	case domain.OpCreate:
		return u.create(ctx, schema, userID, req)
	case domain.OpUpdate:
		return u.update(ctx, schema, userID, req)
	case domain.OpDelete:
		return nil, u.delete(ctx, schema, userID, req)
	default:
		return nil, apperror.BadRequest("Unknown operation: " + string(req.Operation))
	}
}

func (u *entityUsecase) checkColumns(schema domain.TableSchema, cols map[string]interface{}) error {
	for col := range cols {
		if !schema.HasColumn(col) {
			return apperror.BadRequest("Column " + col + " is not accessible on " + string(schema.Name))
		}
	}
	return nil
}

func (u *entityUsecase) list(ctx context.Context, schema domain.TableSchema, userID string, req *domain.EntityRequest) (interface{}, error) {
	if err := u.checkColumns(schema, req.Filters); err != nil {
		return nil, err
	}
	if req.OrderBy != "" && !schema.HasColumn(req.OrderBy) && req.OrderBy != "created_at" && req.OrderBy != "updated_at" {
		return nil, apperror.BadRequest("Cannot order by " + req.OrderBy)
	}

	rows, err := u.repo.List(ctx, schema, userID, req.Filters, req.Limit, req.OrderBy, req.Ascending)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to list rows: "+err.Error(), err)
	}
	if rows == nil {
		rows = []domain.EntityRow{}
	}
	return rows, nil
}

func (u *entityUsecase) get(ctx context.Context, schema domain.TableSchema, userID string, req *domain.EntityRequest) (interface{}, error) {
	if req.ID == "" {
		return nil, apperror.BadRequest("id is required for get")
	}
	row, err := u.repo.Get(ctx, schema, userID, req.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("Row not found")
		}
		return nil, apperror.New(http.StatusInternalServerError, "Failed to get row: "+err.Error(), err)
	}
	return row, nil
}

func (u *entityUsecase) create(ctx context.Context, schema domain.TableSchema, userID string, req *domain.EntityRequest) (interface{}, error) {
	if len(req.Data) == 0 {
		return nil, apperror.BadRequest("data is required for create")
	}
	if err := u.checkColumns(schema, req.Data); err != nil {
		return nil, err
	}
	row, err := u.repo.Create(ctx, schema, userID, req.Data)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, "Failed to create row: "+err.Error(), err)
	}
	return row, nil
}

func (u *entityUsecase) update(ctx context.Context, schema domain.TableSchema, userID string, req *domain.EntityRequest) (interface{}, error) {
	if req.ID == "" {
		return nil, apperror.BadRequest("id is required for update")
	}
	if len(req.Data) == 0 {
		return nil, apperror.BadRequest("data is required for update")
	}
	if err := u.checkColumns(schema, req.Data); err != nil {
		return nil, err
	}
	row, err := u.repo.Update(ctx, schema, userID, req.ID, req.Data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("Row not found")
		}
		return nil, apperror.New(http.StatusInternalServerError, "Failed to update row: "+err.Error(), err)
	}
	return row, nil
}

func (u *entityUsecase) delete(ctx context.Context, schema domain.TableSchema, userID string, req *domain.EntityRequest) error {
	if req.ID == "" {
		return apperror.BadRequest("id is required for delete")
	}
	if err := u.repo.Delete(ctx, schema, userID, req.ID); err != nil {
		if err == pgx.ErrNoRows {
			return apperror.NotFound("Row not found")
		}
		return apperror.New(http.StatusInternalServerError, "Failed to delete row: "+err.Error(), err)
	}
	return nil
}
