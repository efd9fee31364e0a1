package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"go-coaching-backend/internal/domain"
	"go-coaching-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type importerUsecase struct {
	repo      domain.EntityRepository
	validate  *validator.Validate
	batchSize int
}

func NewImporterUsecase(repo domain.EntityRepository, validate *validator.Validate, batchSize int) domain.ImporterUsecase {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &importerUsecase{repo: repo, validate: validate, batchSize: batchSize}
}

// numericColumns are coerced from CSV text; everything else imports as text.
var numericColumns = map[string]bool{
	"target_value":  true,
	"current_value": true,
}

// Import parses the CSV once, maps headers through the caller's column
// mapping, and inserts sequentially in fixed-size batches. A failed batch is
// recorded with its row range and the import moves on; the result reports
// overall success when at least one batch landed.
func (u *importerUsecase) Import(ctx context.Context, userID string, req *domain.ImportRequest) (*domain.ImportResult, error) {
	if err := requireCtxUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest("Validation failed: " + err.Error())
	}

	schema, err := domain.ParseEntityTable(req.EntityType)
	if err != nil {
		return nil, apperror.Forbidden(err.Error())
	}
	for _, col := range req.ColumnMapping {
		if !schema.HasColumn(col) {
			return nil, apperror.BadRequest("Column " + col + " is not importable on " + req.EntityType)
		}
	}

	rows, parseErrs, err := u.parseRows(req, schema)
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		Total:  len(rows) + len(parseErrs),
		Errors: []domain.ImportError{},
	}

	// Row-level parse failures are reported against the batch their row
	// would have belonged to.
	for _, pe := range parseErrs {
		result.Errors = append(result.Errors, pe)
	}

	for start := 0; start < len(rows); start += u.batchSize {
		end := start + u.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batchNum := start/u.batchSize + 1

		inserted, err := u.repo.CreateBatch(ctx, schema, userID, rowsData(rows[start:end]))
		if err != nil {
			result.Errors = append(result.Errors, domain.ImportError{
				Batch:    batchNum,
				RowStart: rows[start].index,
				RowEnd:   rows[end-1].index,
				Message:  err.Error(),
			})
			continue
		}
		result.Imported += inserted
	}

	result.Success = result.Imported > 0
	return result, nil
}

type importRow struct {
	index int // 1-based data row number, header excluded
	data  map[string]interface{}
}

func rowsData(rows []importRow) []map[string]interface{} {
	out := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r.data
	}
	return out
}

func (u *importerUsecase) parseRows(req *domain.ImportRequest, schema domain.TableSchema) ([]importRow, []domain.ImportError, error) {
	reader := csv.NewReader(strings.NewReader(req.CSVData))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperror.BadRequest("Invalid CSV data: " + err.Error())
	}
	if len(records) < 2 {
		return nil, nil, apperror.BadRequest("CSV must contain a header row and at least one data row")
	}

	header := records[0]
	headerIdx := make(map[string]int, len(header))
	for i, h := range header {
		headerIdx[strings.TrimSpace(h)] = i
	}
	for csvCol := range req.ColumnMapping {
		if _, ok := headerIdx[csvCol]; !ok {
			return nil, nil, apperror.BadRequest("CSV header is missing mapped column: " + csvCol)
		}
	}

	var (
		rows      []importRow
		parseErrs []domain.ImportError
	)
	for i, record := range records[1:] {
		rowNum := i + 1
		data := make(map[string]interface{}, len(req.ColumnMapping))
		var rowErr error
		for csvCol, dbCol := range req.ColumnMapping {
			idx := headerIdx[csvCol]
			if idx >= len(record) {
				rowErr = fmt.Errorf("row %d is missing column %s", rowNum, csvCol)
				break
			}
			value := strings.TrimSpace(record[idx])
			if numericColumns[dbCol] {
				n, err := strconv.ParseFloat(value, 64)
				if err != nil {
					rowErr = fmt.Errorf("row %d: %s is not numeric: %q", rowNum, dbCol, value)
					break
				}
				data[dbCol] = n
			} else {
				data[dbCol] = value
			}
		}
		if rowErr != nil {
			parseErrs = append(parseErrs, domain.ImportError{
				Batch:    len(rows)/u.batchSize + 1,
				RowStart: rowNum,
				RowEnd:   rowNum,
				Message:  rowErr.Error(),
			})
			continue
		}
		rows = append(rows, importRow{index: rowNum, data: data})
	}
	return rows, parseErrs, nil
}
