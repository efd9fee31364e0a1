package domain

import "context"

// ============================================================================
// CSV Bulk Import
// ============================================================================

// ImportRequest carries raw CSV text plus a header -> column mapping. Only
// gateway tables that make sense to bulk-load are accepted.
type ImportRequest struct {
	EntityType    string            `json:"entityType" validate:"required,oneof=contacts goals"`
	CSVData       string            `json:"csvData" validate:"required"`
	ColumnMapping map[string]string `json:"columnMapping" validate:"required,min=1"`
}

// ImportError names one failed batch and its row range (1-based data rows,
// header excluded).
type ImportError struct {
	Batch    int    `json:"batch"`
	RowStart int    `json:"rowStart"`
	RowEnd   int    `json:"rowEnd"`
	Message  string `json:"message"`
}

// ImportResult reports partial success: the operation as a whole succeeds if
// at least one batch landed.
type ImportResult struct {
	Success  bool          `json:"success"`
	Imported int           `json:"imported"`
	Total    int           `json:"total"`
	Errors   []ImportError `json:"errors"`
}

type ImporterUsecase interface {
	Import(ctx context.Context, userID string, req *ImportRequest) (*ImportResult, error)
}
