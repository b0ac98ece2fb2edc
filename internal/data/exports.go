// File: internal/data/exports.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contactsapi/internal/validator"
)

// ----------------------------------------------------------------------
//
//	Definitions
//
// ----------------------------------------------------------------------

// Export status values.
const (
	ExportStatusPending   = "pending"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"
)

// ExportHistory represents one spreadsheet export run.
type ExportHistory struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	SpreadsheetID string    `json:"spreadsheet_id"`
	SheetName     string    `json:"sheet_name"`
	RowCount      int64     `json:"row_count"`
	Status        string    `json:"status"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExportHistoryModel wraps a sql.DB connection pool.
type ExportHistoryModel struct {
	DB *sql.DB
}

// ExportFilter represents filtering criteria for querying export history.
type ExportFilter struct {
	Filter Filter
	UserID int64
	Status string
}

// ----------------------------------------------------------------------
//
//	Methods
//
// ----------------------------------------------------------------------

// ValidateExportHistory checks the fields of an ExportHistory struct.
func ValidateExportHistory(v *validator.Validator, export *ExportHistory) {
	v.Check(export.UserID > 0, "user_id", "must be a positive integer")
	v.Check(export.SpreadsheetID != "", "spreadsheet_id", "must be provided")
	v.Check(export.SheetName != "", "sheet_name", "must be provided")
	v.Check(v.Permitted(export.Status, ExportStatusPending, ExportStatusCompleted, ExportStatusFailed), "status", "must be pending, completed, or failed")
}

// Insert adds a new export history record to the database.
func (m *ExportHistoryModel) Insert(export *ExportHistory) error {
	query := `
		INSERT INTO export_history (user_id, spreadsheet_id, sheet_name, row_count, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.QueryRowContext(
		ctx,
		query,
		export.UserID,
		export.SpreadsheetID,
		export.SheetName,
		export.RowCount,
		export.Status,
		export.ErrorMessage,
	).Scan(&export.ID, &export.CreatedAt)
}

// Update modifies an existing export history record.
func (m *ExportHistoryModel) Update(export *ExportHistory) error {
	query := `
		UPDATE export_history
		SET status = $1, error_message = $2, row_count = $3
		WHERE id = $4
		RETURNING created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.QueryRowContext(
		ctx,
		query,
		export.Status,
		export.ErrorMessage,
		export.RowCount,
		export.ID,
	).Scan(&export.CreatedAt)
}

// Get retrieves an export history record by its ID.
func (m *ExportHistoryModel) Get(id int64) (*ExportHistory, error) {
	query := `
		SELECT id, user_id, spreadsheet_id, sheet_name, row_count, status, error_message, created_at
		FROM export_history
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	export := &ExportHistory{}

	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&export.ID,
		&export.UserID,
		&export.SpreadsheetID,
		&export.SheetName,
		&export.RowCount,
		&export.Status,
		&export.ErrorMessage,
		&export.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return export, nil
}

// GetAll retrieves export history records based on filtering criteria and pagination.
func (m *ExportHistoryModel) GetAll(filter ExportFilter) ([]*ExportHistory, MetaData, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) OVER(), id, user_id, spreadsheet_id, sheet_name, row_count, status, error_message, created_at
		FROM export_history
		WHERE (user_id = $1 OR $1 = 0)
		  AND (status = $2 OR $2 = '')
		ORDER BY %s %s, id DESC
		LIMIT $3 OFFSET $4
	`, filter.Filter.SortColumn(), filter.Filter.SortDirection())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := m.DB.QueryContext(
		ctx,
		query,
		filter.UserID,
		filter.Status,
		filter.Filter.Limit(),
		filter.Filter.Offset(),
	)
	if err != nil {
		return nil, MetaData{}, err
	}
	defer rows.Close()

	exports := []*ExportHistory{}
	totalRecords := int64(0)

	for rows.Next() {
		export := &ExportHistory{}
		if err := rows.Scan(
			&totalRecords,
			&export.ID,
			&export.UserID,
			&export.SpreadsheetID,
			&export.SheetName,
			&export.RowCount,
			&export.Status,
			&export.ErrorMessage,
			&export.CreatedAt,
		); err != nil {
			return nil, MetaData{}, err
		}
		exports = append(exports, export)
	}

	if err := rows.Err(); err != nil {
		return nil, MetaData{}, err
	}

	metadata := CalculateMetaData(totalRecords, filter.Filter.Page, filter.Filter.PageSize)

	return exports, metadata, nil
}
