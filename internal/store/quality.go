package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// CreateQualityCheck records a QA inspection for a batch.
func CreateQualityCheck(ctx context.Context, db *sql.DB, qc model.QualityCheck) (*model.QualityCheck, error) {
	if qc.QualityScore < 0 || qc.QualityScore > 100 {
		return nil, fmt.Errorf("quality score must be between 0 and 100")
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO quality_checks (batch_number, manufacturer, check_date, quality_score,
		                             passed, inspector_name, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		qc.BatchNumber, qc.Manufacturer, qc.CheckDate, qc.QualityScore,
		qc.Passed, qc.InspectorName, qc.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating quality check: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting quality check id: %w", err)
	}
	qc.ID = id
	return &qc, nil
}

// ListQualityChecks returns quality checks, optionally filtered by batch
// number, newest first.
func ListQualityChecks(ctx context.Context, db *sql.DB, batchNumber string) ([]model.QualityCheck, error) {
	query := `SELECT id, batch_number, manufacturer, check_date, quality_score,
	                 passed, inspector_name, notes
	          FROM quality_checks`
	var args []any

	if batchNumber != "" {
		query += ` WHERE batch_number = ?`
		args = append(args, batchNumber)
	}
	query += ` ORDER BY check_date DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quality checks: %w", err)
	}
	defer rows.Close()

	var checks []model.QualityCheck
	for rows.Next() {
		var qc model.QualityCheck
		var notes sql.NullString
		if err := rows.Scan(&qc.ID, &qc.BatchNumber, &qc.Manufacturer, &qc.CheckDate,
			&qc.QualityScore, &qc.Passed, &qc.InspectorName, &notes); err != nil {
			return nil, fmt.Errorf("scanning quality check: %w", err)
		}
		qc.Notes = notes.String
		checks = append(checks, qc)
	}
	return checks, rows.Err()
}
