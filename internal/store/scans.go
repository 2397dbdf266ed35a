package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// scanHistoryLimit caps the retained scan history.
const scanHistoryLimit = 50

// QRScan is one entry of the verification scan history.
type QRScan struct {
	ID           int64     `json:"id"`
	BatchNumber  string    `json:"batch_number"`
	DrugName     string    `json:"drug_name"`
	Manufacturer string    `json:"manufacturer"`
	Verified     bool      `json:"verified"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// RecordScan appends a scan to the history and prunes entries beyond the
// newest 50.
func RecordScan(ctx context.Context, db *sql.DB, batchNumber, drugName, manufacturer string, verified bool) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO qr_scans (batch_number, drug_name, manufacturer, verified)
		 VALUES (?, ?, ?, ?)`,
		batchNumber, drugName, manufacturer, verified,
	)
	if err != nil {
		return fmt.Errorf("recording scan: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`DELETE FROM qr_scans WHERE id NOT IN
		     (SELECT id FROM qr_scans ORDER BY id DESC LIMIT ?)`,
		scanHistoryLimit,
	)
	if err != nil {
		return fmt.Errorf("pruning scan history: %w", err)
	}
	return nil
}

// ListScans returns the scan history, newest first.
func ListScans(ctx context.Context, db *sql.DB) ([]QRScan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, batch_number, drug_name, manufacturer, verified, scanned_at
		 FROM qr_scans ORDER BY id DESC LIMIT ?`, scanHistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var scans []QRScan
	for rows.Next() {
		var s QRScan
		if err := rows.Scan(&s.ID, &s.BatchNumber, &s.DrugName, &s.Manufacturer, &s.Verified, &s.ScannedAt); err != nil {
			return nil, fmt.Errorf("scanning scan entry: %w", err)
		}
		scans = append(scans, s)
	}
	return scans, rows.Err()
}

// ClearScans wipes the scan history.
func ClearScans(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM qr_scans`); err != nil {
		return fmt.Errorf("clearing scan history: %w", err)
	}
	return nil
}
