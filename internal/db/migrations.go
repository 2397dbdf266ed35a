package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: index orders by customer email for the customer
	// order listing.
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_email
	     ON orders(customer_email)`,
	// Migration 2: index drugs by status for the expiry sweep and
	// status-filtered listings.
	`CREATE INDEX IF NOT EXISTS idx_drugs_status
	     ON drugs(status)`,
}

// Migrate runs the schema and all pending migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
