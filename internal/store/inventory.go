package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// UpsertInventory creates or replaces the stock row for a batch at a
// location.
func UpsertInventory(ctx context.Context, db *sql.DB, inv model.Inventory) (*model.Inventory, error) {
	if !model.ValidLocation(inv.Location) {
		return nil, fmt.Errorf("invalid location: %s", inv.Location)
	}
	if inv.Quantity < 0 || inv.ReservedQuantity < 0 {
		return nil, fmt.Errorf("quantities must be non-negative")
	}
	if inv.ReservedQuantity > inv.Quantity {
		return nil, fmt.Errorf("reserved quantity exceeds stock: %d > %d", inv.ReservedQuantity, inv.Quantity)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO inventory (batch_number, drug_name, location, location_name,
		                        quantity, reserved_quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (batch_number, location, location_name) DO UPDATE SET
		     drug_name = excluded.drug_name,
		     quantity = excluded.quantity,
		     reserved_quantity = excluded.reserved_quantity,
		     unit_price = excluded.unit_price,
		     last_updated = CURRENT_TIMESTAMP`,
		inv.BatchNumber, inv.DrugName, inv.Location, inv.LocationName,
		inv.Quantity, inv.ReservedQuantity, inv.UnitPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting inventory: %w", err)
	}

	return GetInventory(ctx, db, inv.BatchNumber, inv.Location, inv.LocationName)
}

const inventoryColumns = `id, batch_number, drug_name, location, location_name,
	quantity, reserved_quantity, unit_price, last_updated`

// GetInventory returns the stock row for a batch at a location, or nil.
func GetInventory(ctx context.Context, db *sql.DB, batchNumber, location, locationName string) (*model.Inventory, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory
		 WHERE batch_number = ? AND location = ? AND location_name = ?`,
		batchNumber, location, locationName,
	)
	inv := &model.Inventory{}
	err := row.Scan(&inv.ID, &inv.BatchNumber, &inv.DrugName, &inv.Location, &inv.LocationName,
		&inv.Quantity, &inv.ReservedQuantity, &inv.UnitPrice, &inv.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting inventory: %w", err)
	}
	return inv, nil
}

// ListInventory returns all stock rows, optionally filtered by location
// type.
func ListInventory(ctx context.Context, db *sql.DB, location string) ([]model.Inventory, error) {
	var rows *sql.Rows
	var err error

	if location != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+inventoryColumns+` FROM inventory WHERE location = ?
			 ORDER BY drug_name, location_name`, location,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+inventoryColumns+` FROM inventory ORDER BY drug_name, location_name`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing inventory: %w", err)
	}
	defer rows.Close()

	return scanInventory(rows)
}

// SearchInventory returns stock rows whose drug name, batch number, or
// location name contains the term (case-insensitive).
func SearchInventory(ctx context.Context, db *sql.DB, term string) ([]model.Inventory, error) {
	pattern := "%" + term + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+inventoryColumns+` FROM inventory
		 WHERE drug_name LIKE ? OR batch_number LIKE ? OR location_name LIKE ?
		 ORDER BY drug_name, location_name`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching inventory: %w", err)
	}
	defer rows.Close()

	return scanInventory(rows)
}

// AdjustInventory sets the quantity and reservation of an existing stock
// row, bumping its update time.
func AdjustInventory(ctx context.Context, db *sql.DB, id int64, quantity, reserved int) error {
	if quantity < 0 || reserved < 0 {
		return fmt.Errorf("quantities must be non-negative")
	}
	if reserved > quantity {
		return fmt.Errorf("reserved quantity exceeds stock: %d > %d", reserved, quantity)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE inventory SET quantity = ?, reserved_quantity = ?, last_updated = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		quantity, reserved, id,
	)
	if err != nil {
		return fmt.Errorf("adjusting inventory: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory entry not found")
	}
	return nil
}

func scanInventory(rows *sql.Rows) ([]model.Inventory, error) {
	var items []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := rows.Scan(&inv.ID, &inv.BatchNumber, &inv.DrugName, &inv.Location, &inv.LocationName,
			&inv.Quantity, &inv.ReservedQuantity, &inv.UnitPrice, &inv.LastUpdated); err != nil {
			return nil, fmt.Errorf("scanning inventory: %w", err)
		}
		items = append(items, inv)
	}
	return items, rows.Err()
}
