package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// CreateDeliveryInput holds the caller-supplied fields for a new delivery.
type CreateDeliveryInput struct {
	OrderNumber   string    `json:"order_number"`
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	BatchNumber   string    `json:"batch_number"`
	DrugName      string    `json:"drug_name"`
	Quantity      int       `json:"quantity"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Notes         string    `json:"notes"`
}

// CreateDelivery schedules a delivery with a generated tracking number.
func CreateDelivery(ctx context.Context, db *sql.DB, in CreateDeliveryInput) (*model.Delivery, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	trackingNumber := fmt.Sprintf("TRK-%s-%d", strings.ToUpper(uuid.NewString()[:6]), time.Now().Year())

	result, err := db.ExecContext(ctx,
		`INSERT INTO deliveries (order_number, from_location, to_location, batch_number,
		                         drug_name, quantity, status, tracking_number, notes, scheduled_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.OrderNumber, in.FromLocation, in.ToLocation, in.BatchNumber,
		in.DrugName, in.Quantity, model.DeliveryScheduled, trackingNumber, in.Notes, in.ScheduledDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating delivery: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting delivery id: %w", err)
	}
	return GetDelivery(ctx, db, id)
}

const deliveryColumns = `id, order_number, from_location, to_location, batch_number,
	drug_name, quantity, status, tracking_number, notes, scheduled_date, actual_date`

// GetDelivery returns a delivery by ID, or nil.
func GetDelivery(ctx context.Context, db *sql.DB, id int64) (*model.Delivery, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`, id,
	)
	d, err := scanDelivery(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting delivery: %w", err)
	}
	return d, nil
}

// ListDeliveries returns all deliveries, newest scheduled first.
func ListDeliveries(ctx context.Context, db *sql.DB) ([]model.Delivery, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries ORDER BY scheduled_date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []model.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning delivery: %w", err)
		}
		deliveries = append(deliveries, *d)
	}
	return deliveries, rows.Err()
}

// UpdateDeliveryStatus advances a delivery's status. Marking a delivery
// delivered records the actual date.
func UpdateDeliveryStatus(ctx context.Context, db *sql.DB, id int64, status string) (*model.Delivery, error) {
	delivery, err := GetDelivery(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("delivery not found")
	}

	actualDate := delivery.ActualDate
	if status == model.DeliveryDelivered {
		now := time.Now()
		actualDate = &now
	}

	_, err = db.ExecContext(ctx,
		`UPDATE deliveries SET status = ?, actual_date = ? WHERE id = ?`,
		status, actualDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating delivery status: %w", err)
	}
	return GetDelivery(ctx, db, id)
}

func scanDelivery(row rowScanner) (*model.Delivery, error) {
	d := &model.Delivery{}
	var notes sql.NullString
	err := row.Scan(&d.ID, &d.OrderNumber, &d.FromLocation, &d.ToLocation, &d.BatchNumber,
		&d.DrugName, &d.Quantity, &d.Status, &d.TrackingNumber, &notes, &d.ScheduledDate, &d.ActualDate)
	if err != nil {
		return nil, err
	}
	d.Notes = notes.String
	return d, nil
}
