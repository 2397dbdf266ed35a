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

// CreateOrderInput holds the caller-supplied fields for a new order.
type CreateOrderInput struct {
	CustomerName         string     `json:"customer_name"`
	CustomerEmail        string     `json:"customer_email"`
	Pharmacy             string     `json:"pharmacy"`
	BatchNumber          string     `json:"batch_number"`
	DrugName             string     `json:"drug_name"`
	Quantity             int        `json:"quantity"`
	TotalPrice           float64    `json:"total_price"`
	Notes                string     `json:"notes"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// CreateOrder inserts a pending order with a generated order and tracking
// number.
func CreateOrder(ctx context.Context, db *sql.DB, in CreateOrderInput) (*model.Order, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	orderNumber := "ORD-" + strings.ToUpper(uuid.NewString()[:8])
	trackingNumber := fmt.Sprintf("TRK-%s-%d", strings.ToUpper(uuid.NewString()[:6]), time.Now().Year())

	result, err := db.ExecContext(ctx,
		`INSERT INTO orders (order_number, customer_name, customer_email, pharmacy,
		                     batch_number, drug_name, quantity, total_price, status,
		                     tracking_number, notes, expected_delivery_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderNumber, in.CustomerName, in.CustomerEmail, in.Pharmacy,
		in.BatchNumber, in.DrugName, in.Quantity, in.TotalPrice, model.OrderPending,
		trackingNumber, in.Notes, in.ExpectedDeliveryDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}
	return getOrderByID(ctx, db, id)
}

const orderColumns = `id, order_number, customer_name, customer_email, pharmacy,
	batch_number, drug_name, quantity, total_price, status, tracking_number,
	notes, order_date, expected_delivery_date, actual_delivery_date`

func getOrderByID(ctx context.Context, db *sql.DB, id int64) (*model.Order, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id,
	)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return o, nil
}

// GetOrder returns an order by its order number, or nil if unknown.
func GetOrder(ctx context.Context, db *sql.DB, orderNumber string) (*model.Order, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, orderNumber,
	)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return o, nil
}

// ListOrders returns orders newest first, optionally filtered by customer
// email or pharmacy name.
func ListOrders(ctx context.Context, db *sql.DB, customerEmail, pharmacy string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	var args []any

	if customerEmail != "" {
		query += ` AND customer_email = ?`
		args = append(args, customerEmail)
	}
	if pharmacy != "" {
		query += ` AND pharmacy = ?`
		args = append(args, pharmacy)
	}
	query += ` ORDER BY order_date DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus advances an order's status. Marking an order delivered
// records the actual delivery date.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, orderNumber, status, notes string) (*model.Order, error) {
	order, err := GetOrder(ctx, db, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order not found: %s", orderNumber)
	}

	var actualDelivery *time.Time
	if status == model.OrderDelivered {
		now := time.Now()
		actualDelivery = &now
	} else {
		actualDelivery = order.ActualDeliveryDate
	}
	if notes == "" {
		notes = order.Notes
	}

	_, err = db.ExecContext(ctx,
		`UPDATE orders SET status = ?, notes = ?, actual_delivery_date = ? WHERE order_number = ?`,
		status, notes, actualDelivery, orderNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	return GetOrder(ctx, db, orderNumber)
}

func scanOrder(row rowScanner) (*model.Order, error) {
	o := &model.Order{}
	var customerEmail, trackingNumber, notes sql.NullString
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &customerEmail, &o.Pharmacy,
		&o.BatchNumber, &o.DrugName, &o.Quantity, &o.TotalPrice, &o.Status, &trackingNumber,
		&notes, &o.OrderDate, &o.ExpectedDeliveryDate, &o.ActualDeliveryDate)
	if err != nil {
		return nil, err
	}
	o.CustomerEmail = customerEmail.String
	o.TrackingNumber = trackingNumber.String
	o.Notes = notes.String
	return o, nil
}
