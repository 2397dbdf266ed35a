package model

import "time"

// Order represents a customer order placed with a pharmacy. Linked to a
// drug only by its batch number string; no referential integrity is
// enforced beyond that.
type Order struct {
	ID                   int64      `json:"id"`
	OrderNumber          string     `json:"order_number"`
	CustomerName         string     `json:"customer_name"`
	CustomerEmail        string     `json:"customer_email,omitempty"`
	Pharmacy             string     `json:"pharmacy"`
	BatchNumber          string     `json:"batch_number"`
	DrugName             string     `json:"drug_name"`
	Quantity             int        `json:"quantity"`
	TotalPrice           float64    `json:"total_price"`
	Status               string     `json:"status"`
	TrackingNumber       string     `json:"tracking_number,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	OrderDate            time.Time  `json:"order_date"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actual_delivery_date,omitempty"`
}

// Order statuses.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Delivery represents a logistics leg for an order.
type Delivery struct {
	ID             int64      `json:"id"`
	OrderNumber    string     `json:"order_number"`
	FromLocation   string     `json:"from_location"`
	ToLocation     string     `json:"to_location"`
	BatchNumber    string     `json:"batch_number"`
	DrugName       string     `json:"drug_name"`
	Quantity       int        `json:"quantity"`
	Status         string     `json:"status"`
	TrackingNumber string     `json:"tracking_number"`
	Notes          string     `json:"notes,omitempty"`
	ScheduledDate  time.Time  `json:"scheduled_date"`
	ActualDate     *time.Time `json:"actual_date,omitempty"`
}

// Delivery statuses.
const (
	DeliveryScheduled = "scheduled"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryCancelled = "cancelled"
)

// ValidDeliveryStatus reports whether s is a known delivery status.
func ValidDeliveryStatus(s string) bool {
	switch s {
	case DeliveryScheduled, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}
