package model

import "time"

// Drug represents one manufactured batch, keyed by its batch number.
type Drug struct {
	ID              int64       `json:"id"`
	BatchNumber     string      `json:"batch_number"`
	Name            string      `json:"name"`
	Manufacturer    string      `json:"manufacturer"`
	Composition     string      `json:"composition,omitempty"`
	ProductionDate  time.Time   `json:"production_date"`
	ExpiryDate      time.Time   `json:"expiry_date"`
	Price           float64     `json:"price"`
	DiscountedPrice *float64    `json:"discounted_price,omitempty"`
	Status          string      `json:"status"`
	IsExpired       bool        `json:"is_expired"`
	IsBlacklisted   bool        `json:"is_blacklisted"`
	QRGenerated     bool        `json:"qr_generated"`
	QRPayload       string      `json:"qr_payload,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	History         []DrugEvent `json:"history,omitempty"`
}

// Drug statuses. Status is a projection of the event history and the
// expiry date, not an independently settable field.
const (
	StatusManufactured = "manufactured"
	StatusDistributed  = "distributed"
	StatusSold         = "sold"
	StatusExpired      = "expired"
)

// DrugEvent is an immutable lifecycle fact appended to a drug's history.
// Only the fields relevant to the event type are populated: manufactured
// carries entity+location, transferred carries from/to+location, sold
// carries entity+location+price. Events are ordered by insertion, not by
// their declared event time.
type DrugEvent struct {
	ID         int64     `json:"id"`
	DrugID     int64     `json:"drug_id"`
	Type       string    `json:"type"`
	EventTime  time.Time `json:"event_time"`
	Entity     string    `json:"entity,omitempty"`
	Location   string    `json:"location,omitempty"`
	FromEntity string    `json:"from_entity,omitempty"`
	ToEntity   string    `json:"to_entity,omitempty"`
	Price      *float64  `json:"price,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Event types.
const (
	EventManufactured = "manufactured"
	EventTransferred  = "transferred"
	EventSold         = "sold"
)

// TransferInput describes a custody movement between supply chain entities.
type TransferInput struct {
	BatchNumber  string    `json:"batch_number"`
	FromEntity   string    `json:"from_entity"`
	ToEntity     string    `json:"to_entity"`
	TransferDate time.Time `json:"transfer_date"`
	Location     string    `json:"location"`
}

// SaleInput describes a pharmacy sale of a batch.
type SaleInput struct {
	BatchNumber string    `json:"batch_number"`
	Pharmacy    string    `json:"pharmacy"`
	SaleDate    time.Time `json:"sale_date"`
	Price       float64   `json:"price"`
	Location    string    `json:"location"`
}
