package model

import "time"

// Inventory represents stock of a batch held at a supply chain location.
// Available quantity is derived, never stored.
type Inventory struct {
	ID               int64     `json:"id"`
	BatchNumber      string    `json:"batch_number"`
	DrugName         string    `json:"drug_name"`
	Location         string    `json:"location"`
	LocationName     string    `json:"location_name"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	UnitPrice        float64   `json:"unit_price"`
	LastUpdated      time.Time `json:"last_updated"`
}

// AvailableQuantity returns the quantity not reserved for orders.
func (i Inventory) AvailableQuantity() int {
	return i.Quantity - i.ReservedQuantity
}

// Inventory location types.
const (
	LocationManufacturer = "manufacturer"
	LocationDistributor  = "distributor"
	LocationPharmacy     = "pharmacy"
)

// ValidLocation reports whether s is a known inventory location type.
func ValidLocation(s string) bool {
	switch s {
	case LocationManufacturer, LocationDistributor, LocationPharmacy:
		return true
	}
	return false
}
