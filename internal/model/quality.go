package model

import "time"

// QualityCheck records a QA inspection of a batch.
type QualityCheck struct {
	ID            int64     `json:"id"`
	BatchNumber   string    `json:"batch_number"`
	Manufacturer  string    `json:"manufacturer"`
	CheckDate     time.Time `json:"check_date"`
	QualityScore  int       `json:"quality_score"`
	Passed        bool      `json:"passed"`
	InspectorName string    `json:"inspector_name"`
	Notes         string    `json:"notes,omitempty"`
}

// ProductionRequest is a distributor's request for a manufacturing run.
type ProductionRequest struct {
	ID                     int64      `json:"id"`
	RequestNumber          string     `json:"request_number"`
	Distributor            string     `json:"distributor"`
	DrugName               string     `json:"drug_name"`
	RequestedQuantity      int        `json:"requested_quantity"`
	Status                 string     `json:"status"`
	Notes                  string     `json:"notes,omitempty"`
	RequestedAt            time.Time  `json:"requested_at"`
	ExpectedCompletionDate *time.Time `json:"expected_completion_date,omitempty"`
	ActualCompletionDate   *time.Time `json:"actual_completion_date,omitempty"`
}

// Production request statuses.
const (
	ProductionPending      = "pending"
	ProductionApproved     = "approved"
	ProductionInProduction = "in_production"
	ProductionCompleted    = "completed"
	ProductionCancelled    = "cancelled"
)

// ValidProductionStatus reports whether s is a known production request status.
func ValidProductionStatus(s string) bool {
	switch s {
	case ProductionPending, ProductionApproved, ProductionInProduction, ProductionCompleted, ProductionCancelled:
		return true
	}
	return false
}
