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

// CreateProductionRequestInput holds the caller-supplied fields for a new
// production request.
type CreateProductionRequestInput struct {
	Distributor       string `json:"distributor"`
	DrugName          string `json:"drug_name"`
	RequestedQuantity int    `json:"requested_quantity"`
	Notes             string `json:"notes"`
}

// CreateProductionRequest files a pending manufacturing request.
func CreateProductionRequest(ctx context.Context, db *sql.DB, in CreateProductionRequestInput) (*model.ProductionRequest, error) {
	if in.RequestedQuantity <= 0 {
		return nil, fmt.Errorf("requested quantity must be positive")
	}

	requestNumber := "PR-" + strings.ToUpper(uuid.NewString()[:8])

	result, err := db.ExecContext(ctx,
		`INSERT INTO production_requests (request_number, distributor, drug_name,
		                                  requested_quantity, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		requestNumber, in.Distributor, in.DrugName, in.RequestedQuantity,
		model.ProductionPending, in.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating production request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting production request id: %w", err)
	}
	return getProductionRequestByID(ctx, db, id)
}

const productionColumns = `id, request_number, distributor, drug_name, requested_quantity,
	status, notes, requested_at, expected_completion_date, actual_completion_date`

func getProductionRequestByID(ctx context.Context, db *sql.DB, id int64) (*model.ProductionRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productionColumns+` FROM production_requests WHERE id = ?`, id,
	)
	pr, err := scanProductionRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting production request: %w", err)
	}
	return pr, nil
}

// GetProductionRequest returns a production request by request number, or
// nil.
func GetProductionRequest(ctx context.Context, db *sql.DB, requestNumber string) (*model.ProductionRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+productionColumns+` FROM production_requests WHERE request_number = ?`, requestNumber,
	)
	pr, err := scanProductionRequest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting production request: %w", err)
	}
	return pr, nil
}

// ListProductionRequests returns requests newest first, optionally
// filtered by distributor.
func ListProductionRequests(ctx context.Context, db *sql.DB, distributor string) ([]model.ProductionRequest, error) {
	query := `SELECT ` + productionColumns + ` FROM production_requests`
	var args []any

	if distributor != "" {
		query += ` WHERE distributor = ?`
		args = append(args, distributor)
	}
	query += ` ORDER BY requested_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing production requests: %w", err)
	}
	defer rows.Close()

	var requests []model.ProductionRequest
	for rows.Next() {
		pr, err := scanProductionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning production request: %w", err)
		}
		requests = append(requests, *pr)
	}
	return requests, rows.Err()
}

// UpdateProductionRequestStatus advances a request's status. Completion
// records the actual completion date; an expected date may be set along
// the way.
func UpdateProductionRequestStatus(ctx context.Context, db *sql.DB, requestNumber, status string, expected *time.Time) (*model.ProductionRequest, error) {
	pr, err := GetProductionRequest(ctx, db, requestNumber)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("production request not found: %s", requestNumber)
	}

	if expected == nil {
		expected = pr.ExpectedCompletionDate
	}
	actual := pr.ActualCompletionDate
	if status == model.ProductionCompleted {
		now := time.Now()
		actual = &now
	}

	_, err = db.ExecContext(ctx,
		`UPDATE production_requests SET status = ?, expected_completion_date = ?, actual_completion_date = ?
		 WHERE request_number = ?`,
		status, expected, actual, requestNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("updating production request: %w", err)
	}
	return GetProductionRequest(ctx, db, requestNumber)
}

func scanProductionRequest(row rowScanner) (*model.ProductionRequest, error) {
	pr := &model.ProductionRequest{}
	var notes sql.NullString
	err := row.Scan(&pr.ID, &pr.RequestNumber, &pr.Distributor, &pr.DrugName, &pr.RequestedQuantity,
		&pr.Status, &notes, &pr.RequestedAt, &pr.ExpectedCompletionDate, &pr.ActualCompletionDate)
	if err != nil {
		return nil, err
	}
	pr.Notes = notes.String
	return pr, nil
}
