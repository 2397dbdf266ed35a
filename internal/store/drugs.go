package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmatrack/chaintrackr/internal/model"
)

// ErrBatchNotFound is returned by lifecycle operations that reference a
// batch number with no matching drug record.
var ErrBatchNotFound = errors.New("batch not found")

// GenerateBatchNumber produces a new unique batch number.
func GenerateBatchNumber() string {
	return "BATCH-" + strings.ToUpper(uuid.NewString()[:8])
}

// CreateDrugInput holds the caller-supplied fields for a new drug record.
// Derived fields (status, expiry flags, history) are computed on insert.
type CreateDrugInput struct {
	BatchNumber    string    `json:"batch_number"`
	Name           string    `json:"name"`
	Manufacturer   string    `json:"manufacturer"`
	Composition    string    `json:"composition"`
	ProductionDate time.Time `json:"production_date"`
	ExpiryDate     time.Time `json:"expiry_date"`
	Price          float64   `json:"price"`
}

// CreateDrug inserts a drug record and its synthetic manufactured event in
// a single transaction. A batch already expired at creation time is stored
// as expired and blacklisted immediately.
func CreateDrug(ctx context.Context, db *sql.DB, in CreateDrugInput) (*model.Drug, error) {
	if in.BatchNumber == "" {
		in.BatchNumber = GenerateBatchNumber()
	}

	now := time.Now()
	isExpired := in.ExpiryDate.Before(now)
	status := model.StatusManufactured
	if isExpired {
		status = model.StatusExpired
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO drugs (batch_number, name, manufacturer, composition,
		                    production_date, expiry_date, price, status,
		                    is_expired, is_blacklisted)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.BatchNumber, in.Name, in.Manufacturer, in.Composition,
		in.ProductionDate, in.ExpiryDate, in.Price, status,
		isExpired, isExpired,
	)
	if err != nil {
		return nil, fmt.Errorf("creating drug: %w", err)
	}

	drugID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting drug id: %w", err)
	}

	// Synthetic manufactured event, timestamped at the production date.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO drug_events (drug_id, type, event_time, entity, location)
		 VALUES (?, ?, ?, ?, ?)`,
		drugID, model.EventManufactured, in.ProductionDate, in.Manufacturer, "Manufacturing Facility",
	)
	if err != nil {
		return nil, fmt.Errorf("recording manufactured event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing drug creation: %w", err)
	}

	return GetDrugByBatch(ctx, db, in.BatchNumber)
}

// TransferDrug appends a transferred event and marks the batch distributed.
// The declared from entity is not checked against the current holder.
func TransferDrug(ctx context.Context, db *sql.DB, in model.TransferInput) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	drugID, err := drugIDByBatch(ctx, tx, in.BatchNumber)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drug_events (drug_id, type, event_time, from_entity, to_entity, location)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		drugID, model.EventTransferred, in.TransferDate, in.FromEntity, in.ToEntity, in.Location,
	)
	if err != nil {
		return fmt.Errorf("recording transfer event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE drugs SET status = ? WHERE id = ?`,
		model.StatusDistributed, drugID,
	)
	if err != nil {
		return fmt.Errorf("updating drug status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}
	return nil
}

// SellDrug appends a sold event and marks the batch sold. Prior status is
// not checked.
func SellDrug(ctx context.Context, db *sql.DB, in model.SaleInput) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	drugID, err := drugIDByBatch(ctx, tx, in.BatchNumber)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO drug_events (drug_id, type, event_time, entity, location, price)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		drugID, model.EventSold, in.SaleDate, in.Pharmacy, in.Location, in.Price,
	)
	if err != nil {
		return fmt.Errorf("recording sale event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE drugs SET status = ? WHERE id = ?`,
		model.StatusSold, drugID,
	)
	if err != nil {
		return fmt.Errorf("updating drug status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sale: %w", err)
	}
	return nil
}

// drugIDByBatch resolves a batch number inside a transaction.
func drugIDByBatch(ctx context.Context, tx *sql.Tx, batchNumber string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM drugs WHERE batch_number = ?`, batchNumber,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: %s", ErrBatchNotFound, batchNumber)
	}
	if err != nil {
		return 0, fmt.Errorf("resolving batch number: %w", err)
	}
	return id, nil
}

const drugColumns = `id, batch_number, name, manufacturer, composition,
	production_date, expiry_date, price, discounted_price, status,
	is_expired, is_blacklisted, qr_generated, qr_payload, created_at`

// GetDrugByBatch returns a drug with its full event history, or nil if the
// batch number is unknown.
func GetDrugByBatch(ctx context.Context, db *sql.DB, batchNumber string) (*model.Drug, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+drugColumns+` FROM drugs WHERE batch_number = ?`, batchNumber,
	)
	drug, err := scanDrug(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting drug: %w", err)
	}

	history, err := GetDrugEvents(ctx, db, drug.ID)
	if err != nil {
		return nil, err
	}
	drug.History = history
	return drug, nil
}

// GetDrugEvents returns a drug's lifecycle events in insertion order.
func GetDrugEvents(ctx context.Context, db *sql.DB, drugID int64) ([]model.DrugEvent, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, drug_id, type, event_time, entity, location, from_entity, to_entity, price, recorded_at
		 FROM drug_events WHERE drug_id = ? ORDER BY id`, drugID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting drug events: %w", err)
	}
	defer rows.Close()

	var events []model.DrugEvent
	for rows.Next() {
		var e model.DrugEvent
		var entity, location, fromEntity, toEntity sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.DrugID, &e.Type, &e.EventTime,
			&entity, &location, &fromEntity, &toEntity, &price, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning drug event: %w", err)
		}
		e.Entity = entity.String
		e.Location = location.String
		e.FromEntity = fromEntity.String
		e.ToEntity = toEntity.String
		if price.Valid {
			e.Price = &price.Float64
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListDrugs returns all drugs (without event history), optionally filtered
// by status.
func ListDrugs(ctx context.Context, db *sql.DB, status string) ([]model.Drug, error) {
	var rows *sql.Rows
	var err error

	if status != "" {
		rows, err = db.QueryContext(ctx,
			`SELECT `+drugColumns+` FROM drugs WHERE status = ? ORDER BY created_at DESC, id DESC`, status,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT `+drugColumns+` FROM drugs ORDER BY created_at DESC, id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing drugs: %w", err)
	}
	defer rows.Close()

	return scanDrugs(rows)
}

// SearchDrugs returns drugs whose batch number, name, or manufacturer
// contains the term (case-insensitive).
func SearchDrugs(ctx context.Context, db *sql.DB, term string) ([]model.Drug, error) {
	pattern := "%" + term + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT `+drugColumns+` FROM drugs
		 WHERE batch_number LIKE ? OR name LIKE ? OR manufacturer LIKE ?
		 ORDER BY created_at DESC, id DESC`,
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("searching drugs: %w", err)
	}
	defer rows.Close()

	return scanDrugs(rows)
}

// DiscountedPrice computes the shelf-life discount tier for a batch. A
// batch expiring within 30 days sells at half price, within 60 days at
// 30% off, within 90 days at 15% off; an expired batch is not for sale.
func DiscountedPrice(price float64, expiryDate, now time.Time) float64 {
	daysUntilExpiry := int(math.Ceil(expiryDate.Sub(now).Hours() / 24))

	switch {
	case daysUntilExpiry <= 0:
		return 0
	case daysUntilExpiry <= 30:
		return math.Round(price * 0.5)
	case daysUntilExpiry <= 60:
		return math.Round(price * 0.7)
	case daysUntilExpiry <= 90:
		return math.Round(price * 0.85)
	}
	return price
}

// UpdateExpiryStatus sweeps all drugs: newly expired batches are flagged,
// blacklisted, and marked expired; every other batch gets its discounted
// price recomputed against the current clock.
func UpdateExpiryStatus(ctx context.Context, db *sql.DB) error {
	now := time.Now()

	rows, err := db.QueryContext(ctx,
		`SELECT id, price, expiry_date, is_expired FROM drugs`,
	)
	if err != nil {
		return fmt.Errorf("listing drugs for expiry sweep: %w", err)
	}

	type sweep struct {
		id         int64
		price      float64
		expiryDate time.Time
		isExpired  bool
	}
	var drugs []sweep
	for rows.Next() {
		var s sweep
		if err := rows.Scan(&s.id, &s.price, &s.expiryDate, &s.isExpired); err != nil {
			rows.Close()
			return fmt.Errorf("scanning drug for expiry sweep: %w", err)
		}
		drugs = append(drugs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading drugs for expiry sweep: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, d := range drugs {
		if d.expiryDate.Before(now) && !d.isExpired {
			_, err = tx.ExecContext(ctx,
				`UPDATE drugs SET is_expired = 1, is_blacklisted = 1, status = ?, discounted_price = 0
				 WHERE id = ?`,
				model.StatusExpired, d.id,
			)
		} else if !d.isExpired {
			_, err = tx.ExecContext(ctx,
				`UPDATE drugs SET discounted_price = ? WHERE id = ?`,
				DiscountedPrice(d.price, d.expiryDate, now), d.id,
			)
		}
		if err != nil {
			return fmt.Errorf("updating expiry status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing expiry sweep: %w", err)
	}
	return nil
}

// IssueQR marks a batch's tracking code as generated and stores the
// payload. A batch can only ever be issued one tracking code.
func IssueQR(ctx context.Context, db *sql.DB, batchNumber, payload string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var generated bool
	err = tx.QueryRowContext(ctx,
		`SELECT qr_generated FROM drugs WHERE batch_number = ?`, batchNumber,
	).Scan(&generated)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", ErrBatchNotFound, batchNumber)
	}
	if err != nil {
		return fmt.Errorf("checking tracking code state: %w", err)
	}
	if generated {
		return fmt.Errorf("tracking code already generated for batch %s", batchNumber)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE drugs SET qr_generated = 1, qr_payload = ? WHERE batch_number = ?`,
		payload, batchNumber,
	)
	if err != nil {
		return fmt.Errorf("storing tracking code: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tracking code: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDrug(row rowScanner) (*model.Drug, error) {
	d := &model.Drug{}
	var composition, qrPayload sql.NullString
	var discounted sql.NullFloat64
	err := row.Scan(&d.ID, &d.BatchNumber, &d.Name, &d.Manufacturer, &composition,
		&d.ProductionDate, &d.ExpiryDate, &d.Price, &discounted, &d.Status,
		&d.IsExpired, &d.IsBlacklisted, &d.QRGenerated, &qrPayload, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.Composition = composition.String
	d.QRPayload = qrPayload.String
	if discounted.Valid {
		d.DiscountedPrice = &discounted.Float64
	}
	return d, nil
}

func scanDrugs(rows *sql.Rows) ([]model.Drug, error) {
	var drugs []model.Drug
	for rows.Next() {
		d, err := scanDrug(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning drug: %w", err)
		}
		drugs = append(drugs, *d)
	}
	return drugs, rows.Err()
}
