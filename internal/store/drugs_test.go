package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestDrugLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	now := time.Now()
	drug, err := CreateDrug(ctx, database, CreateDrugInput{
		BatchNumber:    "BATCH-TEST01",
		Name:           "Paracetamol 500mg",
		Manufacturer:   "Cipla Ltd",
		Composition:    "Paracetamol IP 500mg",
		ProductionDate: now.AddDate(0, -1, 0),
		ExpiryDate:     now.AddDate(2, 0, 0),
		Price:          100,
	})
	if err != nil {
		t.Fatalf("CreateDrug: %v", err)
	}

	if drug.Status != model.StatusManufactured {
		t.Errorf("expected status manufactured, got %q", drug.Status)
	}
	if drug.IsExpired || drug.IsBlacklisted {
		t.Error("fresh batch must not be expired or blacklisted")
	}
	if len(drug.History) != 1 {
		t.Fatalf("expected 1 event after creation, got %d", len(drug.History))
	}
	if drug.History[0].Type != model.EventManufactured {
		t.Errorf("expected manufactured event, got %q", drug.History[0].Type)
	}
	if drug.History[0].Entity != "Cipla Ltd" {
		t.Errorf("expected manufacturer as event entity, got %q", drug.History[0].Entity)
	}
	if drug.History[0].Location != "Manufacturing Facility" {
		t.Errorf("unexpected manufactured event location: %q", drug.History[0].Location)
	}

	err = TransferDrug(ctx, database, model.TransferInput{
		BatchNumber:  "BATCH-TEST01",
		FromEntity:   "Cipla Ltd",
		ToEntity:     "MedLife Distributors",
		TransferDate: now,
		Location:     "Warehouse A",
	})
	if err != nil {
		t.Fatalf("TransferDrug: %v", err)
	}

	drug, err = GetDrugByBatch(ctx, database, "BATCH-TEST01")
	if err != nil {
		t.Fatal(err)
	}
	if drug.Status != model.StatusDistributed {
		t.Errorf("expected status distributed after transfer, got %q", drug.Status)
	}
	if len(drug.History) != 2 {
		t.Fatalf("expected 2 events after transfer, got %d", len(drug.History))
	}
	if drug.History[1].Type != model.EventTransferred {
		t.Errorf("expected transferred event, got %q", drug.History[1].Type)
	}
	if drug.History[1].FromEntity != "Cipla Ltd" || drug.History[1].ToEntity != "MedLife Distributors" {
		t.Errorf("unexpected transfer entities: %+v", drug.History[1])
	}

	err = SellDrug(ctx, database, model.SaleInput{
		BatchNumber: "BATCH-TEST01",
		Pharmacy:    "City Pharmacy",
		SaleDate:    now,
		Price:       90,
		Location:    "Bengaluru",
	})
	if err != nil {
		t.Fatalf("SellDrug: %v", err)
	}

	drug, err = GetDrugByBatch(ctx, database, "BATCH-TEST01")
	if err != nil {
		t.Fatal(err)
	}
	if drug.Status != model.StatusSold {
		t.Errorf("expected status sold, got %q", drug.Status)
	}
	if len(drug.History) != 3 {
		t.Fatalf("expected 3 events after sale, got %d", len(drug.History))
	}
	last := drug.History[2]
	if last.Type != model.EventSold {
		t.Errorf("expected sold event last, got %q", last.Type)
	}
	if last.Entity != "City Pharmacy" {
		t.Errorf("expected pharmacy as sold event entity, got %q", last.Entity)
	}
	if last.Price == nil || *last.Price != 90 {
		t.Errorf("expected sold price 90, got %v", last.Price)
	}
}

func TestCreateDrugAlreadyExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	drug, err := CreateDrug(ctx, database, CreateDrugInput{
		Name:           "Old Stock",
		Manufacturer:   "Sun Pharma",
		ProductionDate: time.Now().AddDate(-3, 0, 0),
		ExpiryDate:     time.Now().AddDate(-1, 0, 0),
		Price:          50,
	})
	if err != nil {
		t.Fatalf("CreateDrug: %v", err)
	}

	if drug.Status != model.StatusExpired {
		t.Errorf("expected status expired, got %q", drug.Status)
	}
	if !drug.IsExpired || !drug.IsBlacklisted {
		t.Error("expired batch must be flagged and blacklisted at creation")
	}
}

func TestTransferUnknownBatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := TransferDrug(ctx, database, model.TransferInput{
		BatchNumber:  "BATCH-NOPE",
		FromEntity:   "A",
		ToEntity:     "B",
		TransferDate: time.Now(),
		Location:     "Somewhere",
	})
	if !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}

	err = SellDrug(ctx, database, model.SaleInput{
		BatchNumber: "BATCH-NOPE",
		Pharmacy:    "P",
		SaleDate:    time.Now(),
		Price:       1,
		Location:    "L",
	})
	if !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound for sale, got %v", err)
	}
}

func TestGenerateBatchNumber(t *testing.T) {
	bn := GenerateBatchNumber()
	if !strings.HasPrefix(bn, "BATCH-") {
		t.Errorf("expected BATCH- prefix, got %q", bn)
	}
	if len(bn) != len("BATCH-")+8 {
		t.Errorf("expected 8 character suffix, got %q", bn)
	}
	if bn != strings.ToUpper(bn) {
		t.Errorf("expected uppercase batch number, got %q", bn)
	}
	if bn == GenerateBatchNumber() {
		t.Error("expected unique batch numbers")
	}
}

func TestDiscountedPrice(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name   string
		price  float64
		expiry time.Time
		want   float64
	}{
		{"expired", 100, now.Add(-1 * day), 0},
		{"expires today", 100, now, 0},
		{"within 30 days", 100, now.Add(15 * day), 50},
		{"exactly 30 days", 100, now.Add(30 * day), 50},
		{"within 60 days", 100, now.Add(45 * day), 70},
		{"within 90 days", 100, now.Add(75 * day), 85},
		{"beyond 90 days", 100, now.Add(120 * day), 100},
		{"rounding", 99, now.Add(15 * day), 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DiscountedPrice(tc.price, tc.expiry, now)
			if got != tc.want {
				t.Errorf("DiscountedPrice(%v, %v) = %v, want %v", tc.price, tc.expiry, got, tc.want)
			}
		})
	}
}

func TestUpdateExpiryStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	fresh, err := CreateDrug(ctx, database, CreateDrugInput{
		Name:           "Fresh",
		Manufacturer:   "Cipla Ltd",
		ProductionDate: time.Now().AddDate(0, -1, 0),
		ExpiryDate:     time.Now().AddDate(0, 0, 20),
		Price:          100,
	})
	if err != nil {
		t.Fatal(err)
	}

	stale, err := CreateDrug(ctx, database, CreateDrugInput{
		Name:           "Stale",
		Manufacturer:   "Cipla Ltd",
		ProductionDate: time.Now().AddDate(-1, 0, 0),
		ExpiryDate:     time.Now().AddDate(0, 6, 0),
		Price:          80,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Push the second batch past its shelf life behind the store's back.
	_, err = database.ExecContext(ctx,
		`UPDATE drugs SET expiry_date = ? WHERE batch_number = ?`,
		time.Now().AddDate(0, 0, -1), stale.BatchNumber,
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := UpdateExpiryStatus(ctx, database); err != nil {
		t.Fatalf("UpdateExpiryStatus: %v", err)
	}

	got, err := GetDrugByBatch(ctx, database, stale.BatchNumber)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusExpired || !got.IsExpired || !got.IsBlacklisted {
		t.Errorf("expected stale batch expired and blacklisted, got %+v", got)
	}
	if got.DiscountedPrice == nil || *got.DiscountedPrice != 0 {
		t.Errorf("expected discounted price 0 for expired batch, got %v", got.DiscountedPrice)
	}

	got, err = GetDrugByBatch(ctx, database, fresh.BatchNumber)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsExpired {
		t.Error("fresh batch must not be expired")
	}
	// 20 days out falls in the half price tier.
	if got.DiscountedPrice == nil || *got.DiscountedPrice != 50 {
		t.Errorf("expected discounted price 50, got %v", got.DiscountedPrice)
	}
}

func TestIssueQROneShot(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	drug, err := CreateDrug(ctx, database, CreateDrugInput{
		Name:           "Paracetamol 500mg",
		Manufacturer:   "Cipla Ltd",
		ProductionDate: time.Now().AddDate(0, -1, 0),
		ExpiryDate:     time.Now().AddDate(2, 0, 0),
		Price:          45,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := IssueQR(ctx, database, drug.BatchNumber, `{"batchNumber":"x"}`); err != nil {
		t.Fatalf("first IssueQR: %v", err)
	}

	if err := IssueQR(ctx, database, drug.BatchNumber, `{"batchNumber":"y"}`); err == nil {
		t.Error("expected error on second IssueQR for same batch")
	}

	if err := IssueQR(ctx, database, "BATCH-NOPE", "{}"); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("expected ErrBatchNotFound, got %v", err)
	}

	got, err := GetDrugByBatch(ctx, database, drug.BatchNumber)
	if err != nil {
		t.Fatal(err)
	}
	if !got.QRGenerated || got.QRPayload != `{"batchNumber":"x"}` {
		t.Errorf("expected first payload to stick, got %+v", got)
	}
}

func TestListAndSearchDrugs(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	inputs := []CreateDrugInput{
		{Name: "Paracetamol 500mg", Manufacturer: "Cipla Ltd",
			ProductionDate: time.Now(), ExpiryDate: time.Now().AddDate(2, 0, 0), Price: 45},
		{Name: "Amoxicillin 250mg", Manufacturer: "Sun Pharma",
			ProductionDate: time.Now(), ExpiryDate: time.Now().AddDate(2, 0, 0), Price: 120},
		{Name: "Cetirizine 10mg", Manufacturer: "Cipla Ltd",
			ProductionDate: time.Now(), ExpiryDate: time.Now().AddDate(-1, 0, 0), Price: 30},
	}
	for _, in := range inputs {
		if _, err := CreateDrug(ctx, database, in); err != nil {
			t.Fatal(err)
		}
	}

	all, err := ListDrugs(ctx, database, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 drugs, got %d", len(all))
	}

	expired, err := ListDrugs(ctx, database, model.StatusExpired)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0].Name != "Cetirizine 10mg" {
		t.Errorf("unexpected expired filter result: %+v", expired)
	}

	byMaker, err := SearchDrugs(ctx, database, "cipla")
	if err != nil {
		t.Fatal(err)
	}
	if len(byMaker) != 2 {
		t.Errorf("expected 2 matches for manufacturer search, got %d", len(byMaker))
	}

	byName, err := SearchDrugs(ctx, database, "amox")
	if err != nil {
		t.Fatal(err)
	}
	if len(byName) != 1 {
		t.Errorf("expected 1 match for name search, got %d", len(byName))
	}

	none, err := SearchDrugs(ctx, database, "zzz")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %d", len(none))
	}
}
