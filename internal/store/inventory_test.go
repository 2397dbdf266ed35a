package store

import (
	"context"
	"testing"

	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestInventoryUpsertAndAdjust(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	inv, err := UpsertInventory(ctx, database, model.Inventory{
		BatchNumber:  "BATCH-001",
		DrugName:     "Paracetamol 500mg",
		Location:     model.LocationDistributor,
		LocationName: "Mumbai Warehouse",
		Quantity:     100,
		UnitPrice:    40,
	})
	if err != nil {
		t.Fatalf("UpsertInventory: %v", err)
	}
	if inv.AvailableQuantity() != 100 {
		t.Errorf("expected 100 available, got %d", inv.AvailableQuantity())
	}

	// Upsert on the same key replaces quantities.
	inv, err = UpsertInventory(ctx, database, model.Inventory{
		BatchNumber:      "BATCH-001",
		DrugName:         "Paracetamol 500mg",
		Location:         model.LocationDistributor,
		LocationName:     "Mumbai Warehouse",
		Quantity:         80,
		ReservedQuantity: 30,
		UnitPrice:        40,
	})
	if err != nil {
		t.Fatal(err)
	}
	if inv.Quantity != 80 || inv.ReservedQuantity != 30 {
		t.Errorf("unexpected quantities after upsert: %+v", inv)
	}
	if inv.AvailableQuantity() != 50 {
		t.Errorf("expected 50 available, got %d", inv.AvailableQuantity())
	}

	all, err := ListInventory(ctx, database, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected single row after upsert, got %d", len(all))
	}

	if err := AdjustInventory(ctx, database, inv.ID, 60, 10); err != nil {
		t.Fatalf("AdjustInventory: %v", err)
	}
	got, err := GetInventory(ctx, database, "BATCH-001", model.LocationDistributor, "Mumbai Warehouse")
	if err != nil {
		t.Fatal(err)
	}
	if got.Quantity != 60 || got.ReservedQuantity != 10 {
		t.Errorf("unexpected quantities after adjust: %+v", got)
	}
	if !got.LastUpdated.After(inv.LastUpdated) && !got.LastUpdated.Equal(inv.LastUpdated) {
		t.Error("last_updated must not move backwards")
	}
}

func TestInventoryValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := UpsertInventory(ctx, database, model.Inventory{
		BatchNumber: "B", DrugName: "D", Location: "hospital", LocationName: "L", Quantity: 1,
	})
	if err == nil {
		t.Error("expected error for unknown location type")
	}

	_, err = UpsertInventory(ctx, database, model.Inventory{
		BatchNumber: "B", DrugName: "D", Location: model.LocationPharmacy, LocationName: "L",
		Quantity: 5, ReservedQuantity: 10,
	})
	if err == nil {
		t.Error("expected error for reservation exceeding stock")
	}

	if err := AdjustInventory(ctx, database, 999, 1, 0); err == nil {
		t.Error("expected error for unknown inventory id")
	}
}

func TestInventorySearchAndFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	rows := []model.Inventory{
		{BatchNumber: "BATCH-001", DrugName: "Paracetamol 500mg",
			Location: model.LocationDistributor, LocationName: "Mumbai Warehouse", Quantity: 10},
		{BatchNumber: "BATCH-002", DrugName: "Amoxicillin 250mg",
			Location: model.LocationPharmacy, LocationName: "Apollo Pharmacy", Quantity: 5},
	}
	for _, row := range rows {
		if _, err := UpsertInventory(ctx, database, row); err != nil {
			t.Fatal(err)
		}
	}

	pharmacyOnly, err := ListInventory(ctx, database, model.LocationPharmacy)
	if err != nil {
		t.Fatal(err)
	}
	if len(pharmacyOnly) != 1 || pharmacyOnly[0].BatchNumber != "BATCH-002" {
		t.Errorf("unexpected location filter result: %+v", pharmacyOnly)
	}

	found, err := SearchInventory(ctx, database, "mumbai")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].LocationName != "Mumbai Warehouse" {
		t.Errorf("unexpected search result: %+v", found)
	}
}
