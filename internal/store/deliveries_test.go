package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestDeliveryFlow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	delivery, err := CreateDelivery(ctx, database, CreateDeliveryInput{
		OrderNumber:   "ORD-TEST0001",
		FromLocation:  "Mumbai Warehouse",
		ToLocation:    "Apollo Pharmacy",
		BatchNumber:   "BATCH-001",
		DrugName:      "Paracetamol 500mg",
		Quantity:      50,
		ScheduledDate: time.Now().AddDate(0, 0, 3),
	})
	if err != nil {
		t.Fatalf("CreateDelivery: %v", err)
	}

	if delivery.Status != model.DeliveryScheduled {
		t.Errorf("expected scheduled status, got %q", delivery.Status)
	}
	if !strings.HasPrefix(delivery.TrackingNumber, "TRK-") {
		t.Errorf("expected TRK- tracking number, got %q", delivery.TrackingNumber)
	}

	updated, err := UpdateDeliveryStatus(ctx, database, delivery.ID, model.DeliveryInTransit)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.DeliveryInTransit || updated.ActualDate != nil {
		t.Errorf("unexpected delivery after transit update: %+v", updated)
	}

	updated, err = UpdateDeliveryStatus(ctx, database, delivery.ID, model.DeliveryDelivered)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ActualDate == nil {
		t.Error("delivered delivery must record actual date")
	}
}

func TestCreateDeliveryInvalidQuantity(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateDelivery(context.Background(), database, CreateDeliveryInput{
		OrderNumber: "O", FromLocation: "A", ToLocation: "B", BatchNumber: "BN",
		DrugName: "D", Quantity: 0, ScheduledDate: time.Now(),
	})
	if err == nil {
		t.Error("expected error for zero quantity")
	}
}
