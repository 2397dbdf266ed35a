package store

import (
	"context"
	"strings"
	"testing"

	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestOrderFlow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	order, err := CreateOrder(ctx, database, CreateOrderInput{
		CustomerName:  "Ananya Iyer",
		CustomerEmail: "ananya@example.com",
		Pharmacy:      "Apollo Pharmacy",
		BatchNumber:   "BATCH-TEST01",
		DrugName:      "Paracetamol 500mg",
		Quantity:      2,
		TotalPrice:    91,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if !strings.HasPrefix(order.OrderNumber, "ORD-") {
		t.Errorf("expected ORD- prefix, got %q", order.OrderNumber)
	}
	if !strings.HasPrefix(order.TrackingNumber, "TRK-") {
		t.Errorf("expected TRK- prefix, got %q", order.TrackingNumber)
	}
	if order.Status != model.OrderPending {
		t.Errorf("expected pending status, got %q", order.Status)
	}

	updated, err := UpdateOrderStatus(ctx, database, order.OrderNumber, model.OrderShipped, "left warehouse")
	if err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}
	if updated.Status != model.OrderShipped || updated.Notes != "left warehouse" {
		t.Errorf("unexpected order after update: %+v", updated)
	}
	if updated.ActualDeliveryDate != nil {
		t.Error("actual delivery date must not be set before delivery")
	}

	// Empty notes keep the previous value.
	updated, err = UpdateOrderStatus(ctx, database, order.OrderNumber, model.OrderDelivered, "")
	if err != nil {
		t.Fatal(err)
	}
	if updated.ActualDeliveryDate == nil {
		t.Error("delivered order must record actual delivery date")
	}
	if updated.Notes != "left warehouse" {
		t.Errorf("expected notes preserved, got %q", updated.Notes)
	}
}

func TestCreateOrderInvalidQuantity(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := CreateOrder(context.Background(), database, CreateOrderInput{
		CustomerName: "X", Pharmacy: "Y", BatchNumber: "B", DrugName: "D", Quantity: 0,
	})
	if err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestListOrdersFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	inputs := []CreateOrderInput{
		{CustomerName: "A", CustomerEmail: "a@example.com", Pharmacy: "Apollo Pharmacy",
			BatchNumber: "B1", DrugName: "D1", Quantity: 1},
		{CustomerName: "B", CustomerEmail: "b@example.com", Pharmacy: "Apollo Pharmacy",
			BatchNumber: "B2", DrugName: "D2", Quantity: 1},
		{CustomerName: "A", CustomerEmail: "a@example.com", Pharmacy: "City Pharmacy",
			BatchNumber: "B3", DrugName: "D3", Quantity: 1},
	}
	for _, in := range inputs {
		if _, err := CreateOrder(ctx, database, in); err != nil {
			t.Fatal(err)
		}
	}

	byCustomer, err := ListOrders(ctx, database, "a@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(byCustomer) != 2 {
		t.Errorf("expected 2 orders for customer, got %d", len(byCustomer))
	}

	byPharmacy, err := ListOrders(ctx, database, "", "Apollo Pharmacy")
	if err != nil {
		t.Fatal(err)
	}
	if len(byPharmacy) != 2 {
		t.Errorf("expected 2 orders for pharmacy, got %d", len(byPharmacy))
	}

	both, err := ListOrders(ctx, database, "a@example.com", "Apollo Pharmacy")
	if err != nil {
		t.Fatal(err)
	}
	if len(both) != 1 {
		t.Errorf("expected 1 order for combined filter, got %d", len(both))
	}
}
