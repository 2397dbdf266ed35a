package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/db"
	"github.com/pharmatrack/chaintrackr/internal/model"
)

func TestProductionRequestFlow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	pr, err := CreateProductionRequest(ctx, database, CreateProductionRequestInput{
		Distributor:       "MedLife Distributors",
		DrugName:          "Paracetamol 500mg",
		RequestedQuantity: 5000,
		Notes:             "restock north region",
	})
	if err != nil {
		t.Fatalf("CreateProductionRequest: %v", err)
	}

	if !strings.HasPrefix(pr.RequestNumber, "PR-") {
		t.Errorf("expected PR- prefix, got %q", pr.RequestNumber)
	}
	if pr.Status != model.ProductionPending {
		t.Errorf("expected pending status, got %q", pr.Status)
	}

	expected := time.Now().AddDate(0, 1, 0)
	updated, err := UpdateProductionRequestStatus(ctx, database, pr.RequestNumber, model.ProductionApproved, &expected)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != model.ProductionApproved {
		t.Errorf("expected approved status, got %q", updated.Status)
	}
	if updated.ExpectedCompletionDate == nil {
		t.Error("expected completion date recorded")
	}
	if updated.ActualCompletionDate != nil {
		t.Error("actual completion must not be set before completion")
	}

	updated, err = UpdateProductionRequestStatus(ctx, database, pr.RequestNumber, model.ProductionCompleted, nil)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ActualCompletionDate == nil {
		t.Error("completed request must record actual completion date")
	}
	if updated.ExpectedCompletionDate == nil {
		t.Error("expected completion date must be preserved")
	}
}

func TestListProductionRequestsFilter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, in := range []CreateProductionRequestInput{
		{Distributor: "MedLife Distributors", DrugName: "A", RequestedQuantity: 100},
		{Distributor: "HealthPlus", DrugName: "B", RequestedQuantity: 200},
	} {
		if _, err := CreateProductionRequest(ctx, database, in); err != nil {
			t.Fatal(err)
		}
	}

	filtered, err := ListProductionRequests(ctx, database, "HealthPlus")
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].DrugName != "B" {
		t.Errorf("unexpected filter result: %+v", filtered)
	}
}

func TestQualityChecks(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateQualityCheck(ctx, database, model.QualityCheck{
		BatchNumber: "BATCH-001", Manufacturer: "Cipla Ltd", CheckDate: time.Now(),
		QualityScore: 150, Passed: true, InspectorName: "QA Bot",
	})
	if err == nil {
		t.Error("expected error for out of range score")
	}

	check, err := CreateQualityCheck(ctx, database, model.QualityCheck{
		BatchNumber: "BATCH-001", Manufacturer: "Cipla Ltd", CheckDate: time.Now(),
		QualityScore: 92, Passed: true, InspectorName: "R. Desai",
	})
	if err != nil {
		t.Fatalf("CreateQualityCheck: %v", err)
	}
	if check.ID == 0 {
		t.Error("expected assigned id")
	}

	checks, err := ListQualityChecks(ctx, database, "BATCH-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != 1 || checks[0].InspectorName != "R. Desai" {
		t.Errorf("unexpected checks: %+v", checks)
	}

	none, err := ListQualityChecks(ctx, database, "BATCH-OTHER")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no checks for other batch, got %d", len(none))
	}
}
