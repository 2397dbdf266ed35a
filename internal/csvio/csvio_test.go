package csvio

import (
	"strings"
	"testing"
)

func TestParseDrugs(t *testing.T) {
	input := strings.Join([]string{
		"BatchNumber,DrugName,Manufacturer,Composition,ProductionDate,CurrentStatus",
		"BATCH-001,Paracetamol 500mg,Cipla Ltd,Paracetamol IP,2024-01-15,manufactured",
		",Ibuprofen 200mg,Sun Pharma,,2024-02-01,",
		"BATCH-003,,Cipla Ltd,,2024-01-15,",
		"BATCH-004,Aspirin,Bayer,,not-a-date,",
	}, "\n")

	records, rowErrors, err := ParseDrugs(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseDrugs: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].BatchNumber != "BATCH-001" || records[0].DrugName != "Paracetamol 500mg" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].BatchNumber != "" {
		t.Errorf("expected empty batch number to survive for later generation, got %q", records[1].BatchNumber)
	}

	// One row missing a drug name, one with an invalid date.
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %d: %v", len(rowErrors), rowErrors)
	}
	if !strings.Contains(rowErrors[0], "row 4") {
		t.Errorf("expected error for row 4, got %q", rowErrors[0])
	}
	if !strings.Contains(rowErrors[1], "row 5") {
		t.Errorf("expected error for row 5, got %q", rowErrors[1])
	}
}

func TestParseDrugsMissingHeader(t *testing.T) {
	input := "batchNumber,composition\nBATCH-001,something"

	records, _, err := ParseDrugs(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
	if !strings.Contains(err.Error(), "drugname") {
		t.Errorf("expected missing column named in error, got %q", err.Error())
	}
}

func TestParseTransfers(t *testing.T) {
	input := strings.Join([]string{
		"batchNumber,fromEntity,toEntity,transferDate,location",
		"BATCH-001,Cipla Ltd,MedLife,2024-02-01,Mumbai Warehouse",
		"BATCH-002,,MedLife,2024-02-01,Mumbai Warehouse",
	}, "\n")

	records, rowErrors, err := ParseTransfers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTransfers: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ToEntity != "MedLife" {
		t.Errorf("unexpected record: %+v", records[0])
	}
	if len(rowErrors) != 1 {
		t.Fatalf("expected 1 row error, got %v", rowErrors)
	}
}

func TestParseSales(t *testing.T) {
	input := strings.Join([]string{
		"batchNumber,pharmacy,saleDate,price,location",
		"BATCH-001,Apollo Pharmacy,2024-03-10,45.50,Bengaluru",
		"BATCH-002,Apollo Pharmacy,2024-03-10,free,Bengaluru",
		"BATCH-003,Apollo Pharmacy,2024-03-10,-5,Bengaluru",
	}, "\n")

	records, rowErrors, err := ParseSales(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSales: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Price != 45.50 {
		t.Errorf("expected price 45.50, got %v", records[0].Price)
	}
	if len(rowErrors) != 2 {
		t.Fatalf("expected 2 row errors, got %v", rowErrors)
	}
}

func TestParseEmptyFile(t *testing.T) {
	_, _, err := ParseDrugs(strings.NewReader(""))
	if err == nil {
		t.Error("expected error for empty file")
	}
}

func TestTemplates(t *testing.T) {
	for _, kind := range []string{"drugs", "transfers", "sales"} {
		tmpl, err := Template(kind)
		if err != nil {
			t.Fatalf("Template(%s): %v", kind, err)
		}
		lines := strings.Split(strings.TrimSpace(tmpl), "\n")
		if len(lines) != 2 {
			t.Errorf("expected header plus sample row for %s, got %d lines", kind, len(lines))
		}
	}

	if _, err := Template("users"); err == nil {
		t.Error("expected error for unknown template kind")
	}
}
