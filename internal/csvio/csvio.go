// Package csvio parses and generates the CSV formats used for bulk
// import of drugs, transfers, and sales.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DrugRecord is one parsed row of a drug import file.
type DrugRecord struct {
	BatchNumber    string
	DrugName       string
	Manufacturer   string
	Composition    string
	ProductionDate time.Time
	CurrentStatus  string
}

// TransferRecord is one parsed row of a transfer import file.
type TransferRecord struct {
	BatchNumber  string
	FromEntity   string
	ToEntity     string
	TransferDate time.Time
	Location     string
}

// SaleRecord is one parsed row of a sale import file.
type SaleRecord struct {
	BatchNumber string
	Pharmacy    string
	SaleDate    time.Time
	Price       float64
	Location    string
}

// header maps lowercased column names to their positions.
type header map[string]int

func readHeader(reader *csv.Reader, required []string) (header, error) {
	row, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(header, len(row))
	for i, name := range row {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// ParseDrugs reads a drug import file. Rows that fail validation are
// reported in rowErrors and skipped; a malformed header fails the whole
// file.
func ParseDrugs(r io.Reader) (records []DrugRecord, rowErrors []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cols, err := readHeader(reader, []string{"drugname", "manufacturer", "productiondate"})
	if err != nil {
		return nil, nil, err
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		rec := DrugRecord{
			BatchNumber:   cols.get(row, "batchnumber"),
			DrugName:      cols.get(row, "drugname"),
			Manufacturer:  cols.get(row, "manufacturer"),
			Composition:   cols.get(row, "composition"),
			CurrentStatus: cols.get(row, "currentstatus"),
		}
		if rec.DrugName == "" || rec.Manufacturer == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: drugName and manufacturer are required", line))
			continue
		}

		prodDate, err := parseDate(cols.get(row, "productiondate"))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rec.ProductionDate = prodDate

		records = append(records, rec)
	}
	return records, rowErrors, nil
}

// ParseTransfers reads a transfer import file.
func ParseTransfers(r io.Reader) (records []TransferRecord, rowErrors []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cols, err := readHeader(reader, []string{"batchnumber", "fromentity", "toentity", "transferdate", "location"})
	if err != nil {
		return nil, nil, err
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		rec := TransferRecord{
			BatchNumber: cols.get(row, "batchnumber"),
			FromEntity:  cols.get(row, "fromentity"),
			ToEntity:    cols.get(row, "toentity"),
			Location:    cols.get(row, "location"),
		}
		if rec.BatchNumber == "" || rec.FromEntity == "" || rec.ToEntity == "" || rec.Location == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: all transfer fields are required", line))
			continue
		}

		transferDate, err := parseDate(cols.get(row, "transferdate"))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rec.TransferDate = transferDate

		records = append(records, rec)
	}
	return records, rowErrors, nil
}

// ParseSales reads a sale import file.
func ParseSales(r io.Reader) (records []SaleRecord, rowErrors []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cols, err := readHeader(reader, []string{"batchnumber", "pharmacy", "saledate", "price", "location"})
	if err != nil {
		return nil, nil, err
	}

	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}

		rec := SaleRecord{
			BatchNumber: cols.get(row, "batchnumber"),
			Pharmacy:    cols.get(row, "pharmacy"),
			Location:    cols.get(row, "location"),
		}
		if rec.BatchNumber == "" || rec.Pharmacy == "" || rec.Location == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: batchNumber, pharmacy, and location are required", line))
			continue
		}

		saleDate, err := parseDate(cols.get(row, "saledate"))
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		rec.SaleDate = saleDate

		price, err := strconv.ParseFloat(cols.get(row, "price"), 64)
		if err != nil || price < 0 {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: invalid price %q", line, cols.get(row, "price")))
			continue
		}
		rec.Price = price

		records = append(records, rec)
	}
	return records, rowErrors, nil
}

// Template returns a downloadable CSV template with a sample row for the
// given import kind ("drugs", "transfers", or "sales").
func Template(kind string) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	var rows [][]string
	switch kind {
	case "drugs":
		rows = [][]string{
			{"batchNumber", "drugName", "manufacturer", "composition", "productionDate", "currentStatus"},
			{"BATCH-SAMPLE1", "Paracetamol 500mg", "Cipla Ltd", "Paracetamol IP 500mg", "2024-01-15", "manufactured"},
		}
	case "transfers":
		rows = [][]string{
			{"batchNumber", "fromEntity", "toEntity", "transferDate", "location"},
			{"BATCH-SAMPLE1", "Cipla Ltd", "MedLife Distributors", "2024-02-01", "Mumbai Warehouse"},
		}
	case "sales":
		rows = [][]string{
			{"batchNumber", "pharmacy", "saleDate", "price", "location"},
			{"BATCH-SAMPLE1", "Apollo Pharmacy", "2024-03-10", "45.50", "Bengaluru"},
		}
	default:
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}

	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("writing template: %w", err)
	}
	writer.Flush()
	return sb.String(), nil
}
