// Package qr encodes and verifies the tracking payloads embedded in
// batch QR codes.
package qr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// hashSecret is mixed into every security hash so payloads cannot be
// forged from the visible fields alone.
const hashSecret = "CHAINTRACKR_SECRET"

// TrackingData is the wire payload embedded in a batch QR code.
type TrackingData struct {
	BatchNumber    string `json:"batchNumber"`
	DrugName       string `json:"drugName"`
	Manufacturer   string `json:"manufacturer"`
	ProductionDate string `json:"productionDate"`
	SecurityHash   string `json:"securityHash"`
	Timestamp      int64  `json:"timestamp"`
}

// SecurityHash computes the tamper check over the identity fields. The
// rolling hash runs in 32-bit arithmetic and the result is rendered in
// base 36.
func SecurityHash(batchNumber, drugName, manufacturer, productionDate string) string {
	input := fmt.Sprintf("%s|%s|%s|%s%s", batchNumber, drugName, manufacturer, productionDate, hashSecret)

	var h int32
	for _, c := range input {
		h = (h << 5) - h + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return strconv.FormatInt(int64(h), 36)
}

// NewTrackingData builds a payload for a batch, stamping it with the
// current time.
func NewTrackingData(batchNumber, drugName, manufacturer string, productionDate time.Time) TrackingData {
	prodDate := productionDate.UTC().Format(time.RFC3339)
	return TrackingData{
		BatchNumber:    batchNumber,
		DrugName:       drugName,
		Manufacturer:   manufacturer,
		ProductionDate: prodDate,
		SecurityHash:   SecurityHash(batchNumber, drugName, manufacturer, prodDate),
		Timestamp:      time.Now().UnixMilli(),
	}
}

// Encode renders the payload as the JSON string stored in the QR code.
func (d TrackingData) Encode() (string, error) {
	buf, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding tracking data: %w", err)
	}
	return string(buf), nil
}

// Parse decodes a scanned payload. Malformed input returns nil with no
// error so callers can treat it as an unverified scan.
func Parse(payload string) *TrackingData {
	var d TrackingData
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil
	}
	if d.BatchNumber == "" {
		return nil
	}
	return &d
}

// Verify recomputes the security hash and compares it against the one
// carried in the payload.
func (d TrackingData) Verify() bool {
	return d.SecurityHash == SecurityHash(d.BatchNumber, d.DrugName, d.Manufacturer, d.ProductionDate)
}
