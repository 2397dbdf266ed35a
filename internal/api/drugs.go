package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/qr"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// DrugsHandler handles drug lifecycle endpoints.
type DrugsHandler struct {
	DB *sql.DB
}

// List handles GET /api/drugs.
func (h *DrugsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	drugs, err := store.ListDrugs(r.Context(), h.DB, status)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list drugs")
		return
	}
	if drugs == nil {
		drugs = []model.Drug{}
	}
	jsonResponse(w, http.StatusOK, drugs)
}

// Search handles GET /api/drugs/search.
func (h *DrugsHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		jsonError(w, http.StatusBadRequest, "search term required")
		return
	}

	drugs, err := store.SearchDrugs(r.Context(), h.DB, term)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to search drugs")
		return
	}
	if drugs == nil {
		drugs = []model.Drug{}
	}
	jsonResponse(w, http.StatusOK, drugs)
}

// Create handles POST /api/drugs.
func (h *DrugsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req store.CreateDrugInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Manufacturer == "" {
		jsonError(w, http.StatusBadRequest, "name and manufacturer required")
		return
	}
	if req.ProductionDate.IsZero() || req.ExpiryDate.IsZero() {
		jsonError(w, http.StatusBadRequest, "production and expiry dates required")
		return
	}
	if req.Price < 0 {
		jsonError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}

	if req.BatchNumber != "" {
		existing, err := store.GetDrugByBatch(r.Context(), h.DB, req.BatchNumber)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusConflict, "batch number already exists")
			return
		}
	}

	drug, err := store.CreateDrug(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create drug")
		return
	}

	slog.Info("drug created", "batch", drug.BatchNumber, "name", drug.Name)
	jsonResponse(w, http.StatusCreated, drug)
}

// Get handles GET /api/drugs/{batch}.
func (h *DrugsHandler) Get(w http.ResponseWriter, r *http.Request) {
	drug, err := store.GetDrugByBatch(r.Context(), h.DB, r.PathValue("batch"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get drug")
		return
	}
	if drug == nil {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}
	jsonResponse(w, http.StatusOK, drug)
}

// History handles GET /api/drugs/{batch}/history.
func (h *DrugsHandler) History(w http.ResponseWriter, r *http.Request) {
	drug, err := store.GetDrugByBatch(r.Context(), h.DB, r.PathValue("batch"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get drug")
		return
	}
	if drug == nil {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}

	history := drug.History
	if history == nil {
		history = []model.DrugEvent{}
	}
	jsonResponse(w, http.StatusOK, history)
}

// Transfer handles POST /api/drugs/transfer.
func (h *DrugsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req model.TransferInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BatchNumber == "" || req.FromEntity == "" || req.ToEntity == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "batch number, entities, and location required")
		return
	}

	if err := store.TransferDrug(r.Context(), h.DB, req); err != nil {
		if errors.Is(err, store.ErrBatchNotFound) {
			jsonError(w, http.StatusNotFound, "batch not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to record transfer")
		return
	}

	drug, _ := store.GetDrugByBatch(r.Context(), h.DB, req.BatchNumber)
	slog.Info("drug transferred", "batch", req.BatchNumber, "from", req.FromEntity, "to", req.ToEntity)
	jsonResponse(w, http.StatusOK, drug)
}

// Sell handles POST /api/drugs/sell.
func (h *DrugsHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req model.SaleInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BatchNumber == "" || req.Pharmacy == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "batch number, pharmacy, and location required")
		return
	}
	if req.Price < 0 {
		jsonError(w, http.StatusBadRequest, "price must be non-negative")
		return
	}

	if err := store.SellDrug(r.Context(), h.DB, req); err != nil {
		if errors.Is(err, store.ErrBatchNotFound) {
			jsonError(w, http.StatusNotFound, "batch not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to record sale")
		return
	}

	drug, _ := store.GetDrugByBatch(r.Context(), h.DB, req.BatchNumber)
	slog.Info("drug sold", "batch", req.BatchNumber, "pharmacy", req.Pharmacy, "price", req.Price)
	jsonResponse(w, http.StatusOK, drug)
}

// RefreshExpiry handles POST /api/drugs/refresh-expiry, sweeping expiry
// flags and discounted prices against the current clock.
func (h *DrugsHandler) RefreshExpiry(w http.ResponseWriter, r *http.Request) {
	if err := store.UpdateExpiryStatus(r.Context(), h.DB); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to refresh expiry status")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "expiry status refreshed"})
}

// GenerateQR handles POST /api/drugs/{batch}/qr. A batch can only ever be
// issued one tracking code.
func (h *DrugsHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	batch := r.PathValue("batch")
	drug, err := store.GetDrugByBatch(r.Context(), h.DB, batch)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if drug == nil {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}
	if drug.QRGenerated {
		jsonError(w, http.StatusConflict, "tracking code already generated for this batch")
		return
	}

	data := qr.NewTrackingData(drug.BatchNumber, drug.Name, drug.Manufacturer, drug.ProductionDate)
	payload, err := data.Encode()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to encode tracking data")
		return
	}

	if err := store.IssueQR(r.Context(), h.DB, batch, payload); err != nil {
		jsonError(w, http.StatusConflict, "tracking code already generated for this batch")
		return
	}

	slog.Info("tracking code generated", "batch", batch)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"batch_number": batch,
		"payload":      payload,
		"tracking":     data,
	})
}

// QRImage handles GET /api/drugs/{batch}/qr.png. The printable format
// renders a larger label with a quiet zone.
func (h *DrugsHandler) QRImage(w http.ResponseWriter, r *http.Request) {
	drug, err := store.GetDrugByBatch(r.Context(), h.DB, r.PathValue("batch"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if drug == nil {
		jsonError(w, http.StatusNotFound, "batch not found")
		return
	}
	if !drug.QRGenerated || drug.QRPayload == "" {
		jsonError(w, http.StatusNotFound, "no tracking code generated for this batch")
		return
	}

	var buf []byte
	if r.URL.Query().Get("format") == "printable" {
		buf, err = qr.RenderPrintablePNG(drug.QRPayload)
	} else {
		buf, err = qr.RenderPNG(drug.QRPayload)
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to render tracking code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(buf)
}

type verifyRequest struct {
	Payload string `json:"payload"`
}

type verifyResponse struct {
	Verified bool        `json:"verified"`
	Reason   string      `json:"reason,omitempty"`
	Drug     *model.Drug `json:"drug,omitempty"`
}

// Verify handles POST /api/qr/verify. Every scan attempt is recorded in
// the history, including failed ones.
func (h *DrugsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := qr.Parse(req.Payload)
	if data == nil {
		_ = store.RecordScan(r.Context(), h.DB, "", "", "", false)
		jsonResponse(w, http.StatusOK, verifyResponse{Verified: false, Reason: "malformed payload"})
		return
	}

	if !data.Verify() {
		_ = store.RecordScan(r.Context(), h.DB, data.BatchNumber, data.DrugName, data.Manufacturer, false)
		jsonResponse(w, http.StatusOK, verifyResponse{Verified: false, Reason: "security hash mismatch"})
		return
	}

	drug, err := store.GetDrugByBatch(r.Context(), h.DB, data.BatchNumber)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if drug == nil {
		_ = store.RecordScan(r.Context(), h.DB, data.BatchNumber, data.DrugName, data.Manufacturer, false)
		jsonResponse(w, http.StatusOK, verifyResponse{Verified: false, Reason: "batch not found"})
		return
	}

	_ = store.RecordScan(r.Context(), h.DB, data.BatchNumber, data.DrugName, data.Manufacturer, true)
	slog.Info("tracking code verified", "batch", data.BatchNumber)
	jsonResponse(w, http.StatusOK, verifyResponse{Verified: true, Drug: drug})
}

// Scans handles GET /api/qr/scans.
func (h *DrugsHandler) Scans(w http.ResponseWriter, r *http.Request) {
	scans, err := store.ListScans(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}
	if scans == nil {
		scans = []store.QRScan{}
	}
	jsonResponse(w, http.StatusOK, scans)
}

// ClearScans handles DELETE /api/qr/scans.
func (h *DrugsHandler) ClearScans(w http.ResponseWriter, r *http.Request) {
	if err := store.ClearScans(r.Context(), h.DB); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to clear scans")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "scan history cleared"})
}
