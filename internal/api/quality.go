package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// QualityHandler handles QA check and production request endpoints.
type QualityHandler struct {
	DB *sql.DB
}

// ListChecks handles GET /api/quality-checks.
func (h *QualityHandler) ListChecks(w http.ResponseWriter, r *http.Request) {
	checks, err := store.ListQualityChecks(r.Context(), h.DB, r.URL.Query().Get("batch"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list quality checks")
		return
	}
	if checks == nil {
		checks = []model.QualityCheck{}
	}
	jsonResponse(w, http.StatusOK, checks)
}

// CreateCheck handles POST /api/quality-checks.
func (h *QualityHandler) CreateCheck(w http.ResponseWriter, r *http.Request) {
	var req model.QualityCheck
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BatchNumber == "" || req.InspectorName == "" {
		jsonError(w, http.StatusBadRequest, "batch number and inspector required")
		return
	}
	if req.CheckDate.IsZero() {
		req.CheckDate = time.Now()
	}

	check, err := store.CreateQualityCheck(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("quality check recorded", "batch", check.BatchNumber, "score", check.QualityScore, "passed", check.Passed)
	jsonResponse(w, http.StatusCreated, check)
}

// ListProductionRequests handles GET /api/production-requests.
func (h *QualityHandler) ListProductionRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := store.ListProductionRequests(r.Context(), h.DB, r.URL.Query().Get("distributor"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list production requests")
		return
	}
	if requests == nil {
		requests = []model.ProductionRequest{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// CreateProductionRequest handles POST /api/production-requests.
func (h *QualityHandler) CreateProductionRequest(w http.ResponseWriter, r *http.Request) {
	var req store.CreateProductionRequestInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Distributor == "" || req.DrugName == "" {
		jsonError(w, http.StatusBadRequest, "distributor and drug name required")
		return
	}

	pr, err := store.CreateProductionRequest(r.Context(), h.DB, req)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("production request filed", "request", pr.RequestNumber, "drug", pr.DrugName)
	jsonResponse(w, http.StatusCreated, pr)
}

type updateProductionStatusRequest struct {
	Status                 string     `json:"status"`
	ExpectedCompletionDate *time.Time `json:"expected_completion_date"`
}

// UpdateProductionStatus handles PUT /api/production-requests/{number}/status.
func (h *QualityHandler) UpdateProductionStatus(w http.ResponseWriter, r *http.Request) {
	var req updateProductionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidProductionStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid production status")
		return
	}

	number := r.PathValue("number")
	existing, err := store.GetProductionRequest(r.Context(), h.DB, number)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "production request not found")
		return
	}

	pr, err := store.UpdateProductionRequestStatus(r.Context(), h.DB, number, req.Status, req.ExpectedCompletionDate)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update production request")
		return
	}

	slog.Info("production request updated", "request", number, "status", req.Status)
	jsonResponse(w, http.StatusOK, pr)
}
