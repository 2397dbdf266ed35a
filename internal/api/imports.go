package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/pharmatrack/chaintrackr/internal/csvio"
	"github.com/pharmatrack/chaintrackr/internal/model"
	"github.com/pharmatrack/chaintrackr/internal/store"
)

// ImportsHandler handles bulk CSV import endpoints.
type ImportsHandler struct {
	DB *sql.DB
}

type importResponse struct {
	Processed int      `json:"processed"`
	Imported  int      `json:"imported"`
	Errors    []string `json:"errors"`
}

// maxImportSize caps import uploads at 10 MB.
const maxImportSize = 10 << 20

// ImportDrugs handles POST /api/import/drugs with a CSV request body.
func (h *ImportsHandler) ImportDrugs(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	records, rowErrors, err := csvio.ParseDrugs(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{Processed: len(records) + len(rowErrors), Errors: rowErrors}
	for _, rec := range records {
		if rec.BatchNumber != "" {
			existing, err := store.GetDrugByBatch(r.Context(), h.DB, rec.BatchNumber)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if existing != nil {
				resp.Errors = append(resp.Errors, "duplicate batch number: "+rec.BatchNumber)
				continue
			}
		}

		// Imported batches default to a two year shelf life from the
		// production date; the expiry sweep corrects flags afterwards.
		_, err := store.CreateDrug(r.Context(), h.DB, store.CreateDrugInput{
			BatchNumber:    rec.BatchNumber,
			Name:           rec.DrugName,
			Manufacturer:   rec.Manufacturer,
			Composition:    rec.Composition,
			ProductionDate: rec.ProductionDate,
			ExpiryDate:     rec.ProductionDate.AddDate(2, 0, 0),
		})
		if err != nil {
			resp.Errors = append(resp.Errors, "failed to import batch "+rec.BatchNumber)
			continue
		}
		resp.Imported++
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	slog.Info("drug import finished", "processed", resp.Processed, "imported", resp.Imported, "errors", len(resp.Errors))
	jsonResponse(w, http.StatusOK, resp)
}

// ImportTransfers handles POST /api/import/transfers with a CSV body.
func (h *ImportsHandler) ImportTransfers(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	records, rowErrors, err := csvio.ParseTransfers(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{Processed: len(records) + len(rowErrors), Errors: rowErrors}
	for _, rec := range records {
		err := store.TransferDrug(r.Context(), h.DB, model.TransferInput{
			BatchNumber:  rec.BatchNumber,
			FromEntity:   rec.FromEntity,
			ToEntity:     rec.ToEntity,
			TransferDate: rec.TransferDate,
			Location:     rec.Location,
		})
		if err != nil {
			resp.Errors = append(resp.Errors, "failed to import transfer for batch "+rec.BatchNumber)
			continue
		}
		resp.Imported++
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	slog.Info("transfer import finished", "processed", resp.Processed, "imported", resp.Imported, "errors", len(resp.Errors))
	jsonResponse(w, http.StatusOK, resp)
}

// ImportSales handles POST /api/import/sales with a CSV body.
func (h *ImportsHandler) ImportSales(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	records, rowErrors, err := csvio.ParseSales(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{Processed: len(records) + len(rowErrors), Errors: rowErrors}
	for _, rec := range records {
		err := store.SellDrug(r.Context(), h.DB, model.SaleInput{
			BatchNumber: rec.BatchNumber,
			Pharmacy:    rec.Pharmacy,
			SaleDate:    rec.SaleDate,
			Price:       rec.Price,
			Location:    rec.Location,
		})
		if err != nil {
			resp.Errors = append(resp.Errors, "failed to import sale for batch "+rec.BatchNumber)
			continue
		}
		resp.Imported++
	}
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	slog.Info("sale import finished", "processed", resp.Processed, "imported", resp.Imported, "errors", len(resp.Errors))
	jsonResponse(w, http.StatusOK, resp)
}

// Template handles GET /api/import/templates/{kind}.
func (h *ImportsHandler) Template(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	tmpl, err := csvio.Template(kind)
	if err != nil {
		jsonError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+kind+`_template.csv"`)
	w.Write([]byte(tmpl))
}
