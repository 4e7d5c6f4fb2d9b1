package handlers

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

// priceLogFilter reads since, until, offset and limit from the query string.
func priceLogFilter(r *http.Request) (repo.PriceLogFilter, []ValidationError) {
	q := r.URL.Query()
	offset, limit, errs := pagination(r)

	since, err := parseTimePtr(q.Get("since"))
	if err != nil {
		errs = append(errs, ValidationError{Field: "since", Description: "since must be an RFC3339 timestamp"})
	}
	until, err := parseTimePtr(q.Get("until"))
	if err != nil {
		errs = append(errs, ValidationError{Field: "until", Description: "until must be an RFC3339 timestamp"})
	}

	return repo.PriceLogFilter{Since: since, Until: until, Offset: offset, Limit: limit}, errs
}

// ownedProductID resolves the {id} parameter to a product of the current user.
func ownedProductID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return uuid.Nil, false
	}
	if _, ok := fetchProduct(w, r, userID, id); !ok {
		return uuid.Nil, false
	}
	return id, true
}

// GetPriceLogHandler godoc
// @Summary Get the price history of a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param since query string false "Filter prices from this timestamp (RFC3339)"
// @Param until query string false "Filter prices until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} PriceLogSearchResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id}/price-log [get]
// @Security CookieAuth
func GetPriceLogHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := ownedProductID(w, r)
	if !ok {
		return
	}

	filter, errs := priceLogFilter(r)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	logs, total, err := priceLogRepo.GetByProductID(r.Context(), id, filter)
	if err != nil {
		serverError(w, "retrieve price log of product "+id.String(), err)
		return
	}

	respond(w, http.StatusOK, PriceLogSearchResult{Data: logs, Meta: Meta{TotalCount: total}})
}

// ExportPriceLogHandler godoc
// @Summary Export the price history of a product
// @Tags products
// @Produce text/csv, application/json
// @Param id path string true "Product ID"
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id}/price-log/export [get]
// @Security CookieAuth
func ExportPriceLogHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		writeMessage(w, http.StatusBadRequest, "format must be 'csv' or 'json'")
		return
	}

	id, ok := ownedProductID(w, r)
	if !ok {
		return
	}

	filter, errs := priceLogFilter(r)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var all []models.PriceLog
	offset := 0
	for {
		filter.Offset, filter.Limit = &offset, nil
		page, total, err := priceLogRepo.GetByProductID(r.Context(), id, filter)
		if err != nil {
			serverError(w, "export price log of product "+id.String(), err)
			return
		}
		all = append(all, page...)
		offset += len(page)
		if len(page) == 0 || offset >= total {
			break
		}
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="price-log.json"`)
		if err := json.NewEncoder(w).Encode(all); err != nil {
			log.Printf("failed to write price log export: %v", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="price-log.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "brand_id", "price", "logged_at"})
		for _, pl := range all {
			brand := ""
			if pl.BrandID != nil {
				brand = pl.BrandID.String()
			}
			_ = csvWriter.Write([]string{
				pl.ID.String(),
				pl.ProductID.String(),
				brand,
				pl.Price.StringFixed(2),
				pl.LoggedAt.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
