package handlers_test_suite

import (
	"encoding/csv"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/shopspring/decimal"
)

func TestPriceLogHandlers(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)
	milk := f.product(r, "Milk", 1)

	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	for i, price := range []string{"1.10", "1.20", "1.30"} {
		_ = priceLogRepo.Log(t.Context(), models.PriceLog{
			ID:        uuid.New(),
			ProductID: milk,
			Price:     decimal.RequireFromString(price),
			LoggedAt:  base.Add(time.Duration(i) * 24 * time.Hour),
		})
	}

	tests := []struct {
		name          string
		query         string
		expectCode    int
		expectedCount int
		expectedTotal int
	}{
		{"All", "", http.StatusOK, 3, 3},
		{"Since", "?since=" + url.QueryEscape(base.Add(24*time.Hour).Format(time.RFC3339)), http.StatusOK, 2, 2},
		{"Since with unescaped offset", "?since=2025-07-02T14:00:00+02:00", http.StatusOK, 2, 2},
		{"Until", "?until=" + url.QueryEscape(base.Format(time.RFC3339)), http.StatusOK, 1, 1},
		{"Limit", "?limit=2", http.StatusOK, 2, 3},
		{"Invalid since", "?since=yesterday", http.StatusBadRequest, 0, 0},
		{"Invalid limit", "?limit=0", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authed(r, http.MethodGet, "/products/"+milk.String()+"/price-log"+tt.query, nil)
			if w.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if tt.expectCode != http.StatusOK {
				return
			}
			resp, _ := decode[handler.PriceLogSearchResult](w)
			if len(resp.Data) != tt.expectedCount || resp.Meta.TotalCount != tt.expectedTotal {
				t.Errorf("expected %d/%d, got %d/%d", tt.expectedCount, tt.expectedTotal, len(resp.Data), resp.Meta.TotalCount)
			}
		})
	}

	t.Run("Newest first", func(t *testing.T) {
		w := authed(r, http.MethodGet, "/products/"+milk.String()+"/price-log", nil)
		resp, _ := decode[handler.PriceLogSearchResult](w)
		if !resp.Data[0].Price.Equal(decimal.RequireFromString("1.30")) {
			t.Errorf("expected newest price first, got %s", resp.Data[0].Price)
		}
	})

	t.Run("Unknown product", func(t *testing.T) {
		if w := authed(r, http.MethodGet, "/products/"+uuid.NewString()+"/price-log", nil); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Export CSV", func(t *testing.T) {
		w := authed(r, http.MethodGet, "/products/"+milk.String()+"/price-log/export?format=csv", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		records, err := csv.NewReader(w.Body).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != 4 || records[1][3] != "1.30" {
			t.Errorf("unexpected export %v", records)
		}
	})

	t.Run("Export JSON", func(t *testing.T) {
		w := authed(r, http.MethodGet, "/products/"+milk.String()+"/price-log/export?format=json", nil)
		logs, err := decode[[]models.PriceLog](w)
		if err != nil || len(logs) != 3 {
			t.Errorf("expected 3 exported logs, got %d (%v)", len(logs), err)
		}
	})

	t.Run("Export unknown format", func(t *testing.T) {
		if w := authed(r, http.MethodGet, "/products/"+milk.String()+"/price-log/export?format=xml", nil); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
