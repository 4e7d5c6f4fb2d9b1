package handlers_test_suite

import (
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/shopspring/decimal"
)

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	milk := f.product(r, "Milk", 2)
	eggs := f.product(r, "Eggs", 6)
	f.product(r, "Bread", 1)
	storageID := createStorage(r)
	storeProducts(r, storageID,
		handler.StorageProductRequest{PublicID: milk, Quantity: 1},
		handler.StorageProductRequest{PublicID: eggs, Quantity: 12},
	)

	done := mustCreate(r, "/shopping-lists", nil)
	addToList(r, done, handler.ListProductRequest{PublicID: milk})
	price := decimal.RequireFromString("1.50")
	complete(r, done, handler.ProductBoughtRequest{ProductID: milk, QuantityBought: 2, PricePaidPerItem: &price})
	mustCreate(r, "/shopping-lists", nil)

	w := authed(r, http.MethodGet, "/metrics/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	m, err := decode[repo.Metrics](w)
	if err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}

	if m.TotalProducts != 3 || m.StoredProducts != 2 {
		t.Errorf("expected 3 products and 2 stored, got %d and %d", m.TotalProducts, m.StoredProducts)
	}
	if m.StockStatus.Fine != 2 || m.StockStatus.NeedsAttention != 0 || m.StockStatus.InRisk != 0 {
		t.Errorf("unexpected status counts %+v", m.StockStatus)
	}
	if m.OpenShoppingLists != 1 || m.CompletedShoppingLists != 1 {
		t.Errorf("expected 1 open and 1 completed list, got %+v", m)
	}
	if !m.TotalSpent.Equal(decimal.RequireFromString("3")) {
		t.Errorf("expected total spent 3, got %s", m.TotalSpent)
	}
}
