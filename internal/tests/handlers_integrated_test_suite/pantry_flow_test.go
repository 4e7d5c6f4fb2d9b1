package handlers_integrated_test_suite

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
	"github.com/shopspring/decimal"
)

func TestMain(m *testing.M) {
	dsn := databaseURL()
	if dsn == "" {
		fmt.Println("DATABASE_URL not set, skipping integrated tests")
		os.Exit(0)
	}
	if err := setupTestRepos(dsn); err != nil {
		fmt.Printf("could not set up database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	database.Close()
	os.Exit(code)
}

func newClient(t *testing.T) client {
	t.Helper()
	r := router.NewRouter()
	cookie, err := newUser(r)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return client{r: r, cookie: cookie}
}

func mustCreate(t *testing.T, c client, path string, body any) uuid.UUID {
	t.Helper()
	id, err := c.create(path, body)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestPantryFlow(t *testing.T) {
	c := newClient(t)

	productTypeID := mustCreate(t, c, "/productTypes", handler.TaxonomyRequest{Name: ptr("Dairy")})
	unitTypeID := mustCreate(t, c, "/unitTypes", handler.TaxonomyRequest{Name: ptr("L")})
	product := func(name string, minQuantity int) uuid.UUID {
		return mustCreate(t, c, "/products", handler.ProductRequest{
			Name:          ptr(name),
			ProductTypeID: &productTypeID,
			UnitTypeID:    &unitTypeID,
			MinQuantity:   ptr(minQuantity),
		})
	}
	milk := product("Milk", 2)
	eggs := product("Eggs", 6)

	storageID := mustCreate(t, c, "/storages", nil)
	w := c.do(http.MethodPost, "/storages/"+storageID.String(), handler.AddToStorageRequest{Products: []handler.StorageProductRequest{
		{PublicID: milk, Quantity: 1},
		{PublicID: eggs, Quantity: 12},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("add to storage returned %d: %s", w.Code, w.Body.String())
	}

	stored, err := storageRepo.GetProduct(t.Context(), storageID, milk)
	if err != nil {
		t.Fatalf("milk not stored: %v", err)
	}
	if stored.Status != stock.InRisk {
		t.Errorf("expected %q, got %q", stock.InRisk, stored.Status)
	}

	listID := mustCreate(t, c, "/shopping-lists/auto-create", nil)
	w = c.do(http.MethodGet, "/shopping-lists/"+listID.String(), nil)
	list, err := decode[handler.ShoppingListResult](w)
	if err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.ShoppingList.Products) != 1 || list.ShoppingList.Products[0].ProductID != milk {
		t.Fatalf("expected only milk on the list, got %+v", list.ShoppingList.Products)
	}

	price := decimal.RequireFromString("0.99")
	w = c.do(http.MethodPatch, "/shopping-lists/"+listID.String()+"/complete", handler.CompleteShoppingListRequest{
		ProductsBought: []handler.ProductBoughtRequest{
			{ProductID: milk, QuantityBought: 3, PricePaidPerItem: &price, BrandName: ptr("Farm Fresh")},
		},
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("complete returned %d: %s", w.Code, w.Body.String())
	}

	stored, _ = storageRepo.GetProduct(t.Context(), storageID, milk)
	if stored.Quantity != 4 || stored.Status != stock.Fine {
		t.Errorf("expected 4 milk and %q, got %d and %q", stock.Fine, stored.Quantity, stored.Status)
	}

	w = c.do(http.MethodGet, "/products/"+milk.String()+"/price-log", nil)
	logs, _ := decode[handler.PriceLogSearchResult](w)
	if logs.Meta.TotalCount != 1 || !logs.Data[0].Price.Equal(price) {
		t.Errorf("expected one logged price of %s, got %+v", price, logs)
	}

	w = c.do(http.MethodPatch, "/shopping-lists/"+listID.String()+"/complete", handler.CompleteShoppingListRequest{
		ProductsBought: []handler.ProductBoughtRequest{{ProductID: milk, QuantityBought: 1}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 completing twice, got %d", w.Code)
	}

	w = c.do(http.MethodGet, "/metrics/dashboard", nil)
	m, _ := decode[repo.Metrics](w)
	if m.TotalProducts != 2 || m.StockStatus.Fine != 2 || m.CompletedShoppingLists != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}
	if !m.TotalSpent.Equal(decimal.RequireFromString("2.97")) {
		t.Errorf("expected total spent 2.97, got %s", m.TotalSpent)
	}
}

func TestStatusFollowsMinQuantity(t *testing.T) {
	c := newClient(t)

	productTypeID := mustCreate(t, c, "/productTypes", handler.TaxonomyRequest{Name: ptr("Pantry")})
	unitTypeID := mustCreate(t, c, "/unitTypes", handler.TaxonomyRequest{Name: ptr("kg")})
	rice := mustCreate(t, c, "/products", handler.ProductRequest{
		Name:          ptr("Rice"),
		ProductTypeID: &productTypeID,
		UnitTypeID:    &unitTypeID,
		MinQuantity:   ptr(1),
	})
	storageID := mustCreate(t, c, "/storages", nil)
	c.do(http.MethodPost, "/storages/"+storageID.String(), handler.AddToStorageRequest{Products: []handler.StorageProductRequest{
		{PublicID: rice, Quantity: 2},
	}})

	tests := []struct {
		minQuantity int
		want        stock.Status
	}{
		{1, stock.Fine},
		{2, stock.NeedsAttention},
		{3, stock.InRisk},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			w := c.do(http.MethodPut, "/products/"+rice.String(), handler.ProductRequest{MinQuantity: ptr(tt.minQuantity)})
			if w.Code != http.StatusOK {
				t.Fatalf("update returned %d: %s", w.Code, w.Body.String())
			}
			stored, err := storageRepo.GetProduct(t.Context(), storageID, rice)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Status != tt.want {
				t.Errorf("min %d: expected %q, got %q", tt.minQuantity, tt.want, stored.Status)
			}
		})
	}
}

func TestDuplicateNamesAreCaseInsensitive(t *testing.T) {
	c := newClient(t)

	mustCreate(t, c, "/brands", handler.BrandRequest{Name: ptr("Acme")})
	w := c.do(http.MethodPost, "/brands", handler.BrandRequest{Name: ptr("ACME")})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate brand, got %d", w.Code)
	}

	other := newClient(t)
	if _, err := other.create("/brands", handler.BrandRequest{Name: ptr("Acme")}); err != nil {
		t.Errorf("names are unique per user: %v", err)
	}
}
