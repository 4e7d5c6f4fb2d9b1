package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
	"github.com/shopspring/decimal"
)

func complete(r http.Handler, listID uuid.UUID, bought ...handler.ProductBoughtRequest) *http.Response {
	w := authed(r, http.MethodPatch, "/shopping-lists/"+listID.String()+"/complete", handler.CompleteShoppingListRequest{ProductsBought: bought})
	return w.Result()
}

func TestCompleteShoppingListHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	milk := f.product(r, "Milk", 2)
	eggs := f.product(r, "Eggs", 6)
	listID := mustCreate(r, "/shopping-lists", nil)
	addToList(r, listID, handler.ListProductRequest{PublicID: milk}, handler.ListProductRequest{PublicID: eggs})

	price := decimal.RequireFromString("1.25")
	milkBought := handler.ProductBoughtRequest{ProductID: milk, QuantityBought: 2, PricePaidPerItem: &price, BrandName: ptr("Acme")}
	eggsBought := handler.ProductBoughtRequest{ProductID: eggs, QuantityBought: 12}

	t.Run("Requires a storage", func(t *testing.T) {
		if resp := complete(r, listID, milkBought); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	storageID := createStorage(r)
	storeProducts(r, storageID, handler.StorageProductRequest{PublicID: milk, Quantity: 1})

	t.Run("Rejects products off the list", func(t *testing.T) {
		other := f.product(r, "Bread", 1)
		bought := handler.ProductBoughtRequest{ProductID: other, QuantityBought: 1}
		if resp := complete(r, listID, milkBought, bought); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		stored, _ := storageRepo.GetProduct(t.Context(), storageID, milk)
		if stored.Quantity != 1 {
			t.Errorf("expected storage untouched, got quantity %d", stored.Quantity)
		}
	})

	t.Run("Rejects invalid purchases", func(t *testing.T) {
		tests := []struct {
			name     string
			price    string
			quantity int
		}{
			{"Price below the minimum", "0.01", 1},
			{"More than two decimal places", "0.055", 3},
			{"Total beyond the column range", "9999999999.99", 2},
			{"Quantity beyond the column range", "1.00", repo.MaxQuantity + 1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				price := decimal.RequireFromString(tt.price)
				bought := handler.ProductBoughtRequest{ProductID: milk, QuantityBought: tt.quantity, PricePaidPerItem: &price}
				if resp := complete(r, listID, bought); resp.StatusCode != http.StatusBadRequest {
					t.Errorf("expected 400, got %d", resp.StatusCode)
				}
			})
		}

		line, _ := shoppingListRepo.GetProduct(t.Context(), listID, milk)
		if line.PricePaidPerItem.Valid {
			t.Errorf("expected no price recorded, got %s", line.PricePaidPerItem.Decimal)
		}
	})

	t.Run("Completes", func(t *testing.T) {
		if resp := complete(r, listID, milkBought, eggsBought); resp.StatusCode != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", resp.StatusCode)
		}

		stored, _ := storageRepo.GetProduct(t.Context(), storageID, milk)
		if stored.Quantity != 3 || stored.Status != stock.Fine {
			t.Errorf("expected milk 3/Fine, got %d/%q", stored.Quantity, stored.Status)
		}
		if stored.BrandID == nil {
			t.Error("expected the bought brand on the storage row")
		}

		stored, _ = storageRepo.GetProduct(t.Context(), storageID, eggs)
		if stored.Quantity != 12 || stored.Status != stock.Fine {
			t.Errorf("expected eggs 12/Fine, got %d/%q", stored.Quantity, stored.Status)
		}

		logs, total, _ := priceLogRepo.GetByProductID(t.Context(), milk, repo.PriceLogFilter{})
		if total != 1 || !logs[0].Price.Equal(price) {
			t.Errorf("expected one price log of %s, got %+v", price, logs)
		}

		line, _ := shoppingListRepo.GetProduct(t.Context(), listID, milk)
		if !line.TotalPricePaid.Valid || !line.TotalPricePaid.Decimal.Equal(decimal.RequireFromString("2.50")) {
			t.Errorf("expected total 2.50, got %+v", line.TotalPricePaid)
		}
	})

	t.Run("Already completed", func(t *testing.T) {
		if resp := complete(r, listID, milkBought); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		removePath := "/shopping-lists/" + listID.String() + "/products/" + milk.String() + "/remove"
		if w := authed(r, http.MethodPatch, removePath, nil); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 removing from a completed list, got %d", w.Code)
		}
	})

	t.Run("Unknown list", func(t *testing.T) {
		if resp := complete(r, uuid.New(), milkBought); resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestCompleteShoppingListHandler_ReusesBrandCaseInsensitively(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)
	createStorage(r)

	brandID := mustCreate(r, "/brands", handler.BrandRequest{Name: ptr("Acme")})
	milk := f.product(r, "Milk", 1)
	eggs := f.product(r, "Eggs", 1)
	listID := mustCreate(r, "/shopping-lists", nil)
	addToList(r, listID, handler.ListProductRequest{PublicID: milk}, handler.ListProductRequest{PublicID: eggs})

	resp := complete(r, listID,
		handler.ProductBoughtRequest{ProductID: milk, QuantityBought: 1, BrandName: ptr("ACME")},
		handler.ProductBoughtRequest{ProductID: eggs, QuantityBought: 1, BrandName: ptr("Farm Fresh")},
	)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	w := authed(r, http.MethodGet, "/brands", nil)
	brands, _ := decode[handler.BrandsResult](w)
	if len(brands.Brands) != 2 {
		t.Fatalf("expected the existing brand plus one new brand, got %+v", brands.Brands)
	}

	line, _ := shoppingListRepo.GetProduct(t.Context(), listID, milk)
	if line.BrandID == nil || *line.BrandID != brandID {
		t.Errorf("expected milk bought under the existing brand")
	}
}
