package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty payload",
			payload:        handler.ProductRequest{},
			expectedErrors: []string{"name", "productTypeId", "unitTypeId", "minQuantity"},
		},
		{
			name:           "Zero min quantity",
			payload:        handler.ProductRequest{Name: ptr("Milk"), ProductTypeID: &f.productTypeID, UnitTypeID: &f.unitTypeID, MinQuantity: ptr(0)},
			expectedErrors: []string{"minQuantity"},
		},
		{
			name:           "Short name",
			payload:        handler.ProductRequest{Name: ptr("Mi"), ProductTypeID: &f.productTypeID, UnitTypeID: &f.unitTypeID, MinQuantity: ptr(1)},
			expectedErrors: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authed(r, http.MethodPost, "/products", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp, err := decode[handler.ValidationErrorResponse](w)
			if err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			fields := map[string]bool{}
			for _, e := range resp.Errors {
				fields[e.Field] = true
			}
			for _, field := range tt.expectedErrors {
				if !fields[field] {
					t.Errorf("expected an error on %q, got %+v", field, resp.Errors)
				}
			}
		})
	}
}

func TestCreateProductHandler_ForeignTypes(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	unknown := uuid.New()
	tests := []struct {
		name    string
		payload handler.ProductRequest
		message string
	}{
		{"Unknown product type", handler.ProductRequest{Name: ptr("Milk"), ProductTypeID: &unknown, UnitTypeID: &f.unitTypeID, MinQuantity: ptr(1)}, "Invalid ProductType provided."},
		{"Unknown unit type", handler.ProductRequest{Name: ptr("Milk"), ProductTypeID: &f.productTypeID, UnitTypeID: &unknown, MinQuantity: ptr(1)}, "Invalid UnitType provided."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authed(r, http.MethodPost, "/products", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp, _ := decode[handler.MessageResponse](w)
			if resp.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, resp.Message)
			}
		})
	}
}

func TestCreateProductHandler_DuplicateName(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	f.product(r, "Milk", 1)
	w := authed(r, http.MethodPost, "/products", handler.ProductRequest{
		Name: ptr("milk"), ProductTypeID: &f.productTypeID, UnitTypeID: &f.unitTypeID, MinQuantity: ptr(1),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestGetProductsHandler_Filters(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	f.product(r, "Whole Milk", 1)
	f.product(r, "Skim Milk", 1)
	f.product(r, "Cheddar", 1)

	tests := []struct {
		name          string
		query         string
		expectedCount int
		expectedTotal int
	}{
		{"No filter", "", 3, 3},
		{"Name substring", "?name=MILK", 2, 2},
		{"Limit", "?limit=1", 1, 3},
		{"Offset past the end", "?offset=5", 0, 3},
		{"Unknown product type", "?productTypeId=" + uuid.NewString(), 0, 0},
		{"Matching unit type", "?unitTypeId=" + f.unitTypeID.String(), 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := authed(r, http.MethodGet, "/products"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			resp, err := decode[handler.ProductsSearchResult](w)
			if err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Data) != tt.expectedCount || resp.Meta.TotalCount != tt.expectedTotal {
				t.Errorf("expected %d/%d, got %d/%d", tt.expectedCount, tt.expectedTotal, len(resp.Data), resp.Meta.TotalCount)
			}
		})
	}

	t.Run("Embeds types", func(t *testing.T) {
		w := authed(r, http.MethodGet, "/products?name=cheddar", nil)
		resp, _ := decode[handler.ProductsSearchResult](w)
		if len(resp.Data) != 1 || resp.Data[0].ProductType == nil || resp.Data[0].ProductType.Name != "Dairy" || resp.Data[0].UnitType.Name != "L" {
			t.Errorf("expected embedded types, got %+v", resp.Data)
		}
	})

	t.Run("Invalid pagination", func(t *testing.T) {
		for _, q := range []string{"?limit=0", "?offset=-1", "?limit=abc", "?productTypeId=nope"} {
			if w := authed(r, http.MethodGet, "/products"+q, nil); w.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", q, w.Code)
			}
		}
	})
}

func TestGetProductByIDHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)
	id := f.product(r, "Milk", 1)

	w := authed(r, http.MethodGet, "/products/"+id.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp, _ := decode[handler.ProductResult](w)
	if resp.Product.PublicID != id || resp.Product.Name != "Milk" {
		t.Errorf("unexpected product %+v", resp.Product)
	}

	if w := authed(r, http.MethodGet, "/products/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUpdateProductHandler_RecomputesStatus(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	id := f.product(r, "Milk", 2)
	storageID := createStorage(r)
	storeProducts(r, storageID, handler.StorageProductRequest{PublicID: id, Quantity: 3})

	stored, _ := storageRepo.GetProduct(t.Context(), storageID, id)
	if stored.Status != stock.Fine {
		t.Fatalf("expected Fine before update, got %q", stored.Status)
	}

	w := authed(r, http.MethodPut, "/products/"+id.String(), handler.ProductRequest{MinQuantity: ptr(3)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp, _ := decode[handler.ProductResponse](w)
	if resp.Name != "Milk" || resp.MinQuantity != 3 {
		t.Errorf("unexpected product after update: %+v", resp)
	}

	stored, _ = storageRepo.GetProduct(t.Context(), storageID, id)
	if stored.Status != stock.NeedsAttention {
		t.Errorf("expected %q after raising the minimum, got %q", stock.NeedsAttention, stored.Status)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	t.Run("In storage", func(t *testing.T) {
		id := f.product(r, "Milk", 1)
		storageID := createStorage(r)
		storeProducts(r, storageID, handler.StorageProductRequest{PublicID: id, Quantity: 1})

		w := authed(r, http.MethodDelete, "/products/"+id.String(), nil)
		resp, _ := decode[handler.MessageResponse](w)
		if w.Code != http.StatusBadRequest || resp.Message != "Cannot delete this product: In storage." {
			t.Errorf("expected in-storage rejection, got %d %q", w.Code, resp.Message)
		}
	})

	t.Run("On open shopping list", func(t *testing.T) {
		id := f.product(r, "Butter", 1)
		listID := mustCreate(r, "/shopping-lists", nil)
		authed(r, http.MethodPost, "/shopping-lists/"+listID.String(), handler.AddToShoppingListRequest{
			Products: []handler.ListProductRequest{{PublicID: id}},
		})

		w := authed(r, http.MethodDelete, "/products/"+id.String(), nil)
		resp, _ := decode[handler.MessageResponse](w)
		if w.Code != http.StatusBadRequest || resp.Message != "Cannot delete this product: In uncompleted shopping list." {
			t.Errorf("expected open-list rejection, got %d %q", w.Code, resp.Message)
		}
	})

	t.Run("Unused", func(t *testing.T) {
		id := f.product(r, "Yogurt", 1)
		if w := authed(r, http.MethodDelete, "/products/"+id.String(), nil); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w := authed(r, http.MethodGet, "/products/"+id.String(), nil); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})
}

func TestProductsAreScopedToTheirOwner(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)
	id := f.product(r, "Milk", 1)

	other, err := login(r, "Other User", "other@example.com")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	w := doRequest(r, http.MethodGet, apiPrefix+"/products/"+id.String(), nil, other)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's product, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, apiPrefix+"/products", nil, other)
	resp, _ := decode[handler.ProductsSearchResult](w)
	if resp.Meta.TotalCount != 0 {
		t.Errorf("expected no products for another user, got %d", resp.Meta.TotalCount)
	}
}
