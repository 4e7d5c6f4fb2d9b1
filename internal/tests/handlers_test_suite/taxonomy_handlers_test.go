package handlers_test_suite

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
)

func TestTaxonomyHandlers_NameBounds(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	tests := []struct {
		name       string
		path       string
		entry      string
		expectCode int
	}{
		{"Brand too short", "/brands", "AB", http.StatusBadRequest},
		{"Brand ok", "/brands", "Acme", http.StatusCreated},
		{"Product type too short", "/productTypes", "Fr", http.StatusBadRequest},
		{"Product type ok", "/productTypes", "Fruit", http.StatusCreated},
		{"Unit type of one char", "/unitTypes", "g", http.StatusCreated},
		{"Unit type of four chars", "/unitTypes", "pack", http.StatusCreated},
		{"Unit type too long", "/unitTypes", "boxes", http.StatusBadRequest},
		{"Unit type blank", "/unitTypes", "   ", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any = handler.TaxonomyRequest{Name: ptr(tt.entry)}
			if tt.path == "/brands" {
				body = handler.BrandRequest{Name: ptr(tt.entry)}
			}
			w := authed(r, http.MethodPost, tt.path, body)
			if w.Code != tt.expectCode {
				t.Errorf("expected %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
		})
	}
}

func TestTaxonomyHandlers_DuplicateNameIsCaseInsensitive(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	mustCreate(r, "/brands", handler.BrandRequest{Name: ptr("Acme")})
	w := authed(r, http.MethodPost, "/brands", handler.BrandRequest{Name: ptr("ACME")})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp, _ := decode[handler.MessageResponse](w)
	if resp.Message != "Name already in use." {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestBrandHandlers_CRUD(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	id := mustCreate(r, "/brands", handler.BrandRequest{Name: ptr("Acme"), Description: ptr("Old")})

	w := authed(r, http.MethodPut, "/brands/"+id.String(), handler.BrandRequest{Description: ptr("New")})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	updated, _ := decode[models.Brand](w)
	if updated.Name != "Acme" || updated.Description != "New" {
		t.Errorf("partial update lost fields: %+v", updated)
	}

	w = authed(r, http.MethodGet, "/brands", nil)
	list, _ := decode[handler.BrandsResult](w)
	if len(list.Brands) != 1 {
		t.Errorf("expected 1 brand, got %d", len(list.Brands))
	}

	if w := authed(r, http.MethodDelete, "/brands/"+id.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", w.Code)
	}
	if w := authed(r, http.MethodGet, "/brands/"+id.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	if w := authed(r, http.MethodDelete, "/brands/"+uuid.NewString(), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown brand, got %d", w.Code)
	}
}

func TestBrandHandlers_DeleteInUse(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	brandID := mustCreate(r, "/brands", handler.BrandRequest{Name: ptr("Acme")})
	productID := f.product(r, "Milk", 2)
	storageID := createStorage(r)
	storeProducts(r, storageID, handler.StorageProductRequest{PublicID: productID, Quantity: 3, BrandID: &brandID})

	w := authed(r, http.MethodDelete, "/brands/"+brandID.String(), nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestTaxonomyHandlers_DeleteInUse(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)
	f.product(r, "Milk", 2)

	for _, path := range []string{"/productTypes/" + f.productTypeID.String(), "/unitTypes/" + f.unitTypeID.String()} {
		if w := authed(r, http.MethodDelete, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("DELETE %s: expected 400, got %d", path, w.Code)
		}
	}

	unused := mustCreate(r, "/productTypes", handler.TaxonomyRequest{Name: ptr("Bakery")})
	if w := authed(r, http.MethodDelete, "/productTypes/"+unused.String(), nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 for unused type, got %d", w.Code)
	}
}

func TestTaxonomyHandlers_GetAndUpdate(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	id := mustCreate(r, "/unitTypes", handler.TaxonomyRequest{Name: ptr("kg")})

	w := authed(r, http.MethodGet, "/unitTypes/"+id.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	got, _ := decode[handler.UnitTypeResult](w)
	if got.UnitType.Name != "kg" {
		t.Errorf("expected kg, got %q", got.UnitType.Name)
	}

	w = authed(r, http.MethodPut, "/unitTypes/"+id.String(), handler.TaxonomyRequest{Name: ptr("grams")})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a five-char unit type, got %d", w.Code)
	}

	w = authed(r, http.MethodGet, "/unitTypes/not-a-uuid", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
}
