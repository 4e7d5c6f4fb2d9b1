package handlers_test_suite

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
	"github.com/xuri/excelize/v2"
)

func addToList(r http.Handler, listID uuid.UUID, products ...handler.ListProductRequest) int {
	w := authed(r, http.MethodPost, "/shopping-lists/"+listID.String(), handler.AddToShoppingListRequest{Products: products})
	return w.Code
}

func TestAutoCreateShoppingListHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	t.Run("Without storage", func(t *testing.T) {
		if w := authed(r, http.MethodPost, "/shopping-lists/auto-create", nil); w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	storageID := createStorage(r)
	milk := f.product(r, "Milk", 2)
	eggs := f.product(r, "Eggs", 6)
	bread := f.product(r, "Bread", 1)

	t.Run("Nothing needed", func(t *testing.T) {
		storeProducts(r, storageID, handler.StorageProductRequest{PublicID: eggs, Quantity: 12})
		w := authed(r, http.MethodPost, "/shopping-lists/auto-create", nil)
		resp, _ := decode[handler.MessageResponse](w)
		if w.Code != http.StatusBadRequest || resp.Message != "No products are in need at the moment." {
			t.Errorf("expected nothing-needed rejection, got %d %q", w.Code, resp.Message)
		}
	})

	t.Run("Picks products that need restocking", func(t *testing.T) {
		storeProducts(r, storageID,
			handler.StorageProductRequest{PublicID: milk, Quantity: 2},
			handler.StorageProductRequest{PublicID: bread, Quantity: 1},
		)
		authed(r, http.MethodPatch, fmt.Sprintf("/storages/%s/products/%s/update-quantity", storageID, bread), handler.UpdateQuantityRequest{NewQuantity: ptr(0)})

		listID := mustCreate(r, "/shopping-lists/auto-create", nil)

		w := authed(r, http.MethodGet, "/shopping-lists/"+listID.String(), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		resp, _ := decode[handler.ShoppingListResult](w)
		got := map[string]stock.Status{}
		for _, p := range resp.ShoppingList.Products {
			if p.Status == nil || p.QuantityInStorage == nil {
				t.Fatalf("expected storage details on %q", p.ProductName)
			}
			got[p.ProductName] = *p.Status
		}
		if len(got) != 2 || got["Milk"] != stock.NeedsAttention || got["Bread"] != stock.InRisk {
			t.Errorf("unexpected lines %v", got)
		}
	})
}

func TestShoppingListProducts(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	milk := f.product(r, "Milk", 2)
	eggs := f.product(r, "Eggs", 6)
	listID := mustCreate(r, "/shopping-lists", nil)

	if code := addToList(r, listID, handler.ListProductRequest{PublicID: milk}, handler.ListProductRequest{PublicID: eggs}); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := addToList(r, listID, handler.ListProductRequest{PublicID: milk}); code != http.StatusBadRequest {
		t.Errorf("expected 400 adding a listed product again, got %d", code)
	}

	removePath := func(productID uuid.UUID) string {
		return fmt.Sprintf("/shopping-lists/%s/products/%s/remove", listID, productID)
	}
	if w := authed(r, http.MethodPatch, removePath(eggs), nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 removing, got %d", w.Code)
	}
	w := authed(r, http.MethodPatch, removePath(eggs), nil)
	resp, _ := decode[handler.MessageResponse](w)
	if w.Code != http.StatusBadRequest || resp.Message != "Product is not in shoppingList." {
		t.Errorf("expected not-in-list rejection, got %d %q", w.Code, resp.Message)
	}
	if w := authed(r, http.MethodPatch, removePath(uuid.New()), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}

	w = authed(r, http.MethodGet, "/shopping-lists", nil)
	lists, _ := decode[handler.ShoppingListsResult](w)
	if len(lists.ShoppingLists) != 1 {
		t.Errorf("expected 1 list, got %d", len(lists.ShoppingLists))
	}

	if w := authed(r, http.MethodDelete, "/shopping-lists/"+listID.String(), nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting, got %d", w.Code)
	}
	if w := authed(r, http.MethodGet, "/shopping-lists/"+listID.String(), nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	lines, _ := shoppingListRepo.ListProducts(t.Context(), listID)
	if len(lines) != 0 {
		t.Errorf("expected lines to be removed with the list, got %d", len(lines))
	}
}

func TestPrintShoppingListHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	f := newFixture(r)

	milk := f.product(r, "Milk", 2)
	eggs := f.product(r, "Eggs", 6)
	brandID := mustCreate(r, "/brands", handler.BrandRequest{Name: ptr("Acme")})
	listID := mustCreate(r, "/shopping-lists", nil)
	addToList(r, listID, handler.ListProductRequest{PublicID: milk, BrandID: &brandID}, handler.ListProductRequest{PublicID: eggs})

	path := "/shopping-lists/" + listID.String() + "/print"

	t.Run("Requires a storage", func(t *testing.T) {
		if w := authed(r, http.MethodGet, path, nil); w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	storageID := createStorage(r)
	storeProducts(r, storageID, handler.StorageProductRequest{PublicID: milk, Quantity: 1})

	t.Run("JSON", func(t *testing.T) {
		w := authed(r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		printable, _ := decode[handler.PrintableShoppingList](w)
		if printable.ShoppingListID != listID || len(printable.Products) != 2 {
			t.Fatalf("unexpected printable list %+v", printable)
		}
		for _, p := range printable.Products {
			switch p.Name {
			case "Milk":
				if p.BrandName != "Acme" || p.Status == nil || *p.Status != stock.InRisk || p.ProductType != "Dairy" || p.UnitType != "L" {
					t.Errorf("unexpected milk line %+v", p)
				}
			case "Eggs":
				if p.Status != nil || p.QuantityInStorage != nil {
					t.Errorf("expected no storage details for eggs, got %+v", p)
				}
			}
		}
	})

	t.Run("CSV", func(t *testing.T) {
		w := authed(r, http.MethodGet, path+"?format=csv", nil)
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Fatalf("expected text/csv, got %q", ct)
		}
		records, err := csv.NewReader(w.Body).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != 3 || records[0][1] != "name" {
			t.Errorf("unexpected CSV %v", records)
		}
	})

	t.Run("XLSX", func(t *testing.T) {
		w := authed(r, http.MethodGet, path+"?format=xlsx", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		wb, err := excelize.OpenReader(w.Body)
		if err != nil {
			t.Fatalf("invalid workbook: %v", err)
		}
		defer wb.Close()
		rows, err := wb.GetRows("Shopping List")
		if err != nil {
			t.Fatalf("missing sheet: %v", err)
		}
		if len(rows) != 3 {
			t.Errorf("expected header and 2 rows, got %d", len(rows))
		}
	})

	t.Run("Unknown format", func(t *testing.T) {
		if w := authed(r, http.MethodGet, path+"?format=pdf", nil); w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
