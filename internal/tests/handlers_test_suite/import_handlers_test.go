package handlers_test_suite

import (
	"bytes"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
	"github.com/xuri/excelize/v2"
)

func TestImportProductsHandler(t *testing.T) {
	r := router.NewRouter()

	t.Run("File with unique valid products", func(t *testing.T) {
		t.Cleanup(clearAll)
		newFixture(r)

		csvData := `name,description,product_type,unit_type,min_quantity
Whole Milk,Semi skimmed,Dairy,L,2
Cheddar,,dairy,l,1`

		w := importFile(r, []byte(csvData), "products.csv", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		resp, err := decode[handler.ImportProductsResult](w)
		if err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 0 {
			t.Errorf("expected no errors, got %v", resp.Errors)
		}
	})

	t.Run("File with invalid rows", func(t *testing.T) {
		t.Cleanup(clearAll)
		newFixture(r)

		csvData := `name,description,product_type,unit_type,min_quantity
Whole Milk,,Dairy,L,2
Mi,,Dairy,L,1
Butter,,Bakery,L,1
Yogurt,,Dairy,L,0`

		w := importFile(r, []byte(csvData), "products.csv", "")
		resp, _ := decode[handler.ImportProductsResult](w)
		if resp.ImportedProductsCount != 1 {
			t.Errorf("expected 1 imported product, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 3 {
			t.Fatalf("expected 3 errors, got %v", resp.Errors)
		}
		if resp.Errors[0].Field != "row 3" {
			t.Errorf("expected first error on row 3, got %q", resp.Errors[0].Field)
		}
	})

	t.Run("Missing column", func(t *testing.T) {
		t.Cleanup(clearAll)
		w := importFile(r, []byte("name,min_quantity\nMilk,1"), "products.csv", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Skip and update modes", func(t *testing.T) {
		t.Cleanup(clearAll)
		f := newFixture(r)
		milk := f.product(r, "Milk", 2)
		storageID := createStorage(r)
		storeProducts(r, storageID, handler.StorageProductRequest{PublicID: milk, Quantity: 3})

		csvData := `name,description,product_type,unit_type,min_quantity
Milk,Fresh,Dairy,L,3`

		w := importFile(r, []byte(csvData), "products.csv", "skip")
		resp, _ := decode[handler.ImportProductsResult](w)
		if resp.ImportedProductsCount != 0 || len(resp.Errors) != 1 {
			t.Errorf("skip mode: expected 0 imported and 1 error, got %+v", resp)
		}

		w = importFile(r, []byte(csvData), "products.csv", "update")
		resp, _ = decode[handler.ImportProductsResult](w)
		if resp.ImportedProductsCount != 1 {
			t.Fatalf("update mode: expected 1 imported, got %+v", resp)
		}

		stored, _ := storageRepo.GetProduct(t.Context(), storageID, milk)
		if stored.Status != stock.NeedsAttention {
			t.Errorf("expected status refreshed to %q, got %q", stock.NeedsAttention, stored.Status)
		}
	})

	t.Run("XLSX file", func(t *testing.T) {
		t.Cleanup(clearAll)
		newFixture(r)

		wb := excelize.NewFile()
		sheet := wb.GetSheetName(0)
		rows := [][]any{
			{"name", "description", "product_type", "unit_type", "min_quantity"},
			{"Whole Milk", "", "Dairy", "L", 2},
			{"Cheddar", "Aged", "Dairy", "L", 1},
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
				t.Fatalf("failed to build workbook: %v", err)
			}
		}
		var buf bytes.Buffer
		if err := wb.Write(&buf); err != nil {
			t.Fatalf("failed to write workbook: %v", err)
		}

		w := importFile(r, buf.Bytes(), "products.xlsx", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
		}
		resp, _ := decode[handler.ImportProductsResult](w)
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %+v", resp)
		}
	})
}
