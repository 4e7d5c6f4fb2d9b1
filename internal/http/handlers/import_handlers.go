package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/xuri/excelize/v2"
)

var importColumns = []string{"name", "description", "product_type", "unit_type", "min_quantity"}

type importRow struct {
	Name        string
	Description string
	ProductType string
	UnitType    string
	MinQuantity int
	minErr      error
}

// toImportRows maps records to rows using the header in records[0].
func toImportRows(records [][]string) ([]importRow, error) {
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}

	index := map[string]int{}
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range importColumns {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	field := func(record []string, column string) string {
		i := index[column]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]importRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := importRow{
			Name:        field(record, "name"),
			Description: field(record, "description"),
			ProductType: field(record, "product_type"),
			UnitType:    field(record, "unit_type"),
		}
		row.MinQuantity, row.minErr = strconv.Atoi(field(record, "min_quantity"))
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV read error: %v", err)
	}
	return records, nil
}

// readXLSX returns the rows of the first sheet of a workbook.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid XLSX file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("XLSX file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("XLSX read error: %v", err)
	}
	return rows, nil
}

func validateImportRow(row importRow) error {
	switch n := nameLength(row.Name); {
	case n == 0:
		return errors.New("missing name")
	case n < minNameLength || n > maxNameLength:
		return fmt.Errorf("name must have between %d and %d characters", minNameLength, maxNameLength)
	}
	if row.ProductType == "" {
		return errors.New("missing product_type")
	}
	if row.UnitType == "" {
		return errors.New("missing unit_type")
	}
	if row.minErr != nil || row.MinQuantity < 1 {
		return errors.New("min_quantity must be at least 1")
	}
	if row.MinQuantity > repo.MaxQuantity {
		return fmt.Errorf("min_quantity must be at most %d", repo.MaxQuantity)
	}
	return nil
}

// typeResolver looks up product and unit types by name, caching hits per import.
type typeResolver struct {
	userID uuid.UUID
	cache  map[string]uuid.UUID
}

func (tr *typeResolver) lookup(ctx context.Context, r repo.TaxonomyRepository, name string) (uuid.UUID, error) {
	key := string(r.Kind()) + "/" + strings.ToLower(name)
	if id, ok := tr.cache[key]; ok {
		return id, nil
	}
	t, err := r.GetByName(ctx, tr.userID, name)
	if err != nil {
		return uuid.Nil, err
	}
	tr.cache[key] = t.ID
	return t.ID, nil
}

// ImportProductsHandler godoc
// @Summary Import products from a CSV or XLSX file
// @Description Header: name,description,product_type,unit_type,min_quantity. Types are matched by name.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} MessageResponse
// @Router /products/import [post]
// @Security CookieAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	var records [][]string
	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		records, err = readXLSX(file)
	} else {
		records, err = readCSV(file)
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := toImportRows(records)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid header: "+err.Error())
		return
	}

	ctx := r.Context()
	types := &typeResolver{userID: userID, cache: map[string]uuid.UUID{}}
	imported := 0
	errorsList := []ValidationError{}
	rowError := func(rowNum int, format string, args ...any) {
		errorsList = append(errorsList, ValidationError{
			Field:       fmt.Sprintf("row %d", rowNum),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range rows {
		rowNum := i + 2 // header is row 1

		if err := validateImportRow(rec); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}

		productTypeID, err := types.lookup(ctx, productTypeRepo, rec.ProductType)
		if err != nil {
			rowError(rowNum, "unknown product type '%s'", rec.ProductType)
			continue
		}
		unitTypeID, err := types.lookup(ctx, unitTypeRepo, rec.UnitType)
		if err != nil {
			rowError(rowNum, "unknown unit type '%s'", rec.UnitType)
			continue
		}

		existing, err := productRepo.GetByName(ctx, userID, rec.Name)
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(rowNum, "product '%s' already exists", rec.Name)
				continue
			}
			existing.Description = rec.Description
			existing.ProductTypeID = productTypeID
			existing.UnitTypeID = unitTypeID
			existing.MinQuantity = rec.MinQuantity
			existing.UpdatedAt = now()
			if _, err := productRepo.Update(ctx, existing); err != nil {
				rowError(rowNum, "failed to update '%s'", rec.Name)
				continue
			}
			imported++
			continue
		case !errors.Is(err, repo.ErrProductNotFound):
			rowError(rowNum, "failed to look up '%s'", rec.Name)
			continue
		}

		t := now()
		newProduct := models.Product{
			ID:            uuid.New(),
			UserID:        userID,
			Name:          rec.Name,
			Description:   rec.Description,
			ProductTypeID: productTypeID,
			UnitTypeID:    unitTypeID,
			MinQuantity:   rec.MinQuantity,
			CreatedAt:     t,
			UpdatedAt:     t,
		}
		if _, err := productRepo.Create(ctx, newProduct); err != nil {
			if errors.Is(err, repo.ErrDuplicatedValueUnique) {
				rowError(rowNum, "product '%s' already exists", rec.Name)
			} else {
				rowError(rowNum, "failed to create '%s'", rec.Name)
			}
			continue
		}
		imported++
	}

	respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
