package handlers

import (
	"context"
	"encoding/csv"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/xuri/excelize/v2"
)

// CreateShoppingListHandler godoc
// @Summary Create an empty shopping list
// @Tags shopping-lists
// @Produce json
// @Success 201 {object} CreatedResponse
// @Router /shopping-lists [post]
// @Security CookieAuth
func CreateShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	list := models.ShoppingList{ID: uuid.New(), UserID: userID, CreatedAt: now()}
	created, err := shoppingListRepo.Create(r.Context(), list)
	if err != nil {
		serverError(w, "create shopping list", err)
		return
	}
	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

// AutoCreateShoppingListHandler godoc
// @Summary Create a shopping list with every stored product that needs restocking
// @Tags shopping-lists
// @Produce json
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/auto-create [post]
// @Security CookieAuth
func AutoCreateShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	storage, err := storageRepo.GetByUser(r.Context(), userID)
	if errors.Is(err, repo.ErrStorageNotFound) {
		writeMessage(w, http.StatusNotFound, "Storage not found.")
		return
	}
	if err != nil {
		serverError(w, "fetch storage", err)
		return
	}

	rows, err := storageRepo.ListProducts(r.Context(), storage.ID)
	if err != nil {
		serverError(w, "list storage products", err)
		return
	}

	t := now()
	list := models.ShoppingList{ID: uuid.New(), UserID: userID, CreatedAt: t}
	var lines []models.ShoppingListProduct
	for _, sp := range rows {
		if !sp.Status.NeedsRestock() {
			continue
		}
		lines = append(lines, models.ShoppingListProduct{
			ID:             uuid.New(),
			ShoppingListID: list.ID,
			ProductID:      sp.ProductID,
			BrandID:        sp.BrandID,
			CreatedAt:      t,
			UpdatedAt:      t,
		})
	}
	if len(lines) == 0 {
		writeMessage(w, http.StatusBadRequest, "No products are in need at the moment.")
		return
	}

	created, err := shoppingListRepo.CreateWithProducts(r.Context(), list, lines)
	if err != nil {
		serverError(w, "auto-create shopping list", err)
		return
	}
	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

// GetShoppingListsHandler godoc
// @Summary List the shopping lists of the current user
// @Tags shopping-lists
// @Produce json
// @Success 200 {object} ShoppingListsResult
// @Router /shopping-lists [get]
// @Security CookieAuth
func GetShoppingListsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	lists, err := shoppingListRepo.ListByUser(r.Context(), userID)
	if err != nil {
		serverError(w, "list shopping lists", err)
		return
	}
	respond(w, http.StatusOK, ShoppingListsResult{ShoppingLists: lists})
}

// fetchShoppingList resolves the {id} parameter to a list of the current user.
func fetchShoppingList(w http.ResponseWriter, r *http.Request) (uuid.UUID, models.ShoppingList, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return uuid.Nil, models.ShoppingList{}, false
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return uuid.Nil, models.ShoppingList{}, false
	}

	list, err := shoppingListRepo.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrShoppingListNotFound) {
		writeMessage(w, http.StatusNotFound, "Shopping List not found.")
		return uuid.Nil, models.ShoppingList{}, false
	}
	if err != nil {
		serverError(w, "fetch shopping list", err)
		return uuid.Nil, models.ShoppingList{}, false
	}
	return userID, list, true
}

// storedLine returns the storage row of a product, or nil when it is not stored.
func storedLine(ctx context.Context, storage *models.Storage, productID uuid.UUID) (*models.StorageProduct, error) {
	if storage == nil {
		return nil, nil
	}
	sp, err := storageRepo.GetProduct(ctx, storage.ID, productID)
	if errors.Is(err, repo.ErrStorageProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

// userStorage returns the storage of the user, or nil when there is none.
func userStorage(ctx context.Context, userID uuid.UUID) (*models.Storage, error) {
	storage, err := storageRepo.GetByUser(ctx, userID)
	if errors.Is(err, repo.ErrStorageNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &storage, nil
}

// GetShoppingListHandler godoc
// @Summary Get a shopping list with its products
// @Description Each product carries its quantity and status in the user's storage, when stored
// @Tags shopping-lists
// @Produce json
// @Param id path string true "Shopping list ID"
// @Success 200 {object} ShoppingListResult
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id} [get]
// @Security CookieAuth
func GetShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	lines, err := shoppingListRepo.ListProducts(ctx, list.ID)
	if err != nil {
		serverError(w, "list shopping list products", err)
		return
	}
	storage, err := userStorage(ctx, userID)
	if err != nil {
		serverError(w, "fetch storage", err)
		return
	}
	names, err := newNameLookup(ctx, userID)
	if err != nil {
		serverError(w, "list brands", err)
		return
	}

	details := ShoppingListDetails{ShoppingList: list, Products: make([]ShoppingListProductResponse, 0, len(lines))}
	for _, line := range lines {
		product, err := names.product(ctx, line.ProductID)
		if err != nil {
			serverError(w, "fetch listed product", err)
			return
		}
		item := ShoppingListProductResponse{ShoppingListProduct: line, ProductName: product.Name}

		sp, err := storedLine(ctx, storage, line.ProductID)
		if err != nil {
			serverError(w, "fetch storage product", err)
			return
		}
		if sp != nil {
			item.QuantityInStorage = &sp.Quantity
			item.Status = &sp.Status
		}
		details.Products = append(details.Products, item)
	}

	respond(w, http.StatusOK, ShoppingListResult{ShoppingList: details})
}

// AddProductsToShoppingListHandler godoc
// @Summary Add products to an open shopping list
// @Description Invalid entries are skipped; the request fails only when none is valid
// @Tags shopping-lists
// @Accept json
// @Produce json
// @Param id path string true "Shopping list ID"
// @Param products body AddToShoppingListRequest true "Products to add"
// @Success 200 {object} AddedResult
// @Failure 400 {object} InvalidProductsResponse
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id} [post]
// @Security CookieAuth
func AddProductsToShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}
	if list.Completed() {
		writeMessage(w, http.StatusBadRequest, "Cannot add products to completed shopping list.")
		return
	}

	var req AddToShoppingListRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateAddToShoppingList(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	refs := make([]productRef, len(req.Products))
	for i, p := range req.Products {
		refs[i] = productRef{ProductID: p.PublicID, BrandID: p.BrandID}
	}
	inList := func(ctx context.Context, productID uuid.UUID) (bool, error) {
		_, err := shoppingListRepo.GetProduct(ctx, list.ID, productID)
		if errors.Is(err, repo.ErrListProductNotFound) {
			return false, nil
		}
		return err == nil, err
	}

	selected, causes, err := selectProducts(r.Context(), userID, refs, inList, "shopping list")
	if err != nil {
		serverError(w, "check shopping list products", err)
		return
	}
	if len(selected) == 0 {
		respond(w, http.StatusBadRequest, InvalidProductsResponse{
			Message: "None of the products select were valid. Try again.",
			Causes:  causes,
		})
		return
	}

	t := now()
	lines := make([]models.ShoppingListProduct, len(selected))
	for i, s := range selected {
		lines[i] = models.ShoppingListProduct{
			ID:             uuid.New(),
			ShoppingListID: list.ID,
			ProductID:      s.ProductID,
			BrandID:        s.BrandID,
			CreatedAt:      t,
			UpdatedAt:      t,
		}
	}

	err = shoppingListRepo.AddProducts(r.Context(), lines)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "Product is already in shoppingList.")
		return
	}
	if err != nil {
		serverError(w, "add shopping list products", err)
		return
	}
	respond(w, http.StatusOK, AddedResult{Added: len(lines)})
}

// RemoveProductFromShoppingListHandler godoc
// @Summary Remove a product from an open shopping list
// @Tags shopping-lists
// @Param id path string true "Shopping list ID"
// @Param productId path string true "Product ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id}/products/{productId}/remove [patch]
// @Security CookieAuth
func RemoveProductFromShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}
	if list.Completed() {
		writeMessage(w, http.StatusBadRequest, "Cannot remove product from completed shopping list.")
		return
	}
	productID, ok := uuidParam(w, r, "productId")
	if !ok {
		return
	}
	if _, ok := fetchProduct(w, r, userID, productID); !ok {
		return
	}

	err := shoppingListRepo.RemoveProduct(r.Context(), list.ID, productID)
	if errors.Is(err, repo.ErrListProductNotFound) {
		writeMessage(w, http.StatusBadRequest, "Product is not in shoppingList.")
		return
	}
	if err != nil {
		serverError(w, "remove shopping list product", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteShoppingListHandler godoc
// @Summary Delete a shopping list and its products
// @Tags shopping-lists
// @Param id path string true "Shopping list ID"
// @Success 200
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id} [delete]
// @Security CookieAuth
func DeleteShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}

	if err := shoppingListRepo.Delete(r.Context(), userID, list.ID); err != nil {
		if errors.Is(err, repo.ErrShoppingListNotFound) {
			writeMessage(w, http.StatusNotFound, "Shopping List not found.")
			return
		}
		serverError(w, "delete shopping list", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PrintShoppingListHandler godoc
// @Summary Printable version of a shopping list
// @Tags shopping-lists
// @Produce json, text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Shopping list ID"
// @Param format query string false "Output format (json, csv or xlsx)"
// @Success 200 {object} PrintableShoppingList
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id}/print [get]
// @Security CookieAuth
func PrintShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" && format != "xlsx" {
		writeMessage(w, http.StatusBadRequest, "format must be 'json', 'csv' or 'xlsx'")
		return
	}

	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	storage, err := userStorage(ctx, userID)
	if err != nil {
		serverError(w, "fetch storage", err)
		return
	}
	if storage == nil {
		writeMessage(w, http.StatusUnauthorized, "User does not have a storage.")
		return
	}

	printable, err := printableShoppingList(ctx, userID, list, storage)
	if err != nil {
		serverError(w, "print shopping list", err)
		return
	}

	switch format {
	case "json":
		respond(w, http.StatusOK, printable)
	case "csv":
		writePrintableCSV(w, printable)
	case "xlsx":
		writePrintableXLSX(w, printable)
	}
}

func printableShoppingList(ctx context.Context, userID uuid.UUID, list models.ShoppingList, storage *models.Storage) (PrintableShoppingList, error) {
	lines, err := shoppingListRepo.ListProducts(ctx, list.ID)
	if err != nil {
		return PrintableShoppingList{}, err
	}
	names, err := newNameLookup(ctx, userID)
	if err != nil {
		return PrintableShoppingList{}, err
	}
	typeNames := map[uuid.UUID]string{}
	for _, tr := range []repo.TaxonomyRepository{productTypeRepo, unitTypeRepo} {
		entries, err := tr.ListByUser(ctx, userID)
		if err != nil {
			return PrintableShoppingList{}, err
		}
		for _, e := range entries {
			typeNames[e.ID] = e.Name
		}
	}

	printable := PrintableShoppingList{ShoppingListID: list.ID, Products: make([]PrintableProduct, 0, len(lines))}
	for _, line := range lines {
		product, err := names.product(ctx, line.ProductID)
		if err != nil {
			return PrintableShoppingList{}, err
		}
		item := PrintableProduct{
			PublicID:    product.ID,
			Name:        product.Name,
			ProductType: typeNames[product.ProductTypeID],
			UnitType:    typeNames[product.UnitTypeID],
			BrandName:   names.brand(line.BrandID),
		}
		sp, err := storedLine(ctx, storage, line.ProductID)
		if err != nil {
			return PrintableShoppingList{}, err
		}
		if sp != nil {
			item.Status = &sp.Status
			item.QuantityInStorage = &sp.Quantity
		}
		printable.Products = append(printable.Products, item)
	}
	return printable, nil
}

var printColumns = []string{"public_id", "name", "product_type", "unit_type", "status", "quantity_in_storage", "brand_name"}

func printableRecord(p PrintableProduct) []string {
	status, quantity := "", ""
	if p.Status != nil {
		status = string(*p.Status)
	}
	if p.QuantityInStorage != nil {
		quantity = strconv.Itoa(*p.QuantityInStorage)
	}
	return []string{p.PublicID.String(), p.Name, p.ProductType, p.UnitType, status, quantity, p.BrandName}
}

func writePrintableCSV(w http.ResponseWriter, printable PrintableShoppingList) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping-list.csv"`)

	csvWriter := csv.NewWriter(w)
	_ = csvWriter.Write(printColumns)
	for _, p := range printable.Products {
		_ = csvWriter.Write(printableRecord(p))
	}
	csvWriter.Flush()
}

func writePrintableXLSX(w http.ResponseWriter, printable PrintableShoppingList) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Shopping List"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		serverError(w, "build workbook", err)
		return
	}

	for i, record := range append([][]string{printColumns}, printableRows(printable)...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			serverError(w, "build workbook", err)
			return
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			serverError(w, "build workbook", err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping-list.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Printf("failed to write workbook: %v", err)
	}
}

func printableRows(printable PrintableShoppingList) [][]string {
	rows := make([][]string, len(printable.Products))
	for i, p := range printable.Products {
		rows[i] = printableRecord(p)
	}
	return rows
}
