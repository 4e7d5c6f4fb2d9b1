package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/rogerio-castellano/pantry-tracker/internal/stock"
)

// CreateStorageHandler godoc
// @Summary Create the storage of the current user
// @Tags storages
// @Produce json
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} MessageResponse
// @Router /storages [post]
// @Security CookieAuth
func CreateStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	storage := models.Storage{ID: uuid.New(), UserID: userID, CreatedAt: now()}
	created, err := storageRepo.Create(r.Context(), storage)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "You already have a storage.")
		return
	}
	if err != nil {
		serverError(w, "create storage", err)
		return
	}

	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

// GetCurrentStorageHandler godoc
// @Summary Get the storage of the current user
// @Tags storages
// @Produce json
// @Success 200 {object} StorageResult
// @Failure 404 {object} MessageResponse
// @Router /storages [get]
// @Security CookieAuth
func GetCurrentStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	storage, err := storageRepo.GetByUser(r.Context(), userID)
	if errors.Is(err, repo.ErrStorageNotFound) {
		writeMessage(w, http.StatusNotFound, "User does not have a storage.")
		return
	}
	if err != nil {
		serverError(w, "fetch storage", err)
		return
	}
	respond(w, http.StatusOK, StorageResult{Storage: storage})
}

// fetchStorage resolves the {id} parameter to a storage of the current user.
func fetchStorage(w http.ResponseWriter, r *http.Request) (uuid.UUID, models.Storage, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return uuid.Nil, models.Storage{}, false
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return uuid.Nil, models.Storage{}, false
	}

	storage, err := storageRepo.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrStorageNotFound) {
		writeMessage(w, http.StatusNotFound, "Storage not found.")
		return uuid.Nil, models.Storage{}, false
	}
	if err != nil {
		serverError(w, "fetch storage", err)
		return uuid.Nil, models.Storage{}, false
	}
	return userID, storage, true
}

func storageProductResponse(ctx context.Context, names *nameLookup, sp models.StorageProduct) (StorageProductResponse, error) {
	product, err := names.product(ctx, sp.ProductID)
	if err != nil {
		return StorageProductResponse{}, err
	}
	return StorageProductResponse{
		StorageProduct: sp,
		ProductName:    product.Name,
		BrandName:      names.brand(sp.BrandID),
	}, nil
}

// GetStorageHandler godoc
// @Summary List the products kept in a storage
// @Tags storages
// @Produce json
// @Param id path string true "Storage ID"
// @Success 200 {object} StorageProductsResult
// @Failure 404 {object} MessageResponse
// @Router /storages/{id} [get]
// @Security CookieAuth
func GetStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, storage, ok := fetchStorage(w, r)
	if !ok {
		return
	}

	rows, err := storageRepo.ListProducts(r.Context(), storage.ID)
	if err != nil {
		serverError(w, "list storage products", err)
		return
	}
	names, err := newNameLookup(r.Context(), userID)
	if err != nil {
		serverError(w, "list brands", err)
		return
	}

	resp := StorageProductsResult{Products: make([]StorageProductResponse, 0, len(rows))}
	for _, sp := range rows {
		item, err := storageProductResponse(r.Context(), names, sp)
		if err != nil {
			serverError(w, "fetch stored product", err)
			return
		}
		resp.Products = append(resp.Products, item)
	}
	respond(w, http.StatusOK, resp)
}

// AddProductsToStorageHandler godoc
// @Summary Add products to a storage
// @Description Invalid entries are skipped; the request fails only when none is valid
// @Tags storages
// @Accept json
// @Produce json
// @Param id path string true "Storage ID"
// @Param products body AddToStorageRequest true "Products to add"
// @Success 200 {object} AddedResult
// @Failure 400 {object} InvalidProductsResponse
// @Failure 404 {object} MessageResponse
// @Router /storages/{id} [post]
// @Security CookieAuth
func AddProductsToStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, storage, ok := fetchStorage(w, r)
	if !ok {
		return
	}

	var req AddToStorageRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateAddToStorage(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	refs := make([]productRef, len(req.Products))
	for i, p := range req.Products {
		refs[i] = productRef{ProductID: p.PublicID, BrandID: p.BrandID, Quantity: p.Quantity}
	}
	inStorage := func(ctx context.Context, productID uuid.UUID) (bool, error) {
		_, err := storageRepo.GetProduct(ctx, storage.ID, productID)
		if errors.Is(err, repo.ErrStorageProductNotFound) {
			return false, nil
		}
		return err == nil, err
	}

	selected, causes, err := selectProducts(r.Context(), userID, refs, inStorage, "storage")
	if err != nil {
		serverError(w, "check storage products", err)
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
	rows := make([]models.StorageProduct, len(selected))
	for i, s := range selected {
		rows[i] = models.StorageProduct{
			ID:        uuid.New(),
			StorageID: storage.ID,
			ProductID: s.ProductID,
			BrandID:   s.BrandID,
			Quantity:  s.Quantity,
			Status:    stock.ComputeStatus(s.Quantity, s.Product.MinQuantity),
			CreatedAt: t,
			UpdatedAt: t,
		}
	}

	err = storageRepo.AddProducts(r.Context(), rows)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "Product is already in storage.")
		return
	}
	if errors.Is(err, repo.ErrProductNotFound) {
		writeMessage(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		serverError(w, "add storage products", err)
		return
	}

	respond(w, http.StatusOK, AddedResult{Added: len(rows)})
}

// storedProduct resolves {productId} to a product of the user kept in the storage.
func storedProduct(w http.ResponseWriter, r *http.Request, userID uuid.UUID, storage models.Storage) (models.Product, models.StorageProduct, bool) {
	productID, ok := uuidParam(w, r, "productId")
	if !ok {
		return models.Product{}, models.StorageProduct{}, false
	}
	product, ok := fetchProduct(w, r, userID, productID)
	if !ok {
		return models.Product{}, models.StorageProduct{}, false
	}

	sp, err := storageRepo.GetProduct(r.Context(), storage.ID, productID)
	if errors.Is(err, repo.ErrStorageProductNotFound) {
		writeMessage(w, http.StatusBadRequest, "Product is not in storage.")
		return models.Product{}, models.StorageProduct{}, false
	}
	if err != nil {
		serverError(w, "fetch storage product", err)
		return models.Product{}, models.StorageProduct{}, false
	}
	return product, sp, true
}

// UpdateStorageQuantityHandler godoc
// @Summary Set the quantity of a stored product
// @Tags storages
// @Accept json
// @Produce json
// @Param id path string true "Storage ID"
// @Param productId path string true "Product ID"
// @Param quantity body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} models.StorageProduct
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /storages/{id}/products/{productId}/update-quantity [patch]
// @Security CookieAuth
func UpdateStorageQuantityHandler(w http.ResponseWriter, r *http.Request) {
	userID, storage, ok := fetchStorage(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateUpdateQuantity(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, sp, ok := storedProduct(w, r, userID, storage)
	if !ok {
		return
	}

	sp.Quantity = *req.NewQuantity
	sp.Status = stock.ComputeStatus(sp.Quantity, product.MinQuantity)
	sp.UpdatedAt = now()

	updated, err := storageRepo.UpdateProduct(r.Context(), sp)
	if errors.Is(err, repo.ErrStorageProductNotFound) {
		writeMessage(w, http.StatusBadRequest, "Product is not in storage.")
		return
	}
	if errors.Is(err, repo.ErrProductNotFound) {
		writeMessage(w, http.StatusNotFound, "Product not found.")
		return
	}
	if err != nil {
		serverError(w, "update storage quantity", err)
		return
	}
	respond(w, http.StatusOK, updated)
}

// RemoveProductFromStorageHandler godoc
// @Summary Remove a product from a storage
// @Tags storages
// @Param id path string true "Storage ID"
// @Param productId path string true "Product ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /storages/{id}/products/{productId}/remove-product [patch]
// @Security CookieAuth
func RemoveProductFromStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, storage, ok := fetchStorage(w, r)
	if !ok {
		return
	}
	_, sp, ok := storedProduct(w, r, userID, storage)
	if !ok {
		return
	}

	err := storageRepo.RemoveProduct(r.Context(), storage.ID, sp.ProductID)
	if errors.Is(err, repo.ErrStorageProductNotFound) {
		writeMessage(w, http.StatusBadRequest, "Product is not in storage.")
		return
	}
	if err != nil {
		serverError(w, "remove storage product", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// DeleteStorageHandler godoc
// @Summary Delete an empty storage
// @Tags storages
// @Param id path string true "Storage ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /storages/{id} [delete]
// @Security CookieAuth
func DeleteStorageHandler(w http.ResponseWriter, r *http.Request) {
	userID, storage, ok := fetchStorage(w, r)
	if !ok {
		return
	}

	rows, err := storageRepo.ListProducts(r.Context(), storage.ID)
	if err != nil {
		serverError(w, "list storage products", err)
		return
	}
	if len(rows) > 0 {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("You cannot delete this storage: %d products found.", len(rows)))
		return
	}

	if err := storageRepo.Delete(r.Context(), userID, storage.ID); err != nil {
		if errors.Is(err, repo.ErrStorageNotFound) {
			writeMessage(w, http.StatusNotFound, "Storage not found.")
			return
		}
		serverError(w, "delete storage", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
