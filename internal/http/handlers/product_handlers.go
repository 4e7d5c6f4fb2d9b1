package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} MessageResponse
// @Router /products [post]
// @Security CookieAuth
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateProduct(req, false); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}
	if !checkProductTypes(w, r, userID, *req.ProductTypeID, *req.UnitTypeID) {
		return
	}

	t := now()
	product := models.Product{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          strings.TrimSpace(*req.Name),
		Description:   deref(req.Description),
		ProductTypeID: *req.ProductTypeID,
		UnitTypeID:    *req.UnitTypeID,
		MinQuantity:   *req.MinQuantity,
		CreatedAt:     t,
		UpdatedAt:     t,
	}
	created, err := productRepo.Create(r.Context(), product)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
		return
	}
	if err != nil {
		serverError(w, "create product", err)
		return
	}

	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

// checkProductTypes answers 400 when a type does not belong to the user.
func checkProductTypes(w http.ResponseWriter, r *http.Request, userID, productTypeID, unitTypeID uuid.UUID) bool {
	checks := []struct {
		repo  repo.TaxonomyRepository
		id    uuid.UUID
		label string
	}{
		{productTypeRepo, productTypeID, productTypeRules.label},
		{unitTypeRepo, unitTypeID, unitTypeRules.label},
	}
	for _, c := range checks {
		_, err := c.repo.GetByID(r.Context(), userID, c.id)
		if errors.Is(err, repo.ErrTaxonomyNotFound) {
			writeMessage(w, http.StatusBadRequest, "Invalid "+c.label+" provided.")
			return false
		}
		if err != nil {
			serverError(w, "fetch "+c.label, err)
			return false
		}
	}
	return true
}

// productResponses embeds product and unit types, loading each taxonomy once.
func productResponses(ctx context.Context, userID uuid.UUID, products []models.Product) ([]ProductResponse, error) {
	productTypes, err := productTypeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unitTypes, err := unitTypeRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := func(ts []models.Taxonomy) map[uuid.UUID]*models.Taxonomy {
		m := make(map[uuid.UUID]*models.Taxonomy, len(ts))
		for i := range ts {
			m[ts[i].ID] = &ts[i]
		}
		return m
	}
	pt, ut := index(productTypes), index(unitTypes)

	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = ProductResponse{
			PublicID:    p.ID,
			Name:        p.Name,
			Description: p.Description,
			MinQuantity: p.MinQuantity,
			ProductType: pt[p.ProductTypeID],
			UnitType:    ut[p.UnitTypeID],
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
	}
	return resp, nil
}

// GetProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param name query string false "Filter by name (case-insensitive substring)"
// @Param productTypeId query string false "Filter by product type"
// @Param unitTypeId query string false "Filter by unit type"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ValidationErrorResponse
// @Router /products [get]
// @Security CookieAuth
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	offset, limit, errs := pagination(r)
	productTypeID, err := parseUUIDPtr(q.Get("productTypeId"))
	if err != nil {
		errs = append(errs, ValidationError{Field: "productTypeId", Description: "must be a valid UUID"})
	}
	unitTypeID, err := parseUUIDPtr(q.Get("unitTypeId"))
	if err != nil {
		errs = append(errs, ValidationError{Field: "unitTypeId", Description: "must be a valid UUID"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	filter := repo.ProductFilter{
		UserID:        userID,
		Name:          strings.TrimSpace(q.Get("name")),
		ProductTypeID: productTypeID,
		UnitTypeID:    unitTypeID,
		Offset:        offset,
		Limit:         limit,
	}

	products, total, err := productRepo.Filter(r.Context(), filter)
	if err != nil {
		serverError(w, "filter products", err)
		return
	}

	data, err := productResponses(r.Context(), userID, products)
	if err != nil {
		serverError(w, "load product types", err)
		return
	}
	respond(w, http.StatusOK, ProductsSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}

// fetchProduct answers 404 itself when the product does not exist.
func fetchProduct(w http.ResponseWriter, r *http.Request, userID, id uuid.UUID) (models.Product, bool) {
	product, err := productRepo.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		writeMessage(w, http.StatusNotFound, "Product not found.")
		return models.Product{}, false
	}
	if err != nil {
		serverError(w, "fetch product", err)
		return models.Product{}, false
	}
	return product, true
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [get]
// @Security CookieAuth
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	product, ok := fetchProduct(w, r, userID, id)
	if !ok {
		return
	}
	resp, err := productResponses(r.Context(), userID, []models.Product{product})
	if err != nil {
		serverError(w, "load product types", err)
		return
	}
	respond(w, http.StatusOK, ProductResult{Product: resp[0]})
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Omitted fields keep their values. Changing minQuantity refreshes the stock status of the product.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [put]
// @Security CookieAuth
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateProduct(req, true); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	product, ok := fetchProduct(w, r, userID, id)
	if !ok {
		return
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ProductTypeID != nil {
		product.ProductTypeID = *req.ProductTypeID
	}
	if req.UnitTypeID != nil {
		product.UnitTypeID = *req.UnitTypeID
	}
	if req.MinQuantity != nil {
		product.MinQuantity = *req.MinQuantity
	}
	if (req.ProductTypeID != nil || req.UnitTypeID != nil) && !checkProductTypes(w, r, userID, product.ProductTypeID, product.UnitTypeID) {
		return
	}
	product.UpdatedAt = now()

	updated, err := productRepo.Update(r.Context(), product)
	switch {
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
		return
	case errors.Is(err, repo.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, "Product not found.")
		return
	case err != nil:
		serverError(w, "update product", err)
		return
	}

	resp, err := productResponses(r.Context(), userID, []models.Product{updated})
	if err != nil {
		serverError(w, "load product types", err)
		return
	}
	respond(w, http.StatusOK, resp[0])
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Description Products kept in storage or listed on an open shopping list cannot be deleted
// @Tags products
// @Param id path string true "Product ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /products/{id} [delete]
// @Security CookieAuth
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if _, ok := fetchProduct(w, r, userID, id); !ok {
		return
	}

	stored, err := storageRepo.IsProductStored(r.Context(), id)
	if err != nil {
		serverError(w, "check storage", err)
		return
	}
	if stored {
		writeMessage(w, http.StatusBadRequest, "Cannot delete this product: In storage.")
		return
	}

	listed, err := shoppingListRepo.HasOpenListWithProduct(r.Context(), id)
	if err != nil {
		serverError(w, "check shopping lists", err)
		return
	}
	if listed {
		writeMessage(w, http.StatusBadRequest, "Cannot delete this product: In uncompleted shopping list.")
		return
	}

	if err := productRepo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			writeMessage(w, http.StatusNotFound, "Product not found.")
			return
		}
		serverError(w, "delete product", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
