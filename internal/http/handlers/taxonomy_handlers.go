package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

type ProductTypesResult struct {
	ProductTypes []models.Taxonomy `json:"productTypes"`
}

type UnitTypesResult struct {
	UnitTypes []models.Taxonomy `json:"unitTypes"`
}

type ProductTypeResult struct {
	ProductType models.Taxonomy `json:"productType"`
}

type UnitTypeResult struct {
	UnitType models.Taxonomy `json:"unitType"`
}

func createTaxonomy(w http.ResponseWriter, r *http.Request, tr repo.TaxonomyRepository, rules taxonomyRules) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req TaxonomyRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateTaxonomy(req, rules, false); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	t := now()
	created, err := tr.Create(r.Context(), models.Taxonomy{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        tr.Kind(),
		Name:        strings.TrimSpace(*req.Name),
		Description: deref(req.Description),
		CreatedAt:   t,
		UpdatedAt:   t,
	})
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
		return
	}
	if err != nil {
		serverError(w, "create "+rules.label, err)
		return
	}

	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

func listTaxonomies(w http.ResponseWriter, r *http.Request, tr repo.TaxonomyRepository, wrap func([]models.Taxonomy) any) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	entries, err := tr.ListByUser(r.Context(), userID)
	if err != nil {
		serverError(w, "list "+string(tr.Kind()), err)
		return
	}
	respond(w, http.StatusOK, wrap(entries))
}

// fetchTaxonomy answers 404 itself when the entry does not exist.
func fetchTaxonomy(w http.ResponseWriter, r *http.Request, tr repo.TaxonomyRepository, rules taxonomyRules) (models.Taxonomy, bool) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return models.Taxonomy{}, false
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return models.Taxonomy{}, false
	}

	t, err := tr.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrTaxonomyNotFound) {
		writeMessage(w, http.StatusNotFound, rules.label+" not found.")
		return models.Taxonomy{}, false
	}
	if err != nil {
		serverError(w, "fetch "+rules.label, err)
		return models.Taxonomy{}, false
	}
	return t, true
}

func updateTaxonomy(w http.ResponseWriter, r *http.Request, tr repo.TaxonomyRepository, rules taxonomyRules) {
	var req TaxonomyRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateTaxonomy(req, rules, true); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	t, ok := fetchTaxonomy(w, r, tr, rules)
	if !ok {
		return
	}
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	t.UpdatedAt = now()

	updated, err := tr.Update(r.Context(), t)
	switch {
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
	case errors.Is(err, repo.ErrTaxonomyNotFound):
		writeMessage(w, http.StatusNotFound, rules.label+" not found.")
	case err != nil:
		serverError(w, "update "+rules.label, err)
	default:
		respond(w, http.StatusOK, updated)
	}
}

func deleteTaxonomy(w http.ResponseWriter, r *http.Request, tr repo.TaxonomyRepository, rules taxonomyRules) {
	t, ok := fetchTaxonomy(w, r, tr, rules)
	if !ok {
		return
	}

	inUse, err := productRepo.CountByTaxonomy(r.Context(), tr.Kind(), t.ID)
	if err != nil {
		serverError(w, "count products by "+rules.label, err)
		return
	}
	if inUse > 0 {
		writeMessage(w, http.StatusBadRequest, "Cannot delete this "+rules.label+": In use by products.")
		return
	}

	if err := tr.Delete(r.Context(), t.UserID, t.ID); err != nil {
		if errors.Is(err, repo.ErrTaxonomyNotFound) {
			writeMessage(w, http.StatusNotFound, rules.label+" not found.")
			return
		}
		serverError(w, "delete "+rules.label, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// CreateProductTypeHandler godoc
// @Summary Create a product type
// @Tags productTypes
// @Accept json
// @Produce json
// @Param productType body TaxonomyRequest true "Product type to add"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /productTypes [post]
// @Security CookieAuth
func CreateProductTypeHandler(w http.ResponseWriter, r *http.Request) {
	createTaxonomy(w, r, productTypeRepo, productTypeRules)
}

// GetProductTypesHandler godoc
// @Summary List product types
// @Tags productTypes
// @Produce json
// @Success 200 {object} ProductTypesResult
// @Router /productTypes [get]
// @Security CookieAuth
func GetProductTypesHandler(w http.ResponseWriter, r *http.Request) {
	listTaxonomies(w, r, productTypeRepo, func(ts []models.Taxonomy) any { return ProductTypesResult{ProductTypes: ts} })
}

// GetProductTypeHandler godoc
// @Summary Get a product type
// @Tags productTypes
// @Produce json
// @Param id path string true "Product type ID"
// @Success 200 {object} ProductTypeResult
// @Failure 404 {object} MessageResponse
// @Router /productTypes/{id} [get]
// @Security CookieAuth
func GetProductTypeHandler(w http.ResponseWriter, r *http.Request) {
	if t, ok := fetchTaxonomy(w, r, productTypeRepo, productTypeRules); ok {
		respond(w, http.StatusOK, ProductTypeResult{ProductType: t})
	}
}

// UpdateProductTypeHandler godoc
// @Summary Update a product type
// @Tags productTypes
// @Accept json
// @Produce json
// @Param id path string true "Product type ID"
// @Param productType body TaxonomyRequest true "Fields to change"
// @Success 200 {object} models.Taxonomy
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /productTypes/{id} [put]
// @Security CookieAuth
func UpdateProductTypeHandler(w http.ResponseWriter, r *http.Request) {
	updateTaxonomy(w, r, productTypeRepo, productTypeRules)
}

// DeleteProductTypeHandler godoc
// @Summary Delete a product type
// @Tags productTypes
// @Param id path string true "Product type ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /productTypes/{id} [delete]
// @Security CookieAuth
func DeleteProductTypeHandler(w http.ResponseWriter, r *http.Request) {
	deleteTaxonomy(w, r, productTypeRepo, productTypeRules)
}

// CreateUnitTypeHandler godoc
// @Summary Create a unit type
// @Description Unit type names have 1 to 4 characters, e.g. kg or un
// @Tags unitTypes
// @Accept json
// @Produce json
// @Param unitType body TaxonomyRequest true "Unit type to add"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse
// @Router /unitTypes [post]
// @Security CookieAuth
func CreateUnitTypeHandler(w http.ResponseWriter, r *http.Request) {
	createTaxonomy(w, r, unitTypeRepo, unitTypeRules)
}

// GetUnitTypesHandler godoc
// @Summary List unit types
// @Tags unitTypes
// @Produce json
// @Success 200 {object} UnitTypesResult
// @Router /unitTypes [get]
// @Security CookieAuth
func GetUnitTypesHandler(w http.ResponseWriter, r *http.Request) {
	listTaxonomies(w, r, unitTypeRepo, func(ts []models.Taxonomy) any { return UnitTypesResult{UnitTypes: ts} })
}

// GetUnitTypeHandler godoc
// @Summary Get a unit type
// @Tags unitTypes
// @Produce json
// @Param id path string true "Unit type ID"
// @Success 200 {object} UnitTypeResult
// @Failure 404 {object} MessageResponse
// @Router /unitTypes/{id} [get]
// @Security CookieAuth
func GetUnitTypeHandler(w http.ResponseWriter, r *http.Request) {
	if t, ok := fetchTaxonomy(w, r, unitTypeRepo, unitTypeRules); ok {
		respond(w, http.StatusOK, UnitTypeResult{UnitType: t})
	}
}

// UpdateUnitTypeHandler godoc
// @Summary Update a unit type
// @Tags unitTypes
// @Accept json
// @Produce json
// @Param id path string true "Unit type ID"
// @Param unitType body TaxonomyRequest true "Fields to change"
// @Success 200 {object} models.Taxonomy
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /unitTypes/{id} [put]
// @Security CookieAuth
func UpdateUnitTypeHandler(w http.ResponseWriter, r *http.Request) {
	updateTaxonomy(w, r, unitTypeRepo, unitTypeRules)
}

// DeleteUnitTypeHandler godoc
// @Summary Delete a unit type
// @Tags unitTypes
// @Param id path string true "Unit type ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /unitTypes/{id} [delete]
// @Security CookieAuth
func DeleteUnitTypeHandler(w http.ResponseWriter, r *http.Request) {
	deleteTaxonomy(w, r, unitTypeRepo, unitTypeRules)
}
