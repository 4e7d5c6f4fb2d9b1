package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/models"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

type BrandsResult struct {
	Brands []models.Brand `json:"brands"`
}

type BrandResult struct {
	Brand models.Brand `json:"brand"`
}

// CreateBrandHandler godoc
// @Summary Create a brand
// @Tags brands
// @Accept json
// @Produce json
// @Param brand body BrandRequest true "Brand to add"
// @Success 201 {object} CreatedResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} MessageResponse
// @Router /brands [post]
// @Security CookieAuth
func CreateBrandHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req BrandRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateBrand(req, false); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	t := now()
	brand := models.Brand{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(*req.Name),
		Description: deref(req.Description),
		Image:       deref(req.Image),
		CreatedAt:   t,
		UpdatedAt:   t,
	}

	created, err := brandRepo.Create(r.Context(), brand)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
		return
	}
	if err != nil {
		serverError(w, "create brand", err)
		return
	}

	respond(w, http.StatusCreated, CreatedResponse{PublicID: created.ID})
}

// GetBrandsHandler godoc
// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {object} BrandsResult
// @Failure 401 {object} MessageResponse
// @Router /brands [get]
// @Security CookieAuth
func GetBrandsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	brands, err := brandRepo.ListByUser(r.Context(), userID)
	if err != nil {
		serverError(w, "list brands", err)
		return
	}
	respond(w, http.StatusOK, BrandsResult{Brands: brands})
}

// GetBrandHandler godoc
// @Summary Get a brand
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} BrandResult
// @Failure 404 {object} MessageResponse
// @Router /brands/{id} [get]
// @Security CookieAuth
func GetBrandHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	brand, err := brandRepo.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrBrandNotFound) {
		writeMessage(w, http.StatusNotFound, "Brand not found.")
		return
	}
	if err != nil {
		serverError(w, "fetch brand", err)
		return
	}
	respond(w, http.StatusOK, BrandResult{Brand: brand})
}

// UpdateBrandHandler godoc
// @Summary Update a brand
// @Description Omitted fields keep their current values
// @Tags brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param brand body BrandRequest true "Fields to change"
// @Success 200 {object} models.Brand
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} MessageResponse
// @Router /brands/{id} [put]
// @Security CookieAuth
func UpdateBrandHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req BrandRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateBrand(req, true); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	brand, err := brandRepo.GetByID(r.Context(), userID, id)
	if errors.Is(err, repo.ErrBrandNotFound) {
		writeMessage(w, http.StatusNotFound, "Brand not found.")
		return
	}
	if err != nil {
		serverError(w, "fetch brand", err)
		return
	}

	if req.Name != nil {
		brand.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		brand.Description = *req.Description
	}
	if req.Image != nil {
		brand.Image = *req.Image
	}
	brand.UpdatedAt = now()

	updated, err := brandRepo.Update(r.Context(), brand)
	switch {
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
	case errors.Is(err, repo.ErrBrandNotFound):
		writeMessage(w, http.StatusNotFound, "Brand not found.")
	case err != nil:
		serverError(w, "update brand", err)
	default:
		respond(w, http.StatusOK, updated)
	}
}

// DeleteBrandHandler godoc
// @Summary Delete a brand
// @Description A brand referenced by stored or listed products cannot be deleted
// @Tags brands
// @Param id path string true "Brand ID"
// @Success 200
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /brands/{id} [delete]
// @Security CookieAuth
func DeleteBrandHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if _, err := brandRepo.GetByID(r.Context(), userID, id); err != nil {
		if errors.Is(err, repo.ErrBrandNotFound) {
			writeMessage(w, http.StatusNotFound, "Brand not found.")
			return
		}
		serverError(w, "fetch brand", err)
		return
	}

	stored, err := storageRepo.CountBrandReferences(r.Context(), id)
	if err != nil {
		serverError(w, "count brand references", err)
		return
	}
	listed, err := shoppingListRepo.CountBrandReferences(r.Context(), id)
	if err != nil {
		serverError(w, "count brand references", err)
		return
	}
	if stored+listed > 0 {
		writeMessage(w, http.StatusBadRequest, "Cannot delete this brand: In use.")
		return
	}

	if err := brandRepo.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, repo.ErrBrandNotFound) {
			writeMessage(w, http.StatusNotFound, "Brand not found.")
			return
		}
		serverError(w, "delete brand", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
