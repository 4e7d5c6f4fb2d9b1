package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	models "github.com/rogerio-castellano/pantry-tracker/internal/models"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
	"github.com/shopspring/decimal"
)

// CompleteShoppingListHandler godoc
// @Summary Complete a shopping list
// @Description Records what was bought, logs prices, creates unknown brands and restocks the storage in one transaction
// @Tags shopping-lists
// @Accept json
// @Param id path string true "Shopping list ID"
// @Param purchase body CompleteShoppingListRequest true "Products bought"
// @Success 204
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /shopping-lists/{id}/complete [patch]
// @Security CookieAuth
func CompleteShoppingListHandler(w http.ResponseWriter, r *http.Request) {
	userID, list, ok := fetchShoppingList(w, r)
	if !ok {
		return
	}

	var req CompleteShoppingListRequest
	if err := readJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return
	}
	if errs := validateCompletion(req); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if list.Completed() {
		writeMessage(w, http.StatusBadRequest, "Shopping List is already completed.")
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

	t := now()
	completion := models.Completion{ShoppingListID: list.ID, CompletedAt: t}
	newBrands := map[string]uuid.UUID{}
	seen := map[uuid.UUID]bool{}

	for i, bought := range req.ProductsBought {
		if seen[bought.ProductID] {
			writeValidationErrors(w, []ValidationError{{
				Field:       fmt.Sprintf("productsBought[%d].productId", i),
				Description: "Product is repeated in the request",
			}})
			return
		}
		seen[bought.ProductID] = true

		line, err := shoppingListRepo.GetProduct(ctx, list.ID, bought.ProductID)
		if errors.Is(err, repo.ErrListProductNotFound) {
			writeMessage(w, http.StatusBadRequest, "Product is not in shoppingList.")
			return
		}
		if err != nil {
			serverError(w, "fetch shopping list product", err)
			return
		}
		product, ok := fetchProduct(w, r, userID, bought.ProductID)
		if !ok {
			return
		}

		brandID := line.BrandID
		if name := strings.TrimSpace(deref(bought.BrandName)); name != "" {
			key := strings.ToLower(name)
			id, isNew := newBrands[key]
			if !isNew {
				brand, err := brandRepo.GetByName(ctx, userID, name)
				switch {
				case err == nil:
					id = brand.ID
				case errors.Is(err, repo.ErrBrandNotFound):
					id = uuid.New()
					newBrands[key] = id
					completion.Brands = append(completion.Brands, models.Brand{
						ID:        id,
						UserID:    userID,
						Name:      name,
						CreatedAt: t,
						UpdatedAt: t,
					})
				default:
					serverError(w, "fetch brand", err)
					return
				}
			}
			brandID = &id
		}

		quantity := bought.QuantityBought
		line.BrandID = brandID
		line.QuantityBought = &quantity
		line.UpdatedAt = t
		if bought.PricePaidPerItem != nil {
			price := *bought.PricePaidPerItem
			line.PricePaidPerItem = decimal.NewNullDecimal(price)
			line.TotalPricePaid = decimal.NewNullDecimal(price.Mul(decimal.NewFromInt(int64(quantity))))
			completion.PriceLogs = append(completion.PriceLogs, models.PriceLog{
				ID:        uuid.New(),
				ProductID: product.ID,
				BrandID:   brandID,
				Price:     price,
				LoggedAt:  t,
			})
		}
		completion.Lines = append(completion.Lines, line)

		completion.Restocks = append(completion.Restocks, models.Restock{
			StorageID:   storage.ID,
			ProductID:   product.ID,
			BrandID:     brandID,
			Quantity:    quantity,
			MinQuantity: product.MinQuantity,
		})
	}

	err = completionRepo.CompleteShoppingList(ctx, completion)
	switch {
	case errors.Is(err, repo.ErrListCompleted):
		writeMessage(w, http.StatusBadRequest, "Shopping List is already completed.")
	case errors.Is(err, repo.ErrShoppingListNotFound):
		writeMessage(w, http.StatusNotFound, "Shopping List not found.")
	case errors.Is(err, repo.ErrListProductNotFound):
		writeMessage(w, http.StatusBadRequest, "Product is not in shoppingList.")
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		writeMessage(w, http.StatusBadRequest, "Name already in use.")
	case errors.Is(err, repo.ErrQuantityTooLarge):
		writeMessage(w, http.StatusBadRequest, "Quantity in storage would exceed the maximum.")
	case errors.Is(err, repo.ErrProductNotFound):
		writeMessage(w, http.StatusNotFound, "Product not found.")
	case err != nil:
		serverError(w, "complete shopping list", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
