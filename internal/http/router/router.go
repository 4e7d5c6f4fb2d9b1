package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/pantry-tracker/docs"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/pantry-tracker/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.With(mw.RateLimitMiddleware).Post("/register", handlers.RegisterHandler)
			r.Get("/verify", handlers.VerifyHandler)
			r.Post("/logout", handlers.LogoutHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware)

			r.Route("/brands", func(r chi.Router) {
				r.Post("/", handlers.CreateBrandHandler)
				r.Get("/", handlers.GetBrandsHandler)
				r.Get("/{id}", handlers.GetBrandHandler)
				r.Put("/{id}", handlers.UpdateBrandHandler)
				r.Delete("/{id}", handlers.DeleteBrandHandler)
			})

			r.Route("/productTypes", func(r chi.Router) {
				r.Post("/", handlers.CreateProductTypeHandler)
				r.Get("/", handlers.GetProductTypesHandler)
				r.Get("/{id}", handlers.GetProductTypeHandler)
				r.Put("/{id}", handlers.UpdateProductTypeHandler)
				r.Delete("/{id}", handlers.DeleteProductTypeHandler)
			})

			r.Route("/unitTypes", func(r chi.Router) {
				r.Post("/", handlers.CreateUnitTypeHandler)
				r.Get("/", handlers.GetUnitTypesHandler)
				r.Get("/{id}", handlers.GetUnitTypeHandler)
				r.Put("/{id}", handlers.UpdateUnitTypeHandler)
				r.Delete("/{id}", handlers.DeleteUnitTypeHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Post("/", handlers.CreateProductHandler)
				r.Get("/", handlers.GetProductsHandler)
				r.Post("/import", handlers.ImportProductsHandler)
				r.Get("/{id}", handlers.GetProductByIDHandler)
				r.Put("/{id}", handlers.UpdateProductHandler)
				r.Delete("/{id}", handlers.DeleteProductHandler)
				r.Get("/{id}/price-log", handlers.GetPriceLogHandler)
				r.Get("/{id}/price-log/export", handlers.ExportPriceLogHandler)
			})

			r.Route("/storages", func(r chi.Router) {
				r.Post("/", handlers.CreateStorageHandler)
				r.Get("/", handlers.GetCurrentStorageHandler)
				r.Get("/{id}", handlers.GetStorageHandler)
				r.Post("/{id}", handlers.AddProductsToStorageHandler)
				r.Delete("/{id}", handlers.DeleteStorageHandler)
				r.Patch("/{id}/products/{productId}/update-quantity", handlers.UpdateStorageQuantityHandler)
				r.Patch("/{id}/products/{productId}/remove-product", handlers.RemoveProductFromStorageHandler)
			})

			r.Route("/shopping-lists", func(r chi.Router) {
				r.Post("/", handlers.CreateShoppingListHandler)
				r.Get("/", handlers.GetShoppingListsHandler)
				r.Post("/auto-create", handlers.AutoCreateShoppingListHandler)
				r.Get("/{id}", handlers.GetShoppingListHandler)
				r.Post("/{id}", handlers.AddProductsToShoppingListHandler)
				r.Delete("/{id}", handlers.DeleteShoppingListHandler)
				r.Get("/{id}/print", handlers.PrintShoppingListHandler)
				r.Patch("/{id}/complete", handlers.CompleteShoppingListHandler)
				r.Patch("/{id}/products/{productId}/remove", handlers.RemoveProductFromShoppingListHandler)
			})

			r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
		})
	})

	return r
}
