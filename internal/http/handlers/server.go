package handlers

import (
	"time"

	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	"github.com/rogerio-castellano/pantry-tracker/internal/mail"
	repo "github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

var (
	userRepo         repo.UserRepository
	brandRepo        repo.BrandRepository
	productTypeRepo  repo.TaxonomyRepository
	unitTypeRepo     repo.TaxonomyRepository
	productRepo      repo.ProductRepository
	storageRepo      repo.StorageRepository
	shoppingListRepo repo.ShoppingListRepository
	priceLogRepo     repo.PriceLogRepository
	completionRepo   repo.CompletionRepository
	metricsRepo      repo.MetricsRepository

	linkStore auth.LinkStore
	mailer    mail.Mailer

	settings = AuthSettings{
		AppURL:       "http://localhost:8080",
		LoginLinkTTL: 5 * time.Minute,
		SessionTTL:   7 * 24 * time.Hour,
	}
)

// AuthSettings controls login links and the session cookie.
type AuthSettings struct {
	AppURL       string
	LoginLinkTTL time.Duration
	SessionTTL   time.Duration
	CookieSecure bool
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetBrandRepo(r repo.BrandRepository) {
	brandRepo = r
}

func SetProductTypeRepo(r repo.TaxonomyRepository) {
	productTypeRepo = r
}

func SetUnitTypeRepo(r repo.TaxonomyRepository) {
	unitTypeRepo = r
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetStorageRepo(r repo.StorageRepository) {
	storageRepo = r
}

func SetShoppingListRepo(r repo.ShoppingListRepository) {
	shoppingListRepo = r
}

func SetPriceLogRepo(r repo.PriceLogRepository) {
	priceLogRepo = r
}

func SetCompletionRepo(r repo.CompletionRepository) {
	completionRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetLinkStore(s auth.LinkStore) {
	linkStore = s
}

func SetMailer(m mail.Mailer) {
	mailer = m
}

func SetAuthSettings(s AuthSettings) {
	settings = s
}
