package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/pantry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/mail"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

const (
	testSecret = "handlers-test-secret-0123456789abcdef"
	testEmail  = "tester@example.com"
	apiPrefix  = "/api/v1"
)

var (
	session *http.Cookie

	userRepo         *repo.InMemoryUserRepository
	brandRepo        *repo.InMemoryBrandRepository
	productTypeRepo  *repo.InMemoryTaxonomyRepository
	unitTypeRepo     *repo.InMemoryTaxonomyRepository
	productRepo      *repo.InMemoryProductRepository
	storageRepo      *repo.InMemoryStorageRepository
	shoppingListRepo *repo.InMemoryShoppingListRepository
	priceLogRepo     *repo.InMemoryPriceLogRepository

	links  *auth.MemoryLinkStore
	mailer *mail.LogMailer
)

var tokenPattern = regexp.MustCompile(`token=(\S+)`)

func init() {
	auth.SetSecret([]byte(testSecret))
	rl.Configure(1000, 1000)
	setupTestRepos()

	var err error
	session, err = login(router.NewRouter(), "Tester", testEmail)
	if err != nil {
		panic(fmt.Sprintf("error logging in: %v", err))
	}
}

func setupTestRepos() {
	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	brandRepo = repo.NewInMemoryBrandRepository()
	handler.SetBrandRepo(brandRepo)

	productTypeRepo = repo.NewInMemoryProductTypeRepository()
	handler.SetProductTypeRepo(productTypeRepo)
	unitTypeRepo = repo.NewInMemoryUnitTypeRepository()
	handler.SetUnitTypeRepo(unitTypeRepo)

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	storageRepo = repo.NewInMemoryStorageRepository()
	productRepo.SetStatusRecomputer(storageRepo)
	handler.SetStorageRepo(storageRepo)

	shoppingListRepo = repo.NewInMemoryShoppingListRepository()
	handler.SetShoppingListRepo(shoppingListRepo)

	priceLogRepo = repo.NewInMemoryPriceLogRepository()
	handler.SetPriceLogRepo(priceLogRepo)

	completionRepo := repo.NewInMemoryCompletionRepository()
	completionRepo.SetRepositories(brandRepo, shoppingListRepo, storageRepo, priceLogRepo)
	handler.SetCompletionRepo(completionRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, storageRepo, shoppingListRepo)
	handler.SetMetricsRepo(metricsRepo)

	links = auth.NewMemoryLinkStore()
	handler.SetLinkStore(links)
	mailer = mail.NewLogMailer()
	handler.SetMailer(mailer)

	handler.SetAuthSettings(handler.AuthSettings{
		AppURL:       "http://localhost:8080",
		LoginLinkTTL: 5 * time.Minute,
		SessionTTL:   time.Hour,
	})
}

// clearAll resets everything except users, so the session stays valid.
func clearAll() {
	brandRepo.Clear()
	productTypeRepo.Clear()
	unitTypeRepo.Clear()
	productRepo.Clear()
	storageRepo.Clear()
	shoppingListRepo.Clear()
	priceLogRepo.Clear()
}

// requestLoginLink registers and returns the token mailed to the user.
func requestLoginLink(r http.Handler, name, email string) (string, error) {
	w := doRequest(r, http.MethodPost, apiPrefix+"/users/register", handler.RegisterRequest{Name: name, Email: email}, nil)
	if w.Code != http.StatusOK {
		return "", fmt.Errorf("register returned %d: %s", w.Code, w.Body.String())
	}

	msg, ok := mailer.Last()
	if !ok {
		return "", fmt.Errorf("no login link was mailed")
	}
	m := tokenPattern.FindStringSubmatch(msg.Body)
	if m == nil {
		return "", fmt.Errorf("no token in mail body %q", msg.Body)
	}
	return url.QueryUnescape(m[1])
}

func login(r http.Handler, name, email string) (*http.Cookie, error) {
	token, err := requestLoginLink(r, name, email)
	if err != nil {
		return nil, err
	}

	w := doRequest(r, http.MethodGet, apiPrefix+"/users/verify?token="+url.QueryEscape(token), nil, nil)
	if w.Code != http.StatusFound {
		return nil, fmt.Errorf("verify returned %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == handler.SessionCookieName {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no session cookie set")
}

// doRequest sends body as JSON; a nil cookie means an anonymous request.
func doRequest(r http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authed(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	return doRequest(r, method, apiPrefix+path, body, session)
}

func decode[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	err := json.NewDecoder(w.Body).Decode(&v)
	return v, err
}

func ptr[T any](v T) *T {
	return &v
}

// mustCreate posts body and returns the public id of the created entity.
func mustCreate(r http.Handler, path string, body any) uuid.UUID {
	w := authed(r, http.MethodPost, path, body)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("POST %s returned %d: %s", path, w.Code, w.Body.String()))
	}
	resp, err := decode[handler.CreatedResponse](w)
	if err != nil {
		panic(err)
	}
	return resp.PublicID
}

type fixture struct {
	productTypeID uuid.UUID
	unitTypeID    uuid.UUID
}

func newFixture(r http.Handler) fixture {
	return fixture{
		productTypeID: mustCreate(r, "/productTypes", handler.TaxonomyRequest{Name: ptr("Dairy")}),
		unitTypeID:    mustCreate(r, "/unitTypes", handler.TaxonomyRequest{Name: ptr("L")}),
	}
}

func (f fixture) product(r http.Handler, name string, minQuantity int) uuid.UUID {
	return mustCreate(r, "/products", handler.ProductRequest{
		Name:          ptr(name),
		ProductTypeID: &f.productTypeID,
		UnitTypeID:    &f.unitTypeID,
		MinQuantity:   ptr(minQuantity),
	})
}

func createStorage(r http.Handler) uuid.UUID {
	return mustCreate(r, "/storages", nil)
}

func storeProducts(r http.Handler, storageID uuid.UUID, products ...handler.StorageProductRequest) *httptest.ResponseRecorder {
	return authed(r, http.MethodPost, "/storages/"+storageID.String(), handler.AddToStorageRequest{Products: products})
}

func multipartFile(content []byte, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write(content)

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importFile(r http.Handler, content []byte, filename, mode string) *httptest.ResponseRecorder {
	body, contentType := multipartFile(content, filename)
	path := apiPrefix + "/products/import"
	if mode != "" {
		path += "?mode=" + mode
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(session)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
