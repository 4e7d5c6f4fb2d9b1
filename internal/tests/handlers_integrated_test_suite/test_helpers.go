package handlers_integrated_test_suite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	"github.com/rogerio-castellano/pantry-tracker/internal/db"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/pantry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/pantry-tracker/internal/mail"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

const (
	testSecret    = "integrated-test-secret-0123456789abcdef"
	apiPrefix     = "/api/v1"
	migrationsDir = "../../../migrations"
)

var (
	database *sql.DB
	mailer   *mail.LogMailer

	storageRepo *repo.PostgresStorageRepository
)

var tokenPattern = regexp.MustCompile(`token=(\S+)`)

// setupTestRepos migrates the database behind dsn and wires every Postgres repository.
func setupTestRepos(dsn string) error {
	if err := db.Migrate(dsn, migrationsDir); err != nil {
		return err
	}

	var err error
	database, err = db.Connect(dsn)
	if err != nil {
		return err
	}

	handler.SetUserRepo(repo.NewPostgresUserRepository(database))
	handler.SetBrandRepo(repo.NewPostgresBrandRepository(database))
	handler.SetProductTypeRepo(repo.NewPostgresProductTypeRepository(database))
	handler.SetUnitTypeRepo(repo.NewPostgresUnitTypeRepository(database))
	handler.SetProductRepo(repo.NewPostgresProductRepository(database))
	storageRepo = repo.NewPostgresStorageRepository(database)
	handler.SetStorageRepo(storageRepo)
	handler.SetShoppingListRepo(repo.NewPostgresShoppingListRepository(database))
	handler.SetPriceLogRepo(repo.NewPostgresPriceLogRepository(database))
	handler.SetCompletionRepo(repo.NewPostgresCompletionRepository(database))
	handler.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	auth.SetSecret([]byte(testSecret))
	rl.Configure(1000, 1000)
	handler.SetLinkStore(auth.NewMemoryLinkStore())
	mailer = mail.NewLogMailer()
	handler.SetMailer(mailer)
	handler.SetAuthSettings(handler.AuthSettings{
		AppURL:       "http://localhost:8080",
		LoginLinkTTL: 5 * time.Minute,
		SessionTTL:   time.Hour,
	})
	return nil
}

func databaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// newUser logs in a user with a unique email, so runs never share rows.
func newUser(r http.Handler) (*http.Cookie, error) {
	email := fmt.Sprintf("it-%s@example.com", uuid.NewString())
	w := doRequest(r, http.MethodPost, apiPrefix+"/users/register", handler.RegisterRequest{Name: "Integrated", Email: email}, nil)
	if w.Code != http.StatusOK {
		return nil, fmt.Errorf("register returned %d: %s", w.Code, w.Body.String())
	}

	msg, ok := mailer.Last()
	if !ok {
		return nil, fmt.Errorf("no login link was mailed")
	}
	m := tokenPattern.FindStringSubmatch(msg.Body)
	if m == nil {
		return nil, fmt.Errorf("no token in mail body %q", msg.Body)
	}
	token, err := url.QueryUnescape(m[1])
	if err != nil {
		return nil, err
	}

	w = doRequest(r, http.MethodGet, apiPrefix+"/users/verify?token="+url.QueryEscape(token), nil, nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == handler.SessionCookieName {
			return c, nil
		}
	}
	return nil, fmt.Errorf("verify returned %d without a session cookie", w.Code)
}

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

func decode[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	err := json.NewDecoder(w.Body).Decode(&v)
	return v, err
}

func ptr[T any](v T) *T {
	return &v
}

// client issues authenticated requests for one user.
type client struct {
	r      http.Handler
	cookie *http.Cookie
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	return doRequest(c.r, method, apiPrefix+path, body, c.cookie)
}

func (c client) create(path string, body any) (uuid.UUID, error) {
	w := c.do(http.MethodPost, path, body)
	if w.Code != http.StatusCreated {
		return uuid.Nil, fmt.Errorf("POST %s returned %d: %s", path, w.Code, w.Body.String())
	}
	resp, err := decode[handler.CreatedResponse](w)
	return resp.PublicID, err
}
