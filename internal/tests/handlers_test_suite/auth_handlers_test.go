package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	handler "github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/pantry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
)

func TestRegisterHandler_Validation(t *testing.T) {
	r := router.NewRouter()

	tests := []struct {
		name          string
		payload       handler.RegisterRequest
		expectedField string
	}{
		{"Short name", handler.RegisterRequest{Name: "Al", Email: "al@example.com"}, "name"},
		{"Missing email", handler.RegisterRequest{Name: "Alice"}, "email"},
		{"Invalid email", handler.RegisterRequest{Name: "Alice", Email: "not-an-email"}, "email"},
		{"Display name email", handler.RegisterRequest{Name: "Bob", Email: "Bob <bob@example.com>"}, "email"},
		{"Angle bracket email", handler.RegisterRequest{Name: "Bob", Email: "<bob@example.com>"}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, apiPrefix+"/users/register", tt.payload, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp, err := decode[handler.ValidationErrorResponse](w)
			if err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(resp.Errors) != 1 || resp.Errors[0].Field != tt.expectedField {
				t.Errorf("expected one error on %q, got %+v", tt.expectedField, resp.Errors)
			}
		})
	}
}

func TestRegisterHandler_RateLimitIgnoresForwardedFor(t *testing.T) {
	rl.CleanupAllVisitors()
	rl.Configure(0, 1)
	t.Cleanup(func() {
		rl.Configure(1000, 1000)
		rl.CleanupAllVisitors()
	})
	r := router.NewRouter()

	register := func(forwardedFor string) int {
		body, _ := json.Marshal(handler.RegisterRequest{Name: "Mallory", Email: "mallory@example.com"})
		req := httptest.NewRequest(http.MethodPost, apiPrefix+"/users/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.RemoteAddr = "192.0.2.10:4321"

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := register("203.0.113.1"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := register("203.0.113.2"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 from the same peer, got %d", code)
	}
}

func TestRegisterHandler_ReusesExistingUser(t *testing.T) {
	r := router.NewRouter()

	if _, err := requestLoginLink(r, "Tester again", testEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, err := userRepo.GetByEmail(t.Context(), testEmail)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if user.Name != "Tester" {
		t.Errorf("expected the existing user to be kept, got name %q", user.Name)
	}
}

func TestVerifyHandler(t *testing.T) {
	r := router.NewRouter()

	t.Run("Missing token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, apiPrefix+"/users/verify", nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Malformed token", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, apiPrefix+"/users/verify?token=garbage", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Link works once", func(t *testing.T) {
		token, err := requestLoginLink(r, "Tester", testEmail)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		path := apiPrefix + "/users/verify?token=" + url.QueryEscape(token)

		first := doRequest(r, http.MethodGet, path, nil, nil)
		if first.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", first.Code)
		}
		if loc := first.Header().Get("Location"); loc != "http://localhost:8080" {
			t.Errorf("unexpected Location %q", loc)
		}

		second := doRequest(r, http.MethodGet, path, nil, nil)
		if second.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 on reuse, got %d", second.Code)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		token, jti, err := auth.GenerateLoginToken(uuid.New(), time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = links.Save(t.Context(), jti, time.Minute)

		w := doRequest(r, http.MethodGet, apiPrefix+"/users/verify?token="+url.QueryEscape(token), nil, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestAuthMiddleware(t *testing.T) {
	r := router.NewRouter()

	t.Run("No cookie", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, apiPrefix+"/products", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		resp, _ := decode[handler.MessageResponse](w)
		if resp.Message != "Not authenticated." {
			t.Errorf("unexpected message %q", resp.Message)
		}
	})

	t.Run("Login token is not a session", func(t *testing.T) {
		token, _, err := auth.GenerateLoginToken(uuid.New(), time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cookie := &http.Cookie{Name: handler.SessionCookieName, Value: token}
		w := doRequest(r, http.MethodGet, apiPrefix+"/products", nil, cookie)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("Valid session", func(t *testing.T) {
		w := authed(r, http.MethodGet, "/products", nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})
}

func TestLogoutHandler(t *testing.T) {
	r := router.NewRouter()

	w := authed(r, http.MethodPost, "/users/logout", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != handler.SessionCookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expired session cookie, got %+v", cookies)
	}
}
