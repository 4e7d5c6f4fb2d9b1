package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func init() {
	SetSecret([]byte("test-secret-test-secret-test-secret"))
}

func TestLoginToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	token, jti, err := GenerateLoginToken(userID, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(token, PurposeLogin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.ID != jti {
		t.Errorf("expected jti %q, got %q", jti, claims.ID)
	}
	got, _ := claims.UserID()
	if got != userID {
		t.Errorf("expected user %s, got %s", userID, got)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	userID := uuid.New()
	session, _ := GenerateSessionToken(userID, time.Minute)
	expired, _ := GenerateSessionToken(userID, -time.Minute)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Purpose:          PurposeSession,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
	})
	foreignToken, _ := foreign.SignedString([]byte("another-secret-another-secret-xx"))

	tests := []struct {
		name    string
		token   string
		purpose string
	}{
		{"wrong purpose", session, PurposeLogin},
		{"expired", expired, PurposeSession},
		{"wrong key", foreignToken, PurposeSession},
		{"garbage", "not-a-token", PurposeSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.token, tt.purpose); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestMemoryLinkStore_SingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLinkStore()

	_ = s.Save(ctx, "abc", time.Minute)
	if ok, _ := s.Consume(ctx, "abc"); !ok {
		t.Fatal("expected first use to succeed")
	}
	if ok, _ := s.Consume(ctx, "abc"); ok {
		t.Error("expected second use to fail")
	}

	_ = s.Save(ctx, "old", -time.Second)
	if n := s.removeExpired(); n != 1 {
		t.Errorf("expected 1 expired link removed, got %d", n)
	}
}

func TestUserIDContext(t *testing.T) {
	if _, ok := UserIDFrom(context.Background()); ok {
		t.Error("expected no user on empty context")
	}
	id := uuid.New()
	got, ok := UserIDFrom(WithUserID(context.Background(), id))
	if !ok || got != id {
		t.Errorf("expected %s, got %s", id, got)
	}
}
