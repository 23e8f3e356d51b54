package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetclinic-api/internal/ports/auth"
)

type stubUsers struct {
	known map[string]auth.Claims
}

func (s *stubUsers) ClaimsFor(ctx context.Context, userID string) (auth.Claims, error) {
	c, ok := s.known[userID]
	if !ok {
		return auth.Claims{}, errors.New("not found")
	}
	return c, nil
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	users := &stubUsers{known: map[string]auth.Claims{
		"u-1": {UserID: "u-1", Email: "ana@test.com", Role: auth.RoleCliente},
	}}
	issuer := NewIssuer("test-secret", time.Hour)
	verifier := NewVerifier("test-secret", users)

	token, err := issuer.Issue("u-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := verifier.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != auth.RoleCliente {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	users := &stubUsers{known: map[string]auth.Claims{"u-1": {UserID: "u-1"}}}
	issuer := NewIssuer("test-secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	verifier := NewVerifier("test-secret", users)

	token, err := issuer.Issue("u-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := verifier.Verify(context.Background(), token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	users := &stubUsers{known: map[string]auth.Claims{"u-1": {UserID: "u-1"}}}
	token, err := NewIssuer("secret-a", time.Hour).Issue("u-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewVerifier("secret-b", users).Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
}

func TestVerify_DeletedUser(t *testing.T) {
	users := &stubUsers{known: map[string]auth.Claims{}}
	token, err := NewIssuer("test-secret", time.Hour).Issue("u-borrado")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewVerifier("test-secret", users).Verify(context.Background(), token); !errors.Is(err, ErrUserGone) {
		t.Fatalf("expected ErrUserGone, got %v", err)
	}
}

func TestVerify_EmptyToken(t *testing.T) {
	v := NewVerifier("test-secret", &stubUsers{})
	if _, err := v.Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
}
