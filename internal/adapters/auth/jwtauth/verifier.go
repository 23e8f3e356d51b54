package jwtauth

import (
	"context"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"vetclinic-api/internal/ports/auth"
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrTokenInvalid = errors.New("token invalid")
	ErrUserGone     = errors.New("token user no longer exists")
)

// UserSource resuelve el usuario referenciado por un token. Devuelve error
// si el usuario ya no existe: un token firmado sobre un usuario borrado
// no debe autenticar.
type UserSource interface {
	ClaimsFor(ctx context.Context, userID string) (auth.Claims, error)
}

// Verifier implementa auth.Verifier con HS256 y recarga del usuario.
type Verifier struct {
	secret []byte
	users  UserSource
}

func NewVerifier(secret string, users UserSource) *Verifier {
	return &Verifier{secret: []byte(secret), users: users}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Claims{}, ErrTokenInvalid
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrTokenInvalid
	}
	userID, _ := mapClaims["id"].(string)
	if strings.TrimSpace(userID) == "" {
		return auth.Claims{}, ErrTokenInvalid
	}

	claims, err := v.users.ClaimsFor(ctx, userID)
	if err != nil {
		return auth.Claims{}, ErrUserGone
	}
	return claims, nil
}
