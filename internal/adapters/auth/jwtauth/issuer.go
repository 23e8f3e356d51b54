package jwtauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer firma tokens HS256 sobre el id de usuario, con expiración
// configurada (24h por defecto desde config).
type Issuer struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, expire time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		expire: expire,
		now:    time.Now,
	}
}

func (i *Issuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(i.expire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}
