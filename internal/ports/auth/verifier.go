package auth

import "context"

// Verifier verifica un token bearer y devuelve claims o error.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// Issuer firma un token sobre el id de usuario.
type Issuer interface {
	Issue(userID string) (string, error)
}
