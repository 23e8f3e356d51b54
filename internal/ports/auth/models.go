package auth

// Claims representa la información del token ya verificada contra el store
// de usuarios (el verifier vuelve a cargar al usuario, así que un token de
// un usuario borrado no produce claims).
type Claims struct {
	UserID string
	Email  string
	Role   Role
}
