package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashea una contraseña con bcrypt. Nunca se persiste la
// contraseña en claro; este hash es el único campo de credencial.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword verifica una contraseña contra el hash guardado.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
