package utils

import "golang.org/x/crypto/bcrypt"

func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}

// IsHashedPassword reports whether s already looks like a bcrypt hash.
func IsHashedPassword(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
