package util

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor for stored credentials
const passwordHashCost = 12

// HashPassword derives a bcrypt hash of a plain text password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plain text password matches the stored hash
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
