package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword creates a bcrypt hash from the given plaintext password.
func HashPassword(password string) (string, error) {
	// higher cost means more security but also more processing time
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided plaintext password matches the stored bcrypt hash.
func VerifyPassword(hashedPassword, providedPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(providedPassword))
}

var dummyHash, _ = HashPassword("litreview-dummy-password-0")

// BurnCompare spends the same time as a real VerifyPassword when the user
// does not exist, so login timing does not reveal unknown usernames.
func BurnCompare(providedPassword string) {
	_ = VerifyPassword(dummyHash, providedPassword)
}
