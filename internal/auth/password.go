package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the rest of the deployment was
// provisioned with. Raising it invalidates nothing (old hashes keep their
// embedded cost) but slows down new registrations.
const bcryptCost = 10

// HashPassword returns a salted bcrypt digest of the plaintext password.
// The salt is generated per call, so hashing the same password twice
// yields different digests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt digest. A mismatch is a false return, never an error the caller
// has to distinguish.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
