package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash of a plain password. The cost comes
// from the BCRYPT_COST config value; anything outside bcrypt's supported
// range falls back to the library default, so a misconfigured deployment
// still hashes rather than erroring every registration.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether the plain password matches the stored
// bcrypt hash. Any comparison failure, including a corrupt hash, reads as
// a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
