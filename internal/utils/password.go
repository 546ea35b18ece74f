package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of plain. The cost comes from config,
// which lets tests run at a cheap cost while production stays at the
// default.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. Comparison
// is constant-time inside bcrypt; callers only see a yes/no.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
