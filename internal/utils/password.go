package utils

import "golang.org/x/crypto/bcrypt"

// PlaceholderPassword is stored on accounts created through a third-party
// identity provider.  It is not a bcrypt digest, so VerifyPassword can never
// succeed against it.
const PlaceholderPassword = "third_party_account"

// HashPassword returns a bcrypt hash using the given cost.  bcrypt embeds a
// unique salt per call, so equal inputs never produce equal digests.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
