package password

import "golang.org/x/crypto/bcrypt"

// bcrypt cost 12: balance between security and login latency.
const hashCost = 12

// Hash returns a salted bcrypt hash of the password. Output differs
// between calls for the same input.
func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is
// treated as a mismatch, never an error.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
