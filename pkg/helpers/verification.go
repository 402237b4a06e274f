package helpers

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// GenVerificationCode generates a random 6-digit numeric code as a
// zero-padded string. Codes are per-signup; uniqueness across users is not
// required since verification is scoped by email.
func GenVerificationCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := binary.BigEndian.Uint32(b) % 1000000
	return fmt.Sprintf("%06d", code), nil
}
