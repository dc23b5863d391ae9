// Package passcode is the credential store: it hashes and verifies the
// family login passcode. The hash is one-way; plaintext is never stored.
package passcode

import (
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// Passcodes are short by design: 4-6 alphanumeric characters a parent can
// share with the family.
var format = regexp.MustCompile(`^[a-zA-Z0-9]{4,6}$`)

func ValidFormat(passcode string) bool {
	return format.MatchString(passcode)
}

func Hash(passcode string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Verify(hash, passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)) == nil
}
