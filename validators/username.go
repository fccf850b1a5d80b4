package validators

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username is too long")
)

// UsernameValidator counts runes, not bytes, so multibyte names get the same
// budget as ASCII ones.
func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if utf8.RuneCountInString(u) > 50 {
		return ErrUsernameTooLong
	}

	return nil
}
