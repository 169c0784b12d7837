// Package validate holds the local checks run before any request leaves
// the client.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail     = errors.New("Enter valid email!")
	ErrPasswordMismatch = errors.New("Passwords do not match!")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func Email(email string) error {
	if strings.TrimSpace(email) == "" || !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func Passwords(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
