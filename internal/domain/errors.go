package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("influencer not found")

type ValidationCode string

const (
	CodeMissingRequiredField ValidationCode = "MissingRequiredField"
	CodeUnsupportedPlatform  ValidationCode = "UnsupportedPlatform"
)

// ValidationError rejects a submitted influencer form. The attempted
// mutation is discarded; callers keep the entered values for correction.
type ValidationError struct {
	Code   ValidationCode
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(e.Fields, ", "))
}

// IsValidationCode reports whether err is a ValidationError with the given code.
func IsValidationCode(err error, code ValidationCode) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Code == code
	}
	return false
}
