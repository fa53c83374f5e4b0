// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

	// E.164-style: optional +, no leading zero, at most 15 digits.
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidatePhone accepts international phone numbers, tolerating the usual
// separator characters.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(phone))
}
