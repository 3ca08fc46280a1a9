package utils

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address. The address is stored exactly
// as given; no case folding happens here.
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}
