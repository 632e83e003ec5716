package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Vietnamese mobile numbers: leading 0 or +84, then 9 digits.
var phoneRe = regexp.MustCompile(`^(0|\+84)\d{9}$`)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// IsValidPassword requires:
// - at least 8 characters
// - contains at least one letter
// - contains at least one number
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// IsValidFullname accepts unicode letters, spaces, hyphens and apostrophes
// (Vietnamese names carry diacritics, so no ASCII-only class here).
func IsValidFullname(fullname string) bool {
	if fullname == "" {
		return false
	}
	for _, r := range fullname {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '\'' {
			return false
		}
	}
	return true
}
