package domain

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest password accepted for login or storage.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword reports whether pw is long enough.
func ValidPassword(pw string) bool {
	return len(pw) >= MinPasswordLength
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Rule violation messages shared by every service and by the dashboard.
const (
	MsgEmailRequired    = "email is required"
	MsgEmailInvalid     = "email must be a valid email address"
	MsgPasswordRequired = "password is required"
	MsgPasswordTooShort = "password must be at least 6 characters"
	MsgRoleInvalid      = "role must be one of: ADMIN, STAFF"
	MsgNameRequired     = "name is required"
)
