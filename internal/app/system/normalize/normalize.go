// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Handle lowercases and trims an organization handle and strips a
// leading "@" if the caller typed one.
func Handle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "@")
}

// AccessCode trims an access code. Codes are compared exactly, so case
// is preserved.
func AccessCode(s string) string {
	return strings.TrimSpace(s)
}

// Visibility lowercases and trims an organization visibility value.
func Visibility(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
