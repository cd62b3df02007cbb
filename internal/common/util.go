package common

import "strings"

// NormalizeEmail is the canonical form used as the unique user key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
