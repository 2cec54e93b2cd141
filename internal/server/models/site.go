package models

import "strings"

// Site is an external system staff members keep a login for. The catalog
// is seeded by the server and read-only for clients.
type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// NormalizeSiteName returns the key two catalog names are considered equal
// by: surrounding space trimmed, inner runs of whitespace collapsed to one
// space, lower-cased.
func NormalizeSiteName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
