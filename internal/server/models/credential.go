package models

import "time"

// Credential is a stored login for one site, owned by one user. At most
// one exists per (UserID, SiteID). PasswordEncrypted holds the cipher token,
// never the plaintext.
type Credential struct {
	ID                string
	UserID            string
	SiteID            string
	Login             string
	PasswordEncrypted string
	UpdatedAt         time.Time

	// Site is populated by listing queries that join the catalog.
	Site *Site
}

// PlainCredential is a Credential with its secret decrypted, returned only
// to the owner.
type PlainCredential struct {
	ID        string
	UserID    string
	SiteID    string
	Login     string
	Password  string
	UpdatedAt time.Time
	Site      *Site
}
