// Package models defines client-side data models used by the physiokeeper CLI.
package models

import "time"

// Credential is one sealed secret persisted in the local credential database.
type Credential struct {
	// Name is the credential key, e.g. "access_token".
	Name string

	// Value is the AES-GCM ciphertext of the secret.
	Value []byte
	// Nonce is the AEAD nonce for Value.
	Nonce []byte

	// UpdatedAt is the last write time in UTC.
	UpdatedAt time.Time
}
