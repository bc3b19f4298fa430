// Package models defines server-side data models persisted in the database.
package models

import "time"

// Secret is a password-vault record. Username and Password hold ciphertext
// at rest; they are decrypted by the service layer for authorized actors
// only. Access is discretionary: the creator plus the ids in AccessIDs.
type Secret struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	AccessIDs []string  `json:"accessIds"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SecretSummary is the listing shape visible to every actor: public fields
// plus a computed access flag, never credential material.
type SecretSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	HasAccess bool      `json:"hasAccess"`
}

// CanAccess reports whether the actor may read, update or delete the record.
func (s *Secret) CanAccess(actorID string) bool {
	if actorID == s.CreatedBy {
		return true
	}
	for _, id := range s.AccessIDs {
		if id == actorID {
			return true
		}
	}
	return false
}
