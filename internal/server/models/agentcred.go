package models

import "time"

// AgentCredential stores a portal login issued to an agent. Password holds
// ciphertext at rest and is decrypted on read; access is gated by the
// page-level permission of the caller, not per record.
type AgentCredential struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
