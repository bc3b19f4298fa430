package models

import "time"

// ActivityLog is an append-only audit record. User name and email are
// denormalized onto the row so the listing can search them without joining
// the user directory, which lives in another service.
type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityFilter narrows the activity listing. Zero values mean "no filter";
// Take == 0 means no explicit page size.
type ActivityFilter struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Skip      int
	Take      int
}
