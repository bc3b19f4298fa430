package models

import (
	"encoding/json"
	"time"
)

// PropertyDraft is an unfinished property listing saved as a free-form JSON
// payload. OriginalPropertyID links the draft to a published listing when
// the draft started as an edit.
type PropertyDraft struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	OriginalPropertyID *string         `json:"originalPropertyId"`
	Data               json.RawMessage `json:"data"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
