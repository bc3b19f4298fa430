package models

import "time"

const (
	WatermarkTypeImage = "image"
	WatermarkTypeText  = "text"
)

// Watermark is a branding preset applied to listing photos. At most one
// preset is active at a time; activating one deactivates the rest.
type Watermark struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	ImageURL  *string   `json:"imageUrl"`
	Text      *string   `json:"text"`
	TextColor string    `json:"textColor"`
	Position  string    `json:"position"`
	Opacity   float64   `json:"opacity"`
	Scale     float64   `json:"scale"`
	Rotation  float64   `json:"rotation"`
	BlendMode string    `json:"blendMode"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
