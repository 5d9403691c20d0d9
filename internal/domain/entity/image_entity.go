package entity

import "time"

// GeneratedImage records one successful text-to-image call.
type GeneratedImage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Prompt     string    `json:"prompt"`
	StorageURL string    `json:"storage_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
