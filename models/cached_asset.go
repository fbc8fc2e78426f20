package models

import "time"

// CachedAsset is one stored origin response.
type CachedAsset struct {
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Body        []byte    `json:"body"`
	StoredAt    time.Time `json:"stored_at"`
}
