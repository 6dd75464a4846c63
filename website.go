package webhist

import (
	"context"
	"time"
)

// Website represents a registered URL in the browsing history.
// The URL is stored as entered; no format validation is applied.
type Website struct {
	ID        int       `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// WebsiteService represents a service for managing the website history.
type WebsiteService interface {
	// CreateWebsite appends a website to the history and sets its ID.
	// IDs are assigned in increasing order; duplicate URLs are allowed.
	CreateWebsite(ctx context.Context, website *Website) error

	// FindWebsites retrieves websites in insertion order (ascending ID).
	// An empty history returns an empty slice, not an error.
	FindWebsites(ctx context.Context) ([]*Website, error)

	// DeleteWebsites permanently removes every website from the history.
	DeleteWebsites(ctx context.Context) error
}

