package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/webhist"
)

// Compile-time interface verification.
var _ webhist.WebsiteService = (*WebsiteService)(nil)

// WebsiteService implements webhist.WebsiteService using SQLite.
type WebsiteService struct {
	db *DB
}

// NewWebsiteService creates a new WebsiteService.
func NewWebsiteService(db *DB) *WebsiteService {
	return &WebsiteService{db: db}
}

// CreateWebsite inserts a website and assigns its ID and creation time.
func (s *WebsiteService) CreateWebsite(ctx context.Context, website *webhist.Website) error {
	website.CreatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO websites (url, created_at)
		VALUES (?, ?)
	`, website.URL, website.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	website.ID = int(id)

	return nil
}

// FindWebsites retrieves websites ordered by ascending ID.
func (s *WebsiteService) FindWebsites(ctx context.Context) ([]*webhist.Website, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, created_at
		FROM websites
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	websites := []*webhist.Website{}
	for rows.Next() {
		var website webhist.Website
		var createdAt string

		if err := rows.Scan(&website.ID, &website.URL, &createdAt); err != nil {
			return nil, err
		}

		website.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		websites = append(websites, &website)
	}

	return websites, rows.Err()
}

// DeleteWebsites removes every website. Deleting from an empty table is not an error.
func (s *WebsiteService) DeleteWebsites(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM websites")
	return err
}
