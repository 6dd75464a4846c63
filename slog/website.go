package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webhist"
)

// Ensure LoggingWebsiteService implements webhist.WebsiteService.
var _ webhist.WebsiteService = (*LoggingWebsiteService)(nil)

// LoggingWebsiteService wraps a WebsiteService with logging.
type LoggingWebsiteService struct {
	next   webhist.WebsiteService
	logger *slog.Logger
}

// NewLoggingWebsiteService creates a new LoggingWebsiteService.
func NewLoggingWebsiteService(next webhist.WebsiteService, logger *slog.Logger) *LoggingWebsiteService {
	return &LoggingWebsiteService{next: next, logger: logger}
}

// CreateWebsite delegates to the wrapped service and logs the operation.
func (s *LoggingWebsiteService) CreateWebsite(ctx context.Context, website *webhist.Website) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create website",
			"id", website.ID,
			"url", website.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateWebsite(ctx, website)
}

// FindWebsites delegates to the wrapped service and logs the operation.
func (s *LoggingWebsiteService) FindWebsites(ctx context.Context) (websites []*webhist.Website, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find websites",
			"count", len(websites),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindWebsites(ctx)
}

// DeleteWebsites delegates to the wrapped service and logs the operation.
func (s *LoggingWebsiteService) DeleteWebsites(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete websites",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteWebsites(ctx)
}
