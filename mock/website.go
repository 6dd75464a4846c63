package mock

import (
	"context"

	"github.com/fwojciec/webhist"
)

var _ webhist.WebsiteService = (*WebsiteService)(nil)

// WebsiteService is a mock implementation of webhist.WebsiteService.
type WebsiteService struct {
	CreateWebsiteFn  func(ctx context.Context, website *webhist.Website) error
	FindWebsitesFn   func(ctx context.Context) ([]*webhist.Website, error)
	DeleteWebsitesFn func(ctx context.Context) error
}

func (s *WebsiteService) CreateWebsite(ctx context.Context, website *webhist.Website) error {
	return s.CreateWebsiteFn(ctx, website)
}

func (s *WebsiteService) FindWebsites(ctx context.Context) ([]*webhist.Website, error) {
	return s.FindWebsitesFn(ctx)
}

func (s *WebsiteService) DeleteWebsites(ctx context.Context) error {
	return s.DeleteWebsitesFn(ctx)
}
