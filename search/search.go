// Package search fetches registered websites and searches their paragraphs.
package search

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/webhist"
	"golang.org/x/sync/errgroup"
)

// Searcher fetches the paragraphs of stored websites and searches them.
type Searcher struct {
	Websites    webhist.WebsiteService
	Fetcher     webhist.Fetcher
	Extractor   webhist.ParagraphExtractor
	RateLimiter webhist.DomainLimiter // optional
	Logger      *slog.Logger          // optional, receives retry notices

	// MatchLimit caps the matches reported per website.
	// Defaults to webhist.DefaultMatchLimit when zero.
	MatchLimit int

	// Concurrency bounds how many websites are fetched at once during
	// Search. Defaults to 1.
	Concurrency int

	// RetryDelays are the waits between fetch attempts. Nil means no retry.
	RetryDelays []time.Duration
}

// Paragraphs fetches url and returns its paragraph text in document order.
func (s *Searcher) Paragraphs(ctx context.Context, rawURL string) (iter.Seq[string], error) {
	fetch := func(ctx context.Context, rawURL string) (string, error) {
		if err := s.wait(ctx, rawURL); err != nil {
			return "", err
		}
		return s.Fetcher.Fetch(ctx, rawURL)
	}

	html, err := FetchWithRetryDelays(ctx, rawURL, fetch, s.logf, s.RetryDelays)
	if err != nil {
		return nil, err
	}

	return s.Extractor.Paragraphs(html)
}

// Search looks for keyword in the paragraphs of every stored website, in
// history order. Matching is an exact, case-sensitive substring test. At
// most MatchLimit matches are produced per website; the count starts over
// for each website.
//
// The returned error reports a failure to read the history. A website that
// cannot be fetched yields a Match carrying only its ID and URL together
// with the fetch error, and the search moves on to the next website.
func (s *Searcher) Search(ctx context.Context, keyword string) (iter.Seq2[webhist.Match, error], error) {
	websites, err := s.Websites.FindWebsites(ctx)
	if err != nil {
		return nil, err
	}

	return func(yield func(webhist.Match, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		results := s.scanAll(ctx, websites, keyword)
		for i, website := range websites {
			r := <-results[i]
			if r.err != nil {
				if !yield(webhist.Match{WebsiteID: website.ID, URL: website.URL}, r.err) {
					return
				}
				continue
			}
			for _, m := range r.matches {
				if !yield(m, nil) {
					return
				}
			}
		}
	}, nil
}

type scanResult struct {
	matches []webhist.Match
	err     error
}

// scanAll scans websites with bounded concurrency. Each website gets its own
// buffered result channel so results can be consumed in history order.
func (s *Searcher) scanAll(ctx context.Context, websites []*webhist.Website, keyword string) []chan scanResult {
	results := make([]chan scanResult, len(websites))
	for i := range results {
		results[i] = make(chan scanResult, 1)
	}

	var g errgroup.Group
	g.SetLimit(s.concurrency())

	go func() {
		for i, website := range websites {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					results[i] <- scanResult{err: err}
					return nil
				}
				matches, err := s.scanWebsite(ctx, website, keyword)
				results[i] <- scanResult{matches: matches, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	return results
}

// scanWebsite stops pulling paragraphs once the match limit is reached.
func (s *Searcher) scanWebsite(ctx context.Context, website *webhist.Website, keyword string) ([]webhist.Match, error) {
	paragraphs, err := s.Paragraphs(ctx, website.URL)
	if err != nil {
		return nil, err
	}

	limit := s.matchLimit()
	var matches []webhist.Match
	for p := range paragraphs {
		if !strings.Contains(p, keyword) {
			continue
		}
		matches = append(matches, webhist.Match{
			WebsiteID: website.ID,
			URL:       website.URL,
			Paragraph: p,
		})
		if len(matches) >= limit {
			break
		}
	}
	return matches, nil
}

// wait applies the rate limiter to the URL's host. URLs without a host are
// passed through so the fetcher can report them.
func (s *Searcher) wait(ctx context.Context, rawURL string) error {
	if s.RateLimiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return s.RateLimiter.Wait(ctx, u.Host)
}

func (s *Searcher) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger.Warn(fmt.Sprintf(format, args...))
	}
}

func (s *Searcher) matchLimit() int {
	if s.MatchLimit <= 0 {
		return webhist.DefaultMatchLimit
	}
	return s.MatchLimit
}

func (s *Searcher) concurrency() int {
	if s.Concurrency <= 0 {
		return 1
	}
	return s.Concurrency
}
