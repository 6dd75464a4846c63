package search_test

import (
	"context"
	"errors"
	"iter"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/webhist"
	"github.com/fwojciec/webhist/mock"
	"github.com/fwojciec/webhist/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSearcher returns a Searcher whose fetcher echoes the URL as HTML and
// whose extractor maps that URL to the given paragraphs. URLs missing from
// pages fail to fetch.
func newSearcher(websites []*webhist.Website, pages map[string][]string) *search.Searcher {
	return &search.Searcher{
		Websites: &mock.WebsiteService{
			FindWebsitesFn: func(_ context.Context) ([]*webhist.Website, error) {
				return websites, nil
			},
		},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				if _, ok := pages[url]; !ok {
					return "", errors.New("connection refused")
				}
				return url, nil
			},
		},
		Extractor: &mock.ParagraphExtractor{
			ParagraphsFn: func(html string) (iter.Seq[string], error) {
				return slices.Values(pages[html]), nil
			},
		},
	}
}

type result struct {
	match webhist.Match
	err   error
}

func collect(t *testing.T, seq iter.Seq2[webhist.Match, error]) []result {
	t.Helper()
	var results []result
	for m, err := range seq {
		results = append(results, result{match: m, err: err})
	}
	return results
}

func paragraphsOf(results []result) []string {
	var out []string
	for _, r := range results {
		out = append(out, r.match.Paragraph)
	}
	return out
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("stops scanning a website after three matches", func(t *testing.T) {
		t.Parallel()

		var pulled atomic.Int32
		paragraphs := []string{"a cat", "a dog", "a cat and a cat", "a cat", "a cat again"}
		s := newSearcher(
			[]*webhist.Website{{ID: 1, URL: "https://pets.example"}},
			map[string][]string{"https://pets.example": paragraphs},
		)
		s.Extractor = &mock.ParagraphExtractor{
			ParagraphsFn: func(_ string) (iter.Seq[string], error) {
				return func(yield func(string) bool) {
					for _, p := range paragraphs {
						pulled.Add(1)
						if !yield(p) {
							return
						}
					}
				}, nil
			},
		}

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		results := collect(t, seq)
		require.Len(t, results, 3)
		assert.Equal(t, []string{"a cat", "a cat and a cat", "a cat"}, paragraphsOf(results))
		for _, r := range results {
			assert.NoError(t, r.err)
			assert.Equal(t, 1, r.match.WebsiteID)
			assert.Equal(t, "https://pets.example", r.match.URL)
		}
		assert.Equal(t, int32(4), pulled.Load(), "paragraphs after the third match should not be read")
	})

	t.Run("match count starts over for each website", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{
				{ID: 1, URL: "https://a.example"},
				{ID: 2, URL: "https://b.example"},
			},
			map[string][]string{
				"https://a.example": {"cat 1", "cat 2", "cat 3", "cat 4"},
				"https://b.example": {"cat 5", "dog", "cat 6"},
			},
		)

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		results := collect(t, seq)
		assert.Equal(t, []string{"cat 1", "cat 2", "cat 3", "cat 5", "cat 6"}, paragraphsOf(results))
		assert.Equal(t, "https://b.example", results[3].match.URL)
	})

	t.Run("reports nothing when keyword is absent", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{
				{ID: 1, URL: "https://a.example"},
				{ID: 2, URL: "https://b.example"},
			},
			map[string][]string{
				"https://a.example": {"alpha", "beta"},
				"https://b.example": {"gamma"},
			},
		)

		seq, err := s.Search(context.Background(), "zebra")
		require.NoError(t, err)

		assert.Empty(t, collect(t, seq))
	})

	t.Run("matching is case-sensitive substring", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{{ID: 1, URL: "https://a.example"}},
			map[string][]string{
				"https://a.example": {"Catalog", "concatenate", "CAT"},
			},
		)

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		assert.Equal(t, []string{"concatenate"}, paragraphsOf(collect(t, seq)))
	})

	t.Run("honors custom match limit", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{{ID: 1, URL: "https://a.example"}},
			map[string][]string{
				"https://a.example": {"cat 1", "cat 2"},
			},
		)
		s.MatchLimit = 1

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		assert.Equal(t, []string{"cat 1"}, paragraphsOf(collect(t, seq)))
	})

	t.Run("reports fetch failure and continues with next website", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{
				{ID: 1, URL: "https://down.example"},
				{ID: 2, URL: "https://up.example"},
			},
			map[string][]string{
				"https://up.example": {"a cat"},
			},
		)

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		results := collect(t, seq)
		require.Len(t, results, 2)

		require.Error(t, results[0].err)
		assert.Contains(t, results[0].err.Error(), "connection refused")
		assert.Equal(t, 1, results[0].match.WebsiteID)
		assert.Equal(t, "https://down.example", results[0].match.URL)

		require.NoError(t, results[1].err)
		assert.Equal(t, "a cat", results[1].match.Paragraph)
	})

	t.Run("reports extraction failure", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{{ID: 1, URL: "https://a.example"}},
			map[string][]string{"https://a.example": nil},
		)
		s.Extractor = &mock.ParagraphExtractor{
			ParagraphsFn: func(_ string) (iter.Seq[string], error) {
				return nil, webhist.Errorf(webhist.EINVALID, "failed to parse HTML")
			},
		}

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		results := collect(t, seq)
		require.Len(t, results, 1)
		assert.Equal(t, webhist.EINVALID, webhist.ErrorCode(results[0].err))
	})

	t.Run("returns error when history cannot be read", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("database is locked")
		s := &search.Searcher{
			Websites: &mock.WebsiteService{
				FindWebsitesFn: func(_ context.Context) ([]*webhist.Website, error) {
					return nil, dbErr
				},
			},
		}

		_, err := s.Search(context.Background(), "cat")
		assert.Equal(t, dbErr, err)
	})

	t.Run("empty history yields nothing", func(t *testing.T) {
		t.Parallel()

		s := newSearcher([]*webhist.Website{}, nil)

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		assert.Empty(t, collect(t, seq))
	})

	t.Run("keeps history order when fetching concurrently", func(t *testing.T) {
		t.Parallel()

		websites := []*webhist.Website{
			{ID: 1, URL: "https://slow.example"},
			{ID: 2, URL: "https://medium.example"},
			{ID: 3, URL: "https://fast.example"},
		}
		delays := map[string]time.Duration{
			"https://slow.example":   60 * time.Millisecond,
			"https://medium.example": 30 * time.Millisecond,
			"https://fast.example":   0,
		}
		s := newSearcher(websites, map[string][]string{
			"https://slow.example":   {"slow cat"},
			"https://medium.example": {"medium cat"},
			"https://fast.example":   {"fast cat"},
		})
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				time.Sleep(delays[url])
				return url, nil
			},
		}
		s.Concurrency = 3

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		assert.Equal(t, []string{"slow cat", "medium cat", "fast cat"}, paragraphsOf(collect(t, seq)))
	})

	t.Run("stops when consumer stops", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(
			[]*webhist.Website{
				{ID: 1, URL: "https://a.example"},
				{ID: 2, URL: "https://b.example"},
			},
			map[string][]string{
				"https://a.example": {"cat 1", "cat 2"},
				"https://b.example": {"cat 3"},
			},
		)

		seq, err := s.Search(context.Background(), "cat")
		require.NoError(t, err)

		var got []string
		for m, err := range seq {
			require.NoError(t, err)
			got = append(got, m.Paragraph)
			break
		}
		assert.Equal(t, []string{"cat 1"}, got)
	})
}

func TestSearcher_Paragraphs(t *testing.T) {
	t.Parallel()

	t.Run("fetches and extracts paragraphs", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(nil, map[string][]string{
			"https://a.example": {"one", "two"},
		})

		paragraphs, err := s.Paragraphs(context.Background(), "https://a.example")
		require.NoError(t, err)

		assert.Equal(t, []string{"one", "two"}, slices.Collect(paragraphs))
	})

	t.Run("returns fetch error", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(nil, map[string][]string{})

		_, err := s.Paragraphs(context.Background(), "https://down.example")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("waits on rate limiter with URL host", func(t *testing.T) {
		t.Parallel()

		var domains []string
		s := newSearcher(nil, map[string][]string{
			"https://docs.example.com/page": {"text"},
		})
		s.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := s.Paragraphs(context.Background(), "https://docs.example.com/page")
		require.NoError(t, err)

		assert.Equal(t, []string{"docs.example.com"}, domains)
	})

	t.Run("returns rate limiter error", func(t *testing.T) {
		t.Parallel()

		s := newSearcher(nil, map[string][]string{
			"https://a.example": {"text"},
		})
		s.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, _ string) error {
				return context.Canceled
			},
		}

		_, err := s.Paragraphs(context.Background(), "https://a.example")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		var attempts int
		s := newSearcher(nil, map[string][]string{
			"https://flaky.example": {"finally"},
		})
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				attempts++
				if attempts < 3 {
					return "", errors.New("timeout")
				}
				return url, nil
			},
		}
		s.RetryDelays = []time.Duration{0, 0, 0}

		paragraphs, err := s.Paragraphs(context.Background(), "https://flaky.example")
		require.NoError(t, err)

		assert.Equal(t, []string{"finally"}, slices.Collect(paragraphs))
		assert.Equal(t, 3, attempts)
	})
}
