package mock

import (
	"iter"

	"github.com/fwojciec/webhist"
)

var _ webhist.ParagraphExtractor = (*ParagraphExtractor)(nil)

// ParagraphExtractor is a mock implementation of webhist.ParagraphExtractor.
type ParagraphExtractor struct {
	ParagraphsFn func(html string) (iter.Seq[string], error)
}

func (e *ParagraphExtractor) Paragraphs(html string) (iter.Seq[string], error) {
	return e.ParagraphsFn(html)
}
