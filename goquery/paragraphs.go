// Package goquery provides HTML paragraph extraction using goquery.
package goquery

import (
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webhist"
)

// Ensure Extractor implements webhist.ParagraphExtractor at compile time.
var _ webhist.ParagraphExtractor = (*Extractor)(nil)

// hiddenSelector matches elements whose text is never rendered.
const hiddenSelector = "script, style, noscript, template"

// Extractor extracts the text of <p> elements from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Paragraphs parses html and returns the text content of every <p> element
// in document order. Text is taken as-is with markup stripped; content of
// script and style elements is excluded. Empty input yields no paragraphs.
func (e *Extractor) Paragraphs(html string) (iter.Seq[string], error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webhist.Errorf(webhist.EINVALID, "failed to parse HTML: %v", err)
	}

	paragraphs := doc.Find("p")

	return func(yield func(string) bool) {
		for _, p := range paragraphs.EachIter() {
			if !yield(visibleText(p)) {
				return
			}
		}
	}, nil
}

// visibleText returns the text of sel without hidden descendants.
func visibleText(sel *goquery.Selection) string {
	if sel.Find(hiddenSelector).Length() == 0 {
		return sel.Text()
	}
	clone := sel.Clone()
	clone.Find(hiddenSelector).Remove()
	return clone.Text()
}
