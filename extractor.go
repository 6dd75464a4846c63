package webhist

import "iter"

// ParagraphExtractor extracts paragraph-level text blocks from HTML pages.
type ParagraphExtractor interface {
	// Paragraphs parses raw HTML and returns the visible text of each
	// paragraph in document order. Parsing happens up front; text is
	// produced lazily as the sequence is consumed. The sequence can be
	// iterated more than once.
	Paragraphs(html string) (iter.Seq[string], error)
}
