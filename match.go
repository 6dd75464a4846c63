package webhist

// DefaultMatchLimit is the maximum number of matches reported per website.
const DefaultMatchLimit = 3

// Match is a paragraph of a website that contains the search keyword.
type Match struct {
	WebsiteID int
	URL       string
	Paragraph string
}
