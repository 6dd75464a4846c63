// Package webhist provides a local, CLI-based website history with keyword
// search. It stores registered URLs in SQLite, fetches their pages on demand,
// and searches the paragraph text of those pages.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, http/).
package webhist
