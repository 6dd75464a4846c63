package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/webhist"
)

const menuText = `
Choose an action:
1. Add website
2. Search
3. View history
4. Clear history
5. Exit
> `

// maxLineSize bounds a single line of input, such as a long URL.
const maxLineSize = 16 << 20

// errEndOfInput is returned by prompt when stdin is exhausted.
var errEndOfInput = errors.New("end of input")

// Menu runs the interactive menu until the user exits, stdin ends, or the
// context is canceled. Invalid input is reported and the menu is shown
// again. Fetch failures are reported per website. Storage failures end the
// loop and are returned.
type Menu struct {
	deps  *Dependencies
	lines chan string
	err   error // scanner error, set before lines is closed
}

// NewMenu returns a Menu reading from deps.Stdin.
func NewMenu(deps *Dependencies) *Menu {
	m := &Menu{deps: deps, lines: make(chan string)}
	go m.scan()
	return m
}

// scan feeds stdin lines to the menu so prompts can also watch the context.
func (m *Menu) scan() {
	defer close(m.lines)
	s := bufio.NewScanner(m.deps.Stdin)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for s.Scan() {
		select {
		case m.lines <- s.Text():
		case <-m.deps.Ctx.Done():
			return
		}
	}
	m.err = s.Err()
}

// Run executes the menu loop.
func (m *Menu) Run() error {
	for {
		choice, err := m.prompt(menuText)
		if err != nil {
			return m.exit(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = m.addWebsite()
		case "2":
			err = m.search()
		case "3":
			err = m.browseHistory()
		case "4":
			err = m.clearHistory()
		case "5":
			fmt.Fprintln(m.deps.Stdout, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(m.deps.Stdout, "Invalid input. Try again.")
		}

		if err != nil {
			return m.exit(err)
		}
	}
}

// exit turns end of input into a normal exit. A failed read of stdin is
// returned as an error.
func (m *Menu) exit(err error) error {
	if !errors.Is(err, errEndOfInput) {
		return err
	}
	if m.err != nil {
		return fmt.Errorf("failed to read input: %w", m.err)
	}
	fmt.Fprintln(m.deps.Stdout)
	fmt.Fprintln(m.deps.Stdout, "Goodbye.")
	return nil
}

// prompt writes text and waits for the next input line.
func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.deps.Stdout, text)
	select {
	case <-m.deps.Ctx.Done():
		return "", m.deps.Ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			return "", errEndOfInput
		}
		return line, nil
	}
}

func (m *Menu) addWebsite() error {
	line, err := m.prompt("Enter website URL: ")
	if err != nil {
		return err
	}

	url := strings.TrimSpace(line)
	if url == "" {
		fmt.Fprintln(m.deps.Stdout, "Invalid input.")
		return nil
	}

	if err := m.deps.Websites.CreateWebsite(m.deps.Ctx, &webhist.Website{URL: url}); err != nil {
		return fmt.Errorf("failed to add website: %w", err)
	}

	fmt.Fprintln(m.deps.Stdout, "Website added.")
	return nil
}

// search reports matching paragraphs website by website. The keyword is
// used exactly as typed, including surrounding spaces.
func (m *Menu) search() error {
	keyword, err := m.prompt("Enter search keyword: ")
	if err != nil {
		return err
	}

	matches, err := m.deps.Searcher.Search(m.deps.Ctx, keyword)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	var found int
	for match, err := range matches {
		if err != nil {
			if ctxErr := m.deps.Ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fmt.Fprintf(m.deps.Stderr, "error: could not fetch %s: %v (skipped)\n", match.URL, err)
			continue
		}
		found++
		fmt.Fprintf(m.deps.Stdout, "Found '%s' on %s in paragraph:\n", keyword, match.URL)
		fmt.Fprintln(m.deps.Stdout, match.Paragraph)
	}

	if found == 0 {
		fmt.Fprintln(m.deps.Stdout, "No matches found.")
	}
	return nil
}

func (m *Menu) browseHistory() error {
	websites, err := m.deps.Websites.FindWebsites(m.deps.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(websites) == 0 {
		fmt.Fprintln(m.deps.Stdout, "History is empty.")
		return nil
	}

	fmt.Fprintln(m.deps.Stdout, "History:")
	for i, website := range websites {
		fmt.Fprintf(m.deps.Stdout, "%d. %s\n", i+1, website.URL)
	}

	line, err := m.prompt("Enter a number to view details (or '0' to go back): ")
	if err != nil {
		return err
	}

	index, ok := parseIndex(strings.TrimSpace(line), len(websites))
	if !ok {
		fmt.Fprintln(m.deps.Stdout, "Invalid input.")
		return nil
	}
	if index == 0 {
		return nil
	}

	website := websites[index-1]
	paragraphs, err := m.deps.Searcher.Paragraphs(m.deps.Ctx, website.URL)
	if err != nil {
		if ctxErr := m.deps.Ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		fmt.Fprintf(m.deps.Stderr, "error: could not fetch %s: %v\n", website.URL, err)
		return nil
	}

	for p := range paragraphs {
		fmt.Fprintln(m.deps.Stdout, p)
	}
	return nil
}

func (m *Menu) clearHistory() error {
	if err := m.deps.Websites.DeleteWebsites(m.deps.Ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintln(m.deps.Stdout, "History cleared.")
	return nil
}

// parseIndex accepts only ASCII digits in the range [0, count].
func parseIndex(s string, count int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > count {
		return 0, false
	}
	return n, true
}
