// Package prd turns uploaded requirements documents into ordered, titled
// sections suitable for prompt assembly.
package prd

import (
	"regexp"
	"strings"
)

const (
	// MinSectionChars is the minimum trimmed content length for a section to
	// be kept. Shorter sections (including a near-empty leading section when
	// the document starts with a heading) are discarded.
	MinSectionChars = 50

	// MaxStoredSectionChars caps section content at storage time.
	MaxStoredSectionChars = 5000

	// IntroTitle names the implicit section that collects content appearing
	// before the first heading.
	IntroTitle = "Introduction"
)

// Section is one titled chunk of a segmented document.
type Section struct {
	Title   string
	Content string
	Order   int
}

var (
	markdownHeadingRx = regexp.MustCompile(`^#{1,3}\s+(.+)$`)
	numberedHeadingRx = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// ClassifyLine reports whether a line starts a new section. Headings are
// markdown style (one to three leading '#') or numbered ("1. Title"). The
// returned title is trimmed heading text; for plain lines it is empty.
func ClassifyLine(line string) (title string, heading bool) {
	if m := markdownHeadingRx.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := numberedHeadingRx.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// Segment splits extracted document text into ordered sections in a single
// left-to-right pass. Content before the first heading accumulates into an
// implicit "Introduction" section at order 0; each detected heading starts a
// new section at the next order. A section is emitted only when its trimmed
// content exceeds MinSectionChars; emitted content is capped at
// MaxStoredSectionChars.
func Segment(text string) []Section {
	var sections []Section

	current := Section{Title: IntroTitle, Order: 0}
	order := 0

	flush := func() {
		if len(strings.TrimSpace(current.Content)) > MinSectionChars {
			current.Content = Truncate(current.Content, MaxStoredSectionChars)
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if title, ok := ClassifyLine(line); ok {
			flush()
			order++
			current = Section{Title: title, Order: order}
			continue
		}
		current.Content += line + "\n"
	}
	flush()

	return sections
}

// Truncate cuts s after limit bytes.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
