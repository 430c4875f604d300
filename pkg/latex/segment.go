package latex

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// BeginDocument opens the document body.
	BeginDocument = `\begin{document}`
	// EndDocument closes the document body.
	EndDocument = `\end{document}`
)

// sectionMarker matches \section* before falling back to \section, so a starred
// marker is never cut short at the bare prefix.
//
//nolint:gochecknoglobals // Compiled once
var sectionMarker = regexp.MustCompile(`\\section\*?`)

// ErrMalformedDocument is returned when the source has no \begin{document}.
var ErrMalformedDocument = errors.New("no \\begin{document} marker found")

// ErrNoSectionsFound is returned when the document body has no \section marker.
var ErrNoSectionsFound = errors.New("no sections found in resume")

// Segment splits a LaTeX document into the intro block and its ordered sections.
//
// The body is everything after the first \begin{document}, cut at the first
// \end{document} if there is one. The intro is the trimmed text before the first
// section marker. Each section starts at a marker and runs up to the next one;
// sections are trimmed and empty ones dropped.
//
// Markers are found lexically. A \section inside a comment or a command argument
// still starts a new section.
func Segment(document string) (intro string, sections []string, err error) {
	_, body, found := strings.Cut(document, BeginDocument)
	if !found {
		err = errors.WithStack(ErrMalformedDocument)
		return intro, sections, err
	}

	body, _, _ = strings.Cut(body, EndDocument)

	locs := sectionMarker.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		err = errors.WithStack(ErrNoSectionsFound)
		return intro, sections, err
	}

	intro = strings.TrimSpace(body[:locs[0][0]])

	sections = make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		section := strings.TrimSpace(body[loc[0]:end])
		if section == "" {
			continue
		}
		sections = append(sections, section)
	}

	return intro, sections, err
}

// CountSectionMarkers reports how many section markers appear in text.
func CountSectionMarkers(text string) (count int) {
	count = len(sectionMarker.FindAllStringIndex(text, -1))
	return count
}

// StartsWithSectionMarker reports whether text opens with \section or \section*.
func StartsWithSectionMarker(text string) (ok bool) {
	loc := sectionMarker.FindStringIndex(text)
	ok = loc != nil && loc[0] == 0
	return ok
}

// SectionTitle returns the first brace-delimited argument following the section
// marker, e.g. "Experience" for \section{Experience}. Nested braces are kept.
func SectionTitle(section string) (title string) {
	loc := sectionMarker.FindStringIndex(section)
	if loc == nil {
		return title
	}

	rest := section[loc[1]:]
	open := strings.IndexByte(rest, '{')
	if open == -1 {
		return title
	}

	depth := 0
	for i := open; i < len(rest); i++ {
		switch rest[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				title = strings.TrimSpace(rest[open+1 : i])
				return title
			}
		}
	}

	return title
}
