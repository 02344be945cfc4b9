package wiki

import (
	"regexp"
	"strings"
)

// outlinePattern matches "- 1.2 Title" list items, with optional indentation.
// Separators accept Unicode spaces such as U+00A0 as well as ASCII whitespace.
var outlinePattern = regexp.MustCompile(`^[\s\p{Z}]*-[\s\p{Z}]+(\d+(?:\.\d+)*)[\s\p{Z}]+(.*)$`)

// ParseOutline extracts numbered sections from outline text.
// Lines that are not numbered list items are skipped, so headers, blank lines
// and prose may be mixed into the outline. It never fails.
func ParseOutline(text string) Outline {
	outline := Outline{RawText: text}

	for _, line := range strings.Split(text, "\n") {
		matches := outlinePattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		// A blank title would turn into the bare page marker and match any page.
		title := strings.TrimSpace(matches[2])
		if title == "" {
			continue
		}
		outline.Sections = append(outline.Sections, Section{
			Number: matches[1],
			Title:  title,
		})
	}

	return outline
}
