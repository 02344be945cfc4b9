package wiki

import (
	"strings"
)

// PageMarker introduces every page in the concatenated content.
const PageMarker = "# Page: "

// anchor returns the delimiter that introduces a section's body.
func anchor(s Section) string {
	return PageMarker + s.Title
}

// Split partitions content into one document per outline section.
//
// Sections are consumed strictly in outline order. A section whose anchor is
// not found ends the scan, so the result may hold fewer documents than the
// outline has sections. Each body runs until the nearest anchor of any later
// section, or to the end of content.
func Split(content string, outline Outline) (*DocumentMap, error) {
	docs := NewDocumentMap()

	if strings.TrimSpace(content) == "" {
		return docs, nil
	}
	if !strings.HasPrefix(content, PageMarker) {
		return nil, &ContentError{Kind: ErrInvalidContent, Detail: strings.TrimSpace(content)}
	}
	if len(outline.Sections) == 0 {
		return nil, &ContentError{Kind: ErrInvalidStructure, Detail: strings.TrimSpace(content)}
	}

	cursor := 0
	for i, section := range outline.Sections {
		if cursor >= len(content) {
			break
		}

		marker := anchor(section)
		offset := strings.Index(content[cursor:], marker)
		if offset < 0 {
			break
		}

		bodyStart := cursor + offset + len(marker)
		bodyEnd := nextAnchor(content, bodyStart, outline.Sections[i+1:])

		body := strings.TrimSpace(content[bodyStart:bodyEnd])
		filename := SanitizeFilename(section.FullTitle() + ".md")
		docs.Set(filename, "# "+section.FullTitle()+"\n\n"+body)

		cursor = bodyEnd
	}

	return docs, nil
}

// nextAnchor returns the position of the textually nearest anchor among
// later sections, searching from start. It returns len(content) if none of
// them appear.
func nextAnchor(content string, start int, later []Section) int {
	end := len(content)
	rest := content[start:]
	for _, s := range later {
		if idx := strings.Index(rest, anchor(s)); idx >= 0 && start+idx < end {
			end = start + idx
		}
	}
	return end
}
