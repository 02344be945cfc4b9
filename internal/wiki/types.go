package wiki

import (
	"iter"
	"strings"
)

// Section is one outline entry.
type Section struct {
	Number string `json:"number"` // Dotted label like "2.3.4"
	Title  string `json:"title"`
}

// FullTitle returns "{Number} {Title}".
func (s Section) FullTitle() string {
	return s.Number + " " + s.Title
}

// Depth returns the hierarchy depth implied by the dotted number ("1" is 1,
// "1.2" is 2).
func (s Section) Depth() int {
	if s.Number == "" {
		return 0
	}
	return strings.Count(s.Number, ".") + 1
}

// Outline is the parsed table of contents.
// Sections are in outline order, which is also the expected document order.
type Outline struct {
	Sections []Section
	RawText  string
}

// Len returns the number of sections.
func (o Outline) Len() int {
	return len(o.Sections)
}

// DocumentMap maps filenames to document text and remembers insertion order.
type DocumentMap struct {
	order []string
	docs  map[string]string
}

// NewDocumentMap creates an empty DocumentMap.
func NewDocumentMap() *DocumentMap {
	return &DocumentMap{docs: make(map[string]string)}
}

// Set stores text under filename. A repeated filename keeps its original
// position and takes the new text.
func (m *DocumentMap) Set(filename, text string) {
	if _, ok := m.docs[filename]; !ok {
		m.order = append(m.order, filename)
	}
	m.docs[filename] = text
}

// Get returns the text stored under filename.
func (m *DocumentMap) Get(filename string) (string, bool) {
	text, ok := m.docs[filename]
	return text, ok
}

// Len returns the number of documents.
func (m *DocumentMap) Len() int {
	return len(m.order)
}

// Filenames returns the filenames in insertion order.
func (m *DocumentMap) Filenames() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// All iterates over filename/text pairs in insertion order.
func (m *DocumentMap) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range m.order {
			if !yield(name, m.docs[name]) {
				return
			}
		}
	}
}
