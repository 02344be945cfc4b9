package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsmostafa/deepwiki-export/internal/wiki"
)

// StructureFile holds the raw outline text. Section filenames always start
// with a digit, so this name never collides with a page.
const StructureFile = "_wiki_structure.md"

// Sentinel errors for writer operations.
var (
	ErrEmptyDir        = errors.New("output directory cannot be empty")
	ErrInvalidFilename = errors.New("filename must be a single path segment")
)

// Writer persists exported documents under one directory.
type Writer struct {
	Dir string
}

// NewWriter creates a writer for dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// EnsureDir creates the output directory if it does not exist.
func (w *Writer) EnsureDir() error {
	if strings.TrimSpace(w.Dir) == "" {
		return ErrEmptyDir
	}
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteStructure writes the raw outline text verbatim.
func (w *Writer) WriteStructure(raw string) (string, error) {
	return w.writeFile(StructureFile, raw)
}

// WriteDocuments writes one file per document in insertion order and returns
// the written paths.
func (w *Writer) WriteDocuments(docs *wiki.DocumentMap) ([]string, error) {
	paths := make([]string, 0, docs.Len())
	for name, text := range docs.All() {
		path, err := w.writeFile(name, text)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(name, content string) (string, error) {
	if err := validateFilename(name); err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// validateFilename rejects names that would escape the output directory.
func validateFilename(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return nil
}
