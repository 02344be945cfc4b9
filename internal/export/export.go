// Package export runs the fetch, split and write pipeline for one repository.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/itsmostafa/deepwiki-export/internal/deepwiki"
	"github.com/itsmostafa/deepwiki-export/internal/ui"
	"github.com/itsmostafa/deepwiki-export/internal/wiki"
)

// Exporter fetches a repository wiki and writes it to disk.
type Exporter struct {
	Source deepwiki.Source
	Output io.Writer
	Logger *slog.Logger
}

// Result describes a finished export.
type Result struct {
	RunID     string
	Repo      string
	OutputDir string
	Sections  int
	Files     []string
	Elapsed   time.Duration
}

// Run exports repo into outputDir.
//
// The structure dump is written as soon as the outline arrives so that it is
// available for inspection even when splitting fails. No page is written
// unless splitting succeeds.
func (e *Exporter) Run(ctx context.Context, repo, outputDir string) (*Result, error) {
	out := e.Output
	if out == nil {
		out = io.Discard
	}
	log := e.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	runID := uuid.NewString()
	log = log.With("run", runID)
	start := time.Now()

	w := NewWriter(outputDir)
	if err := w.EnsureDir(); err != nil {
		return nil, err
	}

	ui.FormatStep(out, "Fetching wiki structure...")
	structure, err := e.Source.ReadWikiStructure(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wiki structure: %w", err)
	}
	structurePath, err := w.WriteStructure(structure)
	if err != nil {
		return nil, err
	}
	log.Debug("wrote structure dump", "path", structurePath, "bytes", len(structure))

	outline := wiki.ParseOutline(structure)
	ui.FormatStepDone(out, "Structure", fmt.Sprintf("(%d sections)", outline.Len()))

	ui.FormatStep(out, "Fetching wiki contents...")
	content, err := e.Source.ReadWikiContents(ctx, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wiki contents: %w", err)
	}
	ui.FormatStepDone(out, "Contents", "("+ui.FormatBytes(len(content))+")")

	docs, err := wiki.Split(content, outline)
	if err != nil {
		return nil, fmt.Errorf("failed to split wiki contents: %w", err)
	}
	if docs.Len() < outline.Len() {
		log.Warn("some sections were not found in the contents",
			"repo", repo, "sections", outline.Len(), "pages", docs.Len())
	}

	files, err := w.WriteDocuments(docs)
	if err != nil {
		return nil, err
	}

	depths := make(map[string]int, outline.Len())
	for _, s := range outline.Sections {
		depths[wiki.SanitizeFilename(s.FullTitle()+".md")] = s.Depth()
	}
	for _, name := range docs.Filenames() {
		ui.FormatFile(out, name, depths[name])
	}

	result := &Result{
		RunID:     runID,
		Repo:      repo,
		OutputDir: outputDir,
		Sections:  outline.Len(),
		Files:     files,
		Elapsed:   time.Since(start),
	}
	log.Info("export finished", "repo", repo, "dir", outputDir, "pages", len(files))

	ui.FormatSummary(out, ui.Summary{
		Repo:      result.Repo,
		OutputDir: result.OutputDir,
		Sections:  result.Sections,
		Files:     len(result.Files),
		Elapsed:   result.Elapsed,
	})

	return result, nil
}
