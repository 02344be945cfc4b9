package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for partial results
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	// headerBoxStyle for the header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	// stepStyle for the active step indicator
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

// Summary describes a finished export.
type Summary struct {
	Repo      string
	OutputDir string
	Sections  int
	Files     int
	Elapsed   time.Duration
}

// FormatHeader renders the export header
func FormatHeader(w io.Writer, repo, outputDir, endpoint string) {
	content := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		dimStyle.Render("Repo:"), titleStyle.Render(repo),
		dimStyle.Render("Output:"), outputDir,
		dimStyle.Render("Source:"), dimStyle.Render(endpoint),
	)
	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatStep writes a progress line for a pipeline step
func FormatStep(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", stepStyle.Render("●"), msg)
}

// FormatStepDone writes a completion line with optional detail
func FormatStepDone(w io.Writer, msg, detail string) {
	line := fmt.Sprintf("%s %s", successStyle.Render("✓"), msg)
	if detail != "" {
		line += " " + dimStyle.Render(detail)
	}
	fmt.Fprintln(w, line)
}

// FormatFile writes one written document, indented by its outline depth
func FormatFile(w io.Writer, name string, depth int) {
	indent := ""
	if depth > 1 {
		indent = strings.Repeat("  ", depth-1)
	}
	fmt.Fprintf(w, "  %s%s\n", indent, name)
}

// FormatSummary renders the summary box
func FormatSummary(w io.Writer, s Summary) {
	var status string
	switch {
	case s.Files == 0:
		status = errorStyle.Render("NO PAGES")
	case s.Files < s.Sections:
		status = warnStyle.Render("PARTIAL")
	default:
		status = successStyle.Render("OK")
	}

	line1 := fmt.Sprintf("%s %s/%s  %s %.1fs  %s",
		dimStyle.Render("Pages:"), groupDigits(s.Files), groupDigits(s.Sections),
		dimStyle.Render("Duration:"), s.Elapsed.Seconds(),
		status,
	)
	line2 := fmt.Sprintf("%s %s", dimStyle.Render("Written to:"), s.OutputDir)

	content := titleStyle.Render("Export Complete") + "\n" + line1 + "\n" + line2
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatError writes an error line
func FormatError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗"), err)
}

// groupDigits renders n with a comma between each group of three digits.
func groupDigits(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}

// FormatBytes renders a byte count as a short human-readable size
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
