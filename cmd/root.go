package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strings"
	"syscall"

	"github.com/itsmostafa/deepwiki-export/internal/config"
	"github.com/itsmostafa/deepwiki-export/internal/deepwiki"
	"github.com/itsmostafa/deepwiki-export/internal/export"
	"github.com/itsmostafa/deepwiki-export/internal/ui"
	"github.com/itsmostafa/deepwiki-export/internal/version"
	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool
var quiet bool

// repoPattern matches a GitHub style owner/repo identifier.
var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

var rootCmd = &cobra.Command{
	Use:   "deepwiki-export <owner/repo> [output-dir]",
	Short: "Export a DeepWiki repository wiki as Markdown files",
	Long: `deepwiki-export downloads the wiki DeepWiki generated for a GitHub repository
and writes every page to its own numbered Markdown file.

The raw wiki outline is saved next to the pages as _wiki_structure.md.
When no output directory is given, {repo}-{suffix} is used.

Example:
  deepwiki-export facebook/react
  deepwiki-export facebook/react ./react-docs`,
	Args:          validateArgs,
	SilenceErrors: true,
	RunE:          runExport,
}

func init() {
	build := version.Resolve()
	rootCmd.Version = build.Short()
	rootCmd.SetVersionTemplate(fmt.Sprintf("deepwiki-export %s\n", build))

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: ./deepwiki-export.yaml or ~/.config/deepwiki-export/deepwiki-export.yaml)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and timings to stderr")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print errors")
	config.AddFlags(rootCmd.Flags())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
		return err
	}
	if !repoPattern.MatchString(args[0]) {
		return fmt.Errorf("invalid repository %q: expected owner/repo", args[0])
	}
	if len(args) == 2 && strings.TrimSpace(args[1]) == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	// Arguments are valid; later failures are not usage errors.
	cmd.SilenceUsage = true

	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	repo := args[0]
	outputDir := defaultOutputDir(repo, cfg.Suffix)
	if len(args) == 2 {
		outputDir = args[1]
	}

	out := cmd.OutOrStdout()
	if quiet {
		out = io.Discard
	}
	logger := newLogger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := deepwiki.NewClient(deepwiki.Options{
		Endpoint:      cfg.Endpoint,
		Timeout:       cfg.Timeout,
		Retries:       cfg.Retries,
		RetryDelay:    cfg.RetryDelay,
		ClientVersion: version.Resolve().Short(),
		Logger:        logger,
	})
	defer client.Close()

	ui.FormatHeader(out, repo, outputDir, cfg.Endpoint)

	exporter := &export.Exporter{
		Source: client,
		Output: out,
		Logger: logger,
	}
	_, err = exporter.Run(ctx, repo, outputDir)
	return err
}

// defaultOutputDir derives "{repo}-{suffix}" from an owner/repo identifier.
func defaultOutputDir(repo, suffix string) string {
	return path.Base(repo) + "-" + suffix
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbose:
		level = slog.LevelDebug
	case quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
