package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/fmtlift/internal/configloader"
	"github.com/yaklabco/fmtlift/internal/logging"
	"github.com/yaklabco/fmtlift/pkg/fsutil"
	"github.com/yaklabco/fmtlift/pkg/vocab"
)

type vocabFlags struct {
	output   string
	title    string
	backlink string
	check    bool
}

func newVocabCommand() *cobra.Command {
	flags := &vocabFlags{}

	cmd := &cobra.Command{
		Use:   "vocab <graph>",
		Short: "Project a vocabulary graph into markdown",
		Long: `Render a vocabulary graph (JSON or YAML) as a grouped markdown document:
categories and subcategories in declaration order, one labeled block per
term.

By default the document is written next to the graph with a .md
extension. Use --output to choose the destination, or "-" for stdout.

Examples:
  fmtlift vocab vocabulary.json                   # Write vocabulary.md
  fmtlift vocab vocabulary.yaml -o docs/vocab.md  # Write to docs/vocab.md
  fmtlift vocab vocabulary.json -o -              # Write to stdout
  fmtlift vocab vocabulary.json --check           # Exit 1 if out of date`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVocab(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default: graph path with .md extension)")
	cmd.Flags().StringVar(&flags.title, "title", "", "document title")
	cmd.Flags().StringVar(&flags.backlink, "backlink", "", "back-to-index link target")
	cmd.Flags().BoolVar(&flags.check, "check", false,
		"exit 1 if the document is out of date, write nothing")

	return cmd
}

func runVocab(cmd *cobra.Command, graphPath string, flags *vocabFlags) error {
	logger := logging.NewInteractive()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return errors.Join(ErrConfig, err)
	}

	// Flags override the configured vocab defaults.
	title := flags.title
	if title == "" {
		title = loadResult.Config.Vocab.Title
	}
	backlink := flags.backlink
	if backlink == "" {
		backlink = loadResult.Config.Vocab.Backlink
	}

	g, err := vocab.Load(graphPath)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	doc := vocab.Project(g, vocab.Options{Title: title, Backlink: backlink})

	outPath := flags.output
	if outPath == "" {
		outPath = defaultVocabOutput(graphPath)
	}

	if flags.check {
		return checkVocabDocument(logger, outPath, doc)
	}

	if outPath == "-" {
		if _, err := io.WriteString(cmd.OutOrStdout(), doc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		return nil
	}

	wrote, err := fsutil.WriteAtomicIfChanged(ctx, outPath, []byte(doc), fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	if wrote {
		logger.Info("wrote vocabulary document",
			logging.FieldOutput, outPath,
			logging.FieldTerms, len(g.Terms),
			logging.FieldCategories, len(g.Categories),
		)
	} else {
		logger.Info("vocabulary document already up to date", logging.FieldOutput, outPath)
	}

	return nil
}

// checkVocabDocument compares the projected document against the file on
// disk without writing. A missing or stale file counts as drift.
func checkVocabDocument(logger *log.Logger, outPath, doc string) error {
	if outPath == "-" {
		return fmt.Errorf("%w: --check needs a file to compare against", ErrUsage)
	}

	existing, err := os.ReadFile(outPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Warn("vocabulary document missing", logging.FieldOutput, outPath)
		return ErrChangesNeeded
	case err != nil:
		return fmt.Errorf("read existing document: %w", err)
	}

	if !bytes.Equal(existing, []byte(doc)) {
		logger.Warn("vocabulary document out of date", logging.FieldOutput, outPath)
		return ErrChangesNeeded
	}

	logger.Info("vocabulary document up to date", logging.FieldOutput, outPath)
	return nil
}

// defaultVocabOutput swaps the graph extension for .md.
func defaultVocabOutput(graphPath string) string {
	return strings.TrimSuffix(graphPath, filepath.Ext(graphPath)) + ".md"
}
