package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fmtlift/internal/cache"
	"github.com/yaklabco/fmtlift/internal/configloader"
	"github.com/yaklabco/fmtlift/internal/logging"
	"github.com/yaklabco/fmtlift/pkg/config"
	"github.com/yaklabco/fmtlift/pkg/driver"
	"github.com/yaklabco/fmtlift/pkg/fmtstr"
	"github.com/yaklabco/fmtlift/pkg/fsutil"
	"github.com/yaklabco/fmtlift/pkg/report"
)

type fixFlags struct {
	check           bool
	dryRun          bool
	format          string
	jobs            int
	ignore          []string
	exts            []string
	calls           []string
	backup          bool
	noCache         bool
	includeVendored bool
	maxPasses       int
	verbose         bool
	compact         bool
}

func newFixCommand(info BuildInfo) *cobra.Command {
	flags := &fixFlags{}

	cmd := &cobra.Command{
		Use:     "fix [paths...]",
		Aliases: []string{"normalize"},
		Short:   "Normalize format strings in Rust files",
		Long:    fixLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, info, flags)
		},
	}

	addFixFlags(cmd, flags)

	return cmd
}

const fixLongDescription = `Normalize format strings in Rust source files.

By default, rewrites all .rs files in the current directory and
subdirectories in place. Expressions embedded in template placeholders
move into the explicit argument list; call sites that cannot be rewritten
safely are left as written.

Examples:
  fmtlift fix                    # Rewrite current directory in place
  fmtlift fix src/               # Rewrite the src directory
  fmtlift fix main.rs            # Rewrite a single file
  fmtlift fix --check            # Report files needing changes, write nothing
  fmtlift fix --dry-run          # Show rewrites without applying
  fmtlift fix --format diff      # Show unified diffs
  fmtlift fix --format json      # Machine-readable output for CI
  fmtlift fix --backup           # Keep .fmtlift.bak sidecar backups`

func runFix(cmd *cobra.Command, args []string, info BuildInfo, flags *fixFlags) error {
	logger := logging.Default()

	// Map string flags to typed config values. Only values explicitly
	// provided on the command line should override lower layers.
	cliCfg := &config.Config{}
	cliCfg.Check = flags.check
	cliCfg.DryRun = flags.dryRun
	cliCfg.Jobs = flags.jobs
	cliCfg.MaxPasses = flags.maxPasses
	cliCfg.Ignore = flags.ignore
	cliCfg.Extensions = flags.exts
	cliCfg.NoCache = flags.noCache
	cliCfg.IncludeVendored = flags.includeVendored
	if flags.backup {
		cliCfg.Backups.Enabled = true
	}
	if cmd.Flags().Changed("format") {
		format, err := config.ParseOutputFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUsage, err)
		}
		cliCfg.Format = format
	}

	calls, err := parseCallFlags(flags.calls)
	if err != nil {
		return err
	}
	cliCfg.Calls = calls

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Get the explicit config path from the root command's persistent flag.
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
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return errors.Join(ErrConfig, err)
	}

	finalCfg := loadResult.Config

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	logger.Debug("configuration loaded",
		logging.FieldCheck, finalCfg.Check,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldFormat, finalCfg.Format,
	)

	// The diff format renders pipeline diffs, which only dry-run produces.
	dryRun := finalCfg.DryRun || finalCfg.Format == config.FormatDiff

	// Open the result cache unless disabled. Runs over explicitly named
	// files are targeted; they skip the cache rather than pollute the
	// tree-level snapshot. Cache failures downgrade to a cold run.
	var resultCache *cache.Cache
	if !finalCfg.NoCache && !namesExplicitFiles(args) {
		resultCache, err = cache.Open(workDir, info.Version)
		if err != nil {
			logger.Warn("result cache unavailable", logging.FieldError, err)
			resultCache = nil
		}
	}

	runOpts := driver.Options{
		Paths:           args,
		WorkingDir:      workDir,
		Extensions:      finalCfg.Extensions,
		IgnoreGlobs:     finalCfg.Ignore,
		IncludeVendored: finalCfg.IncludeVendored,
		Check:           finalCfg.Check,
		DryRun:          dryRun,
		Backup:          backupConfig(finalCfg),
		Calls:           effectiveCalls(finalCfg),
		MaxPasses:       finalCfg.MaxPasses,
		Jobs:            finalCfg.Jobs,
	}
	if resultCache != nil {
		runOpts.Cache = resultCache
	}

	logger.Debug("starting rewrite run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := driver.Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("rewrite run failed"), err)
	}

	// Get color mode from persistent flag.
	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := report.New(report.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      finalCfg.Format,
		Color:       colorMode,
		ShowSummary: true,
		Verbose:     flags.verbose,
		Compact:     flags.compact,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	changed, err := rep.Report(ctx, result)
	if err != nil {
		logger.Error("report failed", logging.FieldError, err)
		return fmt.Errorf("report results: %w", err)
	}

	if resultCache != nil {
		if err := resultCache.Save(ctx); err != nil {
			logger.Warn("save result cache", logging.FieldError, err)
		}
	}

	if result.HasErrors() {
		return fmt.Errorf("%d file(s) failed: %w", len(result.Errors), result.Errors[0])
	}

	if finalCfg.Check && changed > 0 {
		return ErrChangesNeeded
	}

	return nil
}

func addFixFlags(cmd *cobra.Command, flags *fixFlags) {
	cmd.Flags().BoolVar(&flags.check, "check", false,
		"report files needing normalization without writing, exit 1 if any")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = one per CPU)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.exts, "ext", nil, "file extensions to rewrite (default .rs)")
	cmd.Flags().StringSliceVar(&flags.calls, "calls", nil,
		"extra calls to recognize: name! or name!:writer")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "keep a sidecar backup of each rewritten file")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false,
		"rewrite vendored and generated files too")
	cmd.Flags().IntVar(&flags.maxPasses, "max-passes", 0,
		"rewrite passes before giving up on nested calls (0 = default)")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "show skipped files and per-call skip notes")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact JSON output")
}

// parseCallFlags parses --calls values of the form "name!" or "name!:writer".
func parseCallFlags(values []string) ([]config.CallConfig, error) {
	if len(values) == 0 {
		return nil, nil
	}

	calls := make([]config.CallConfig, 0, len(values))
	for _, value := range values {
		name, qualifier, qualified := strings.Cut(value, ":")
		if !strings.HasSuffix(name, "!") {
			return nil, fmt.Errorf("%w: call %q must end with a bang", ErrUsage, name)
		}
		if qualified && qualifier != "writer" {
			return nil, fmt.Errorf("%w: unknown call qualifier %q (want writer)", ErrUsage, qualifier)
		}
		calls = append(calls, config.CallConfig{Name: name, Writer: qualified})
	}
	return calls, nil
}

// effectiveCalls merges configured calls over the built-in set. A
// configured call matching a built-in name overrides its writer flag;
// new names are appended.
func effectiveCalls(cfg *config.Config) []fmtstr.CallSpec {
	calls := fmtstr.DefaultCalls()

	index := make(map[string]int, len(calls))
	for i, call := range calls {
		index[call.Name] = i
	}

	for _, cc := range cfg.Calls {
		if i, ok := index[cc.Name]; ok {
			calls[i].Writer = cc.Writer
			continue
		}
		index[cc.Name] = len(calls)
		calls = append(calls, fmtstr.CallSpec{
			Name:   cc.Name,
			Family: fmtstr.FamilyCustom,
			Writer: cc.Writer,
		})
	}

	return calls
}

// backupConfig converts config backup settings to the fsutil form.
func backupConfig(cfg *config.Config) fsutil.BackupConfig {
	bc := fsutil.DefaultBackupConfig()
	bc.Enabled = cfg.Backups.Enabled
	if cfg.Backups.Mode != "" {
		bc.Mode = fsutil.BackupMode(cfg.Backups.Mode)
	}
	return bc
}

// namesExplicitFiles reports whether any argument is an existing regular
// file rather than a directory root.
func namesExplicitFiles(paths []string) bool {
	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return true
		}
	}
	return false
}
