package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/fmtlift/internal/configloader"
	"github.com/yaklabco/fmtlift/internal/logging"
	"github.com/yaklabco/fmtlift/pkg/fmtstr"
)

type callsFlags struct {
	format string
}

const formatJSON = "json"

// callInfo represents a recognized call in JSON output.
type callInfo struct {
	Name   string `json:"name"`
	Family string `json:"family"`
	Writer bool   `json:"writer"`
}

func newCallsCommand() *cobra.Command {
	flags := &callsFlags{}

	cmd := &cobra.Command{
		Use:   "calls",
		Short: "List recognized formatting calls",
		Long: `List the formatting calls the rewriter recognizes, with the family each
belongs to and whether its first argument names an output sink. Calls
added through configuration are included.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalls(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")

	return cmd
}

func runCalls(cmd *cobra.Command, flags *callsFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: unknown format %q (want text or json)", ErrUsage, flags.format)
	}

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

	calls := effectiveCalls(loadResult.Config)

	if flags.format == formatJSON {
		return outputCallsJSON(cmd, calls)
	}

	logger := logging.NewInteractive()
	logger.Info("recognized calls")

	for _, call := range calls {
		writer := "-"
		if call.Writer {
			writer = "yes"
		}

		logger.Info(call.Name,
			logging.FieldFamily, call.Family,
			logging.FieldWriter, writer,
		)
	}

	return nil
}

// outputCallsJSON writes the call table as a JSON array.
func outputCallsJSON(cmd *cobra.Command, calls []fmtstr.CallSpec) error {
	infos := make([]callInfo, 0, len(calls))
	for _, call := range calls {
		infos = append(infos, callInfo{
			Name:   call.Name,
			Family: call.Family,
			Writer: call.Writer,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding calls: %w", err)
	}
	return nil
}
