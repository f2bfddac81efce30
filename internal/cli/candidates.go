package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"talentscout/internal/common"
	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/storage"

	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Inspect and export stored candidates",
	Long: `Inspect, summarise and export the candidates saved by finished interviews.
Records come from the configured storage backend (JSON file or PostgreSQL).`,
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &candidatesOutput)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store storage.Store, oh *common.OutputHandler) error {
			records, err := store.LoadAll(ctx)
			if err != nil {
				return err
			}
			return oh.HandleOutput(records, candidatesOutput)
		})
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show [candidate-id | email]",
	Short: "Show one stored candidate",
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &candidatesOutput)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store storage.Store, oh *common.OutputHandler) error {
			record, err := findCandidate(ctx, store, args[0])
			if err != nil {
				return err
			}
			return oh.HandleOutput(record, candidatesOutput)
		})
	},
}

var candidatesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise stored candidates",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &candidatesOutput)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store storage.Store, oh *common.OutputHandler) error {
			stats, err := store.Statistics(ctx)
			if err != nil {
				return err
			}
			return oh.HandleOutput(stats, candidatesOutput)
		})
	},
}

var candidatesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored candidates",
	Long: `Export all stored candidates. The format is taken from --format, then from
the --output extension, then from the configured default. xlsx writes a
workbook with summary, candidate and technical response sheets and needs --output.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutputFormat(cmd, &candidatesOutput)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(ctx context.Context, store storage.Store, oh *common.OutputHandler) error {
			path, err := exportCandidates(ctx, store, oh, candidatesOutput)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported candidates to %s\n", path)
			}
			return nil
		})
	},
}

var candidatesClearYes bool

var candidatesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored candidate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !candidatesClearYes {
			return errors.NewValidationError(errors.ErrCodeInvalidRequest,
				"refusing to delete candidates without --yes", nil)
		}
		return withStore(cmd, func(ctx context.Context, store storage.Store, _ *common.OutputHandler) error {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All candidate records deleted.")
			return nil
		})
	},
}

var candidatesOutput common.CommandConfig

func init() {
	for _, c := range []*cobra.Command{candidatesListCmd, candidatesShowCmd, candidatesStatsCmd, candidatesExportCmd} {
		c.Flags().StringVarP(&candidatesOutput.OutputFile, "output", "o", "", "Output file path (default: stdout)")
		c.Flags().StringVar(&candidatesOutput.OutputFormat, "format", "", "Output format: json, text, markdown, csv or xlsx")

		_ = c.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			cfg := getConfigFromContext(cmd.Context())
			return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
		})
	}
	candidatesClearCmd.Flags().BoolVarP(&candidatesClearYes, "yes", "y", false, "Confirm deletion")

	candidatesCmd.AddCommand(candidatesListCmd)
	candidatesCmd.AddCommand(candidatesShowCmd)
	candidatesCmd.AddCommand(candidatesStatsCmd)
	candidatesCmd.AddCommand(candidatesExportCmd)
	candidatesCmd.AddCommand(candidatesClearCmd)
}

// resolveOutputFormat fills in and validates the output format
func resolveOutputFormat(cmd *cobra.Command, out *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	out.OutputFormat = common.ResolveFormat(out.OutputFormat, out.OutputFile, cfg.App.DefaultFormat)
	return common.ValidateOutputFormat(out.OutputFormat, cfg.App.SupportedFormats)
}

// withStore opens the configured store for the duration of fn
func withStore(cmd *cobra.Command, fn func(context.Context, storage.Store, *common.OutputHandler) error) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	return runWithStore(cmd.Context(), cfg, logger, cmd.OutOrStdout(), fn)
}

func runWithStore(ctx context.Context, cfg *config.Config, logger *errors.Logger, out io.Writer, fn func(context.Context, storage.Store, *common.OutputHandler) error) error {
	store, err := storage.NewStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.LogError(err, "Failed to close store")
		}
	}()
	return fn(ctx, store, common.NewOutputHandlerWithWriter(logger, out))
}

// findCandidate looks a record up by email when the key contains '@'
func findCandidate(ctx context.Context, store storage.Store, key string) (any, error) {
	if strings.Contains(key, "@") {
		return store.GetByEmail(ctx, key)
	}
	return store.GetByID(ctx, key)
}

// exportCandidates writes every record in the requested format and returns
// the file written, or "" when the output went to stdout
func exportCandidates(ctx context.Context, store storage.Store, oh *common.OutputHandler, out common.CommandConfig) (string, error) {
	records, err := store.LoadAll(ctx)
	if err != nil {
		return "", err
	}

	switch out.OutputFormat {
	case common.FormatXLSX:
		if out.OutputFile == "" {
			return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "xlsx export needs --output", nil)
		}
		if len(records) == 0 {
			return "", errors.NewPersistenceError(errors.ErrCodeRecordNotFound, "no candidates to export", nil)
		}
		return storage.ExportExcel(records, storage.ComputeStatistics(records), out.OutputFile)
	case "csv":
		if out.OutputFile != "" {
			if err := storage.ExportCSV(records, out.OutputFile); err != nil {
				return "", err
			}
			return out.OutputFile, nil
		}
	}

	if err := oh.HandleOutput(records, out); err != nil {
		return "", err
	}
	return out.OutputFile, nil
}
