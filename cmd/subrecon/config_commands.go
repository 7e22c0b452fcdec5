package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subrecon/internal/config"
	"subrecon/internal/faults"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

// configTarget resolves the --path flag, falling back to the user config file.
func configTarget(flagValue string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return config.ExpandPath(value)
	}
	return config.DefaultConfigPath()
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write the sample configuration",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if !overwrite {
				switch _, statErr := os.Stat(target); {
				case statErr == nil:
					return faults.Wrap(faults.ErrValidation, "config", "init",
						fmt.Sprintf("%s already exists; pass --overwrite to replace it", target), nil)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			printLines(cmd.OutOrStdout(),
				"Wrote sample configuration to "+target,
				"Set [files] text_source, timing_source and output, or pass --text, --timing and -o to `subrecon reconcile`.",
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			source := statusOK
			sourceNote := ctx.configPath
			if !ctx.configExists {
				source = statusInfo
				sourceNote = ctx.configPath + " (not found, defaults used)"
			}
			lines := []string{
				renderStatusLine("Config", source, sourceNote, colorize),
				renderStatusLine("Metric", statusInfo, cfg.Matching.Metric, colorize),
				renderStatusLine("History", statusInfo, yesNo(cfg.History.Enabled), colorize),
			}
			if err := cfg.RequireFiles(); err != nil {
				lines = append(lines, renderStatusLine("Sources", statusWarn, err.Error(), colorize))
			} else {
				lines = append(lines, renderStatusLine("Sources", statusOK, "text and timing set", colorize))
			}
			printLines(out, append(lines, "Configuration valid")...)
			return nil
		},
	}
}
