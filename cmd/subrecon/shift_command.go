package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subrecon/internal/config"
	"subrecon/internal/faults"
	"subrecon/internal/fileutil"
	"subrecon/internal/logging"
	"subrecon/internal/srt"
)

const shiftedSuffix = "_linear_shifted"

func newShiftCommand(ctx *commandContext) *cobra.Command {
	var startMS, endMS int64
	var output, encoding string

	cmd := &cobra.Command{
		Use:   "shift <file>",
		Short: "Apply a linear time shift to a subtitle file",
		Long: `Shift moves each cue by an offset interpolated between --start-ms and
--end-ms according to where the cue falls in the file. The result is written
next to the input as <name>_linear_shifted.srt unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			input, err := resolvePathArg(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("encoding") {
				encoding = cfg.Files.Encoding
			}
			target := suffixedPath(input, shiftedSuffix)
			if output != "" {
				if target, err = config.ExpandPath(output); err != nil {
					return faults.Wrap(faults.ErrValidation, "flags", "output", "", err)
				}
			}

			doc, err := srt.ReadFile(input, encoding)
			if err != nil {
				return faults.Wrap(faults.ErrInput, "shift", "read", input, err)
			}
			if samePath(input, target) {
				backup := input + ".bak"
				if err := fileutil.CopyFile(input, backup, 0o644); err != nil {
					return faults.Wrap(faults.ErrOutput, "shift", "backup", backup, err)
				}
				logger.Info("backup written", logging.Path("path", backup))
			}

			shifted := srt.LinearShift(doc.Cues, startMS, endMS)
			if err := srt.WriteFile(cmd.Context(), target, shifted); err != nil {
				return outputError(target, err)
			}
			logger.Info("linear shift applied",
				logging.Path("input", input),
				logging.Path("output", target),
				logging.Int64("start_ms", startMS),
				logging.Int64("end_ms", endMS),
				logging.Int("cues", len(shifted)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Shifted %d cues (%+d ms to %+d ms) -> %s\n", len(shifted), startMS, endMS, target)
			return nil
		},
	}

	cmd.Flags().Int64Var(&startMS, "start-ms", 0, "Offset applied at the first cue")
	cmd.Flags().Int64Var(&endMS, "end-ms", 0, "Offset applied at the last cue")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default <name>_linear_shifted.srt)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Character encoding of the input")
	return cmd
}
