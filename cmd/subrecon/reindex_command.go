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

func newReindexCommand(ctx *commandContext) *cobra.Command {
	var output, encoding string
	var sortCues bool

	cmd := &cobra.Command{
		Use:   "reindex <file>",
		Short: "Renumber subtitle cues sequentially from 1",
		Long: `Reindex rewrites cue numbers as 1, 2, 3, ... in file order. With --sort the
cues are first ordered by start and end time. Without --output the file is
rewritten in place and the original is kept as <file>.bak.`,
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
			target := input
			if output != "" {
				if target, err = config.ExpandPath(output); err != nil {
					return faults.Wrap(faults.ErrValidation, "flags", "output", "", err)
				}
			}

			doc, err := srt.ReadFile(input, encoding)
			if err != nil {
				return faults.Wrap(faults.ErrInput, "reindex", "read", input, err)
			}
			cues := doc.Cues
			if sortCues {
				cues = srt.SortByTime(cues)
			}
			cues = srt.Reindex(cues)

			if samePath(input, target) {
				backup := input + ".bak"
				if err := fileutil.CopyFile(input, backup, 0o644); err != nil {
					return faults.Wrap(faults.ErrOutput, "reindex", "backup", backup, err)
				}
			}
			if err := srt.WriteFile(cmd.Context(), target, cues); err != nil {
				return outputError(target, err)
			}
			logger.Info("cues reindexed",
				logging.Path("input", input),
				logging.Path("output", target),
				logging.Int("cues", len(cues)),
				logging.Int("skipped_blocks", len(doc.Issues)),
				logging.Bool("sorted", sortCues),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %d cues -> %s\n", len(cues), target)
			if len(doc.Issues) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d malformed blocks (see `subrecon validate`)\n", len(doc.Issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default rewrites the input)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Character encoding of the input")
	cmd.Flags().BoolVar(&sortCues, "sort", false, "Order cues by time before numbering")
	return cmd
}
