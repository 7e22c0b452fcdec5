package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subrecon/internal/faults"
	"subrecon/internal/srt"
)

// maxListedIssues bounds the per-file issue listing.
const maxListedIssues = 20

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check subtitle files for malformed or misordered cues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("encoding") {
				encoding = cfg.Files.Encoding
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			failed := 0
			for _, arg := range args {
				path, err := resolvePathArg(arg)
				if err != nil {
					return err
				}
				doc, err := srt.ReadFile(path, encoding)
				if err != nil {
					failed++
					fmt.Fprintln(out, renderStatusLine(arg, statusError, err.Error(), colorize))
					continue
				}
				issues := srt.Validate(doc)
				if len(issues) == 0 {
					fmt.Fprintln(out, renderStatusLine(arg, statusOK, fmt.Sprintf("%d cues", len(doc.Cues)), colorize))
					continue
				}
				failed++
				fmt.Fprintln(out, renderStatusLine(arg, statusWarn, fmt.Sprintf("%d cues, %d issues", len(doc.Cues), len(issues)), colorize))
				for i, issue := range issues {
					if i == maxListedIssues {
						fmt.Fprintf(out, "%s%s... %d more\n", statusIndent, statusIndent, len(issues)-maxListedIssues)
						break
					}
					fmt.Fprintf(out, "%s%s%s\n", statusIndent, statusIndent, issue.String())
				}
			}
			if failed > 0 {
				return faults.Wrap(faults.ErrValidation, "validate", "", fmt.Sprintf("%d of %d files have problems", failed, len(args)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "Character encoding of the inputs")
	return cmd
}
