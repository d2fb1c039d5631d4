package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyler180/football-scout/internal/ingest"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches every configured source and overwrites the snapshot.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := ingestRun(cmd.Context(), cfg, log, nil)
		var empty *ingest.EmptyResultError
		if errors.As(err, &empty) {
			for _, f := range empty.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", f.Source, f.Err)
			}
			return err
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "run %s: %d players saved to %s\n", res.RunID, len(res.Records), cfg.SnapshotPath)
		if res.UsedSample {
			fmt.Fprintln(out, "every source failed; the snapshot holds SAMPLE data")
		}
		for _, f := range res.Failures {
			fmt.Fprintf(out, "  skipped %s: %v\n", f.Source, f.Err)
		}
		if n := len(res.Warnings); n > 0 {
			fmt.Fprintf(out, "  %d values could not be parsed and were left empty (--debug lists them)\n", n)
		}
		return nil
	},
}
