package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tyler180/football-scout/internal/scout"
)

var (
	playersFilter  filterFlags
	rankFilter     filterFlags
	expectedFilter filterFlags
	gemsFilter     filterFlags

	rankTop      int
	gemsMaxPrice float64
	listColumn   string
)

func init() {
	playersCmd.Flags().StringVar(&listColumn, "list", "", "print the distinct values of a column (team, league, position, nation) instead")
	playersFilter.bind(playersCmd.Flags())

	rankCmd.Flags().IntVar(&rankTop, "top", 20, "rows to show")
	rankFilter.bind(rankCmd.Flags())

	expectedFilter.bind(expectedCmd.Flags())

	gemsCmd.Flags().Float64Var(&gemsMaxPrice, "max-price", 6.0, "price cap (£m), exclusive")
	gemsFilter.bind(gemsCmd.Flags())

	rootCmd.AddCommand(playersCmd, rankCmd, expectedCmd, gemsCmd)
}

// filtered loads the snapshot and applies the command's filters.
func filtered(cmd *cobra.Command, f *filterFlags) (*scout.Table, error) {
	t, err := loadTable(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	return t.Filter(f.criteria(cmd, cfg.MinMinutes)), nil
}

func sampleNote(cmd *cobra.Command, t *scout.Table) {
	if t.IsSample() {
		fmt.Fprintln(cmd.OutOrStdout(), "(sample data)")
	}
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Lists players matching the filters, sorted by name.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listColumn != "" {
			t, err := loadTable(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(t.Distinct(listColumn), "\n"))
			return nil
		}
		t, err := filtered(cmd, &playersFilter)
		if err != nil {
			return err
		}
		sampleNote(cmd, t)
		tw := newTable(cmd.OutOrStdout())
		tw.AppendHeader(playerHeader)
		for _, r := range t.SortedByName() {
			tw.AppendRow(playerRow(r))
		}
		tw.AppendFooter(table.Row{fmt.Sprintf("%d players", t.Len())})
		tw.Render()
		return nil
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Ranks priced players by points per £m.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := filtered(cmd, &rankFilter)
		if err != nil {
			return err
		}
		sampleNote(cmd, t)
		tw := newTable(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"#", "Player", "Pos", "Team", "Pts", "Price", "Pts/£m"})
		for i, r := range scout.RankByValue(t, rankTop) {
			rec := r.Record
			tw.AppendRow(table.Row{i + 1, rec.Player, rec.Position, rec.Team,
				fmtInt(rec.TotalPoints), fmtFloat(rec.Price, 1), fmt.Sprintf("%.2f", r.Score)})
		}
		tw.Render()
		return nil
	},
}

func expectationTable(cmd *cobra.Command, rows []scout.Expectation) {
	tw := newTable(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Player", "Team", "Price", "Pts", "Expected", "Over", "Over %"})
	for _, e := range rows {
		tw.AppendRow(table.Row{e.Record.Player, e.Record.Team, fmtFloat(e.Record.Price, 1),
			fmt.Sprintf("%.0f", e.Actual), fmt.Sprintf("%.1f", e.Expected),
			fmt.Sprintf("%+.1f", e.Over), fmtFloat(e.OverPct, 1)})
	}
	tw.Render()
}

var expectedCmd = &cobra.Command{
	Use:   "expected",
	Short: "Shows expected points from price and each player's over/underperformance.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := filtered(cmd, &expectedFilter)
		if err != nil {
			return err
		}
		sampleNote(cmd, t)
		exp := scout.ExpectedPoints(t)
		fmt.Fprintf(cmd.OutOrStdout(), "points per £m across %d players: %.2f\n", len(exp.Rows), exp.Ratio)
		expectationTable(cmd, exp.Rows)
		return nil
	},
}

var gemsCmd = &cobra.Command{
	Use:   "gems",
	Short: "Lists cheap players outperforming their price.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := filtered(cmd, &gemsFilter)
		if err != nil {
			return err
		}
		sampleNote(cmd, t)
		expectationTable(cmd, scout.HiddenGems(t, gemsMaxPrice))
		return nil
	},
}
