package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/scout"
)

var (
	compareMetrics []string

	recWindow  float64
	recBudget  float64
	recSamePos bool
	recMinutes int
	recTop     int
	recWeights scout.Weights
)

func init() {
	compareCmd.Flags().StringSliceVar(&compareMetrics, "metrics", nil, "radar metrics (default from config)")

	fs := recommendCmd.Flags()
	fs.Float64Var(&recWindow, "window", 0, "price window ± £m (default from config)")
	fs.Float64Var(&recBudget, "budget", 0, "most a candidate may cost in £m (default no cap)")
	fs.BoolVar(&recSamePos, "same-position", true, "only suggest players sharing a position")
	fs.IntVar(&recMinutes, "min-minutes", -1, "minimum minutes for candidates (default from config)")
	fs.IntVar(&recTop, "top", 10, "suggestions to show")
	fs.Float64Var(&recWeights.Points, "w-points", 0, "weight on the points difference")
	fs.Float64Var(&recWeights.Value, "w-value", 0, "weight on the points-per-£m difference")
	fs.Float64Var(&recWeights.PriceSaving, "w-saving", 0, "weight on money saved")

	rootCmd.AddCommand(compareCmd, recommendCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <player> <player>",
	Short: "Compares two players side by side with radar values scaled 0-100.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		metrics := compareMetrics
		if len(metrics) == 0 {
			metrics = cfg.RadarMetrics
		}
		cmp, err := scout.Compare(t, args[0], args[1], metrics)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		sampleNote(cmd, t)
		stats := newTable(out)
		stats.AppendHeader(table.Row{"", cmp.A.Player, cmp.B.Player})
		for _, col := range player.Columns[1:] {
			stats.AppendRow(table.Row{col, fmtMetric(cmp.A, col), fmtMetric(cmp.B, col)})
		}
		stats.Render()

		if len(cmp.Metrics) == 0 {
			fmt.Fprintln(out, "no radar metrics available in this snapshot")
			return nil
		}
		radar := newTable(out)
		radar.AppendHeader(table.Row{"Metric", cmp.A.Player, cmp.B.Player, "Max"})
		for _, m := range cmp.Metrics {
			radar.AppendRow(table.Row{m.Metric, fmt.Sprintf("%.0f", m.NormA), fmt.Sprintf("%.0f", m.NormB), m.Max})
		}
		radar.Render()
		return nil
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend <player>",
	Short: "Suggests replacements for a player within a price window.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		q := replacementQuery(cmd, args[0])
		recs, err := scout.RecommendReplacement(t, q)
		if err != nil {
			return err
		}
		sampleNote(cmd, t)
		if len(recs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "no candidates in the price window for %s\n", args[0])
			return nil
		}
		tw := newTable(cmd.OutOrStdout())
		tw.AppendHeader(table.Row{"#", "Player", "Pos", "Team", "Pts", "Price", "Score"})
		for i, r := range recs {
			rec := r.Record
			tw.AppendRow(table.Row{i + 1, rec.Player, rec.Position, rec.Team,
				fmtInt(rec.TotalPoints), fmtFloat(rec.Price, 1), fmt.Sprintf("%.1f", r.Score)})
		}
		tw.Render()
		return nil
	},
}

// replacementQuery starts from the configured policy; flags override it.
func replacementQuery(cmd *cobra.Command, name string) scout.ReplacementQuery {
	w := cfg.Recommend.Weights
	fs := cmd.Flags()
	if fs.Changed("w-points") {
		w.Points = recWeights.Points
	}
	if fs.Changed("w-value") {
		w.Value = recWeights.Value
	}
	if fs.Changed("w-saving") {
		w.PriceSaving = recWeights.PriceSaving
	}
	q := scout.ReplacementQuery{
		Player:       name,
		PriceWindow:  cfg.Recommend.PriceWindow,
		SamePosition: recSamePos,
		MinMinutes:   cfg.Recommend.MinMinutes,
		Weights:      &w,
		TopN:         recTop,
	}
	if fs.Changed("window") {
		q.PriceWindow = recWindow
	}
	if fs.Changed("budget") {
		b := recBudget
		q.Budget = &b
	}
	if recMinutes >= 0 {
		q.MinMinutes = recMinutes
	}
	return q
}
