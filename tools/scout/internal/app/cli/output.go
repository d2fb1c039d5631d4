package cli

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tyler180/football-scout/internal/player"
)

const na = "N/A"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func fmtInt(v *int) string {
	if v == nil {
		return na
	}
	return strconv.Itoa(*v)
}

func fmtFloat(v *float64, prec int) string {
	if v == nil {
		return na
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func fmtMetric(r player.Record, col string) string {
	if v, ok := r.Metric(col); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if s, ok := r.Text(col); ok && s != "" {
		return s
	}
	return na
}

var playerHeader = table.Row{"Player", "Pos", "Team", "League", "Age", "Min", "Gls", "Ast", "Pts", "Price"}

func playerRow(r player.Record) table.Row {
	return table.Row{
		r.Player, r.Position, r.Team, r.League,
		fmtInt(r.Age), fmtInt(r.Minutes), fmtInt(r.Goals), fmtInt(r.Assists),
		fmtInt(r.TotalPoints), fmtFloat(r.Price, 1),
	}
}
