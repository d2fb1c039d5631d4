package store

import (
	"io"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/tyler180/football-scout/internal/player"
)

// SnapshotRow is the Parquet layout of a snapshot; it is also the schema the
// Athena table is declared against.
type SnapshotRow struct {
	Player   string `parquet:"player"`
	Nation   string `parquet:"nation"`
	Position string `parquet:"position"`
	Team     string `parquet:"team"`
	League   string `parquet:"league"`

	Age         *int64 `parquet:"age,optional"`
	Matches     *int64 `parquet:"matches,optional"`
	Starts      *int64 `parquet:"starts,optional"`
	Minutes     *int64 `parquet:"minutes,optional"`
	Goals       *int64 `parquet:"goals,optional"`
	Assists     *int64 `parquet:"assists,optional"`
	CleanSheets *int64 `parquet:"clean_sheets,optional"`
	YellowCards *int64 `parquet:"yellow_cards,optional"`
	RedCards    *int64 `parquet:"red_cards,optional"`
	TotalPoints *int64 `parquet:"total_points,optional"`

	Influence         *float64 `parquet:"influence,optional"`
	Creativity        *float64 `parquet:"creativity,optional"`
	Threat            *float64 `parquet:"threat,optional"`
	ICTIndex          *float64 `parquet:"ict_index,optional"`
	Form              *float64 `parquet:"form,optional"`
	PointsPerGame     *float64 `parquet:"points_per_game,optional"`
	SelectedByPercent *float64 `parquet:"selected_by_percent,optional"`
	Price             *float64 `parquet:"price,optional"`

	Source string `parquet:"source"`
}

func i64(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}

func fromI64(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func toRow(r player.Record) SnapshotRow {
	return SnapshotRow{
		Player: r.Player, Nation: r.Nation, Position: r.Position, Team: r.Team, League: r.League,
		Age: i64(r.Age), Matches: i64(r.Matches), Starts: i64(r.Starts), Minutes: i64(r.Minutes),
		Goals: i64(r.Goals), Assists: i64(r.Assists), CleanSheets: i64(r.CleanSheets),
		YellowCards: i64(r.YellowCards), RedCards: i64(r.RedCards), TotalPoints: i64(r.TotalPoints),
		Influence: r.Influence, Creativity: r.Creativity, Threat: r.Threat, ICTIndex: r.ICTIndex,
		Form: r.Form, PointsPerGame: r.PointsPerGame, SelectedByPercent: r.SelectedByPercent,
		Price:  r.Price,
		Source: r.Source,
	}
}

func fromRow(s SnapshotRow) player.Record {
	return player.Record{
		Player: s.Player, Nation: s.Nation, Position: s.Position, Team: s.Team, League: s.League,
		Age: fromI64(s.Age), Matches: fromI64(s.Matches), Starts: fromI64(s.Starts), Minutes: fromI64(s.Minutes),
		Goals: fromI64(s.Goals), Assists: fromI64(s.Assists), CleanSheets: fromI64(s.CleanSheets),
		YellowCards: fromI64(s.YellowCards), RedCards: fromI64(s.RedCards), TotalPoints: fromI64(s.TotalPoints),
		Influence: s.Influence, Creativity: s.Creativity, Threat: s.Threat, ICTIndex: s.ICTIndex,
		Form: s.Form, PointsPerGame: s.PointsPerGame, SelectedByPercent: s.SelectedByPercent,
		Price:  s.Price,
		Source: s.Source,
	}
}

func writeParquet(w io.Writer, recs []player.Record) error {
	pw := parquet.NewWriter(w, parquet.SchemaOf(new(SnapshotRow)), parquet.Compression(&parquet.Snappy))
	for _, r := range recs {
		if err := pw.Write(toRow(r)); err != nil {
			_ = pw.Close()
			return err
		}
	}
	return pw.Close()
}

func readParquet(path string) ([]player.Record, error) {
	rows, err := parquet.ReadFile[SnapshotRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]player.Record, 0, len(rows))
	for _, r := range rows {
		if r.Player == "" {
			continue
		}
		out = append(out, fromRow(r))
	}
	return out, nil
}
