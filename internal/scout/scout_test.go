package scout

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/store"
)

func rec(name, pos string, points int, price float64, minutes int) player.Record {
	return player.Record{
		Player:      name,
		Position:    pos,
		Team:        "Team " + name,
		League:      "Premier League",
		TotalPoints: player.Int(points),
		Price:       player.Float(price),
		Minutes:     player.Int(minutes),
		Source:      player.SourceFPL,
	}
}

func names(rs []Ranked) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Record.Player)
	}
	return out
}

func TestValueScore(t *testing.T) {
	v, ok := ValueScore(rec("a", "MID", 50, 5, 0))
	require.True(t, ok)
	require.Equal(t, 10.0, v)

	_, ok = ValueScore(rec("b", "MID", 50, 0, 0))
	require.False(t, ok)
	_, ok = ValueScore(rec("c", "MID", 50, -1, 0))
	require.False(t, ok)
	_, ok = ValueScore(player.Record{Player: "d", TotalPoints: player.Int(3)})
	require.False(t, ok)
}

func TestRankByValue_ExcludesUnpricedAndBreaksTiesByOrder(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("free", "MID", 40, 0, 900),
		rec("first", "MID", 40, 4, 900),
		rec("best", "FWD", 90, 6, 900),
		rec("second", "DEF", 50, 5, 900),
	})
	got := RankByValue(tbl, 0)
	require.Equal(t, []string{"best", "first", "second"}, names(got))
	require.Equal(t, 15.0, got[0].Score)

	require.Equal(t, []string{"best", "first"}, names(RankByValue(tbl, 2)))
}

func TestExpectedPoints(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("a", "MID", 100, 10, 900),
		rec("b", "MID", 60, 5, 900),
		rec("c", "MID", 0, 0, 900),
		{Player: "no price", TotalPoints: player.Int(30)},
	})
	exp := ExpectedPoints(tbl)
	// Σpoints 160 / Σprice 15
	require.InDelta(t, 160.0/15.0, exp.Ratio, 1e-9)
	require.Len(t, exp.Rows, 3)

	a := exp.Rows[0]
	require.InDelta(t, 10*160.0/15.0, a.Expected, 1e-9)
	require.InDelta(t, 100-a.Expected, a.Over, 1e-9)
	require.NotNil(t, a.OverPct)

	c := exp.Rows[2]
	require.Equal(t, 0.0, c.Expected)
	require.Nil(t, c.OverPct, "undefined when expected is zero")
}

func TestExpectedPoints_RatioFollowsPopulation(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("a", "MID", 100, 10, 900),
		rec("b", "FWD", 20, 10, 900),
	})
	require.InDelta(t, 6.0, ExpectedPoints(tbl).Ratio, 1e-9)
	require.InDelta(t, 2.0, ExpectedPoints(tbl.Filter(Criteria{Position: "FWD"})).Ratio, 1e-9)
}

func TestExpectedPoints_AllZeroPrices(t *testing.T) {
	tbl := NewTable([]player.Record{rec("a", "MID", 10, 0, 900)})
	exp := ExpectedPoints(tbl)
	require.Equal(t, 0.0, exp.Ratio)
	require.Nil(t, exp.Rows[0].OverPct)
}

func TestHiddenGems(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("pricey", "MID", 200, 12, 900),
		rec("gem", "MID", 120, 5, 900),
		rec("dud", "MID", 10, 5, 900),
		rec("gem2", "FWD", 90, 4, 900),
	})
	got := HiddenGems(tbl, 6)
	require.Len(t, got, 2)
	require.Equal(t, "gem", got[0].Record.Player)
	require.Equal(t, "gem2", got[1].Record.Player)
	for _, g := range got {
		require.Greater(t, g.Over, 0.0)
	}
}

func TestScore_Worked(t *testing.T) {
	current := rec("cur", "MID", 8, 8, 900)     // value 1
	candidate := rec("cand", "MID", 18, 6, 900) // value 3
	require.InDelta(t, 46.0, Score(DefaultWeights, current, candidate), 1e-9)
}

func TestRecommendReplacement(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("Current", "MID", 8, 8, 2000),
		rec("Cheap Star", "MID", 18, 6, 2000),
		rec("Too Cheap", "MID", 100, 5.9, 2000),
		rec("Edge", "MID", 8, 10, 2000),
		rec("Forward", "FWD", 50, 8, 2000),
		rec("Bench", "MID", 40, 8, 100),
		rec("Free", "MID", 40, 0, 2000),
	})

	got, err := RecommendReplacement(tbl, ReplacementQuery{
		Player:       "current",
		SamePosition: true,
		MinMinutes:   500,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Cheap Star", "Edge"}, names(got))
	require.InDelta(t, 46.0, got[0].Score, 1e-9)

	got, err = RecommendReplacement(tbl, ReplacementQuery{Player: "Current", TopN: 1})
	require.NoError(t, err)
	require.Equal(t, []string{"Forward"}, names(got))

	custom := Weights{Points: 0, Value: 0, PriceSaving: 1}
	got, err = RecommendReplacement(tbl, ReplacementQuery{Player: "Current", PriceWindow: 3, Weights: &custom, SamePosition: true})
	require.NoError(t, err)
	require.Equal(t, "Too Cheap", got[0].Record.Player)
}

func TestRecommendReplacement_Budget(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("Current", "MID", 80, 8, 2000),
		rec("Upgrade", "MID", 120, 9.5, 2000),
		rec("At Budget", "MID", 90, 8.5, 2000),
		rec("Cheaper", "MID", 70, 7, 2000),
	})

	got, err := RecommendReplacement(tbl, ReplacementQuery{Player: "Current", SamePosition: true})
	require.NoError(t, err)
	require.Contains(t, names(got), "Upgrade")

	budget := 8.5
	got, err = RecommendReplacement(tbl, ReplacementQuery{Player: "Current", SamePosition: true, Budget: &budget})
	require.NoError(t, err)
	require.NotContains(t, names(got), "Upgrade", "inside the window but over budget")
	require.ElementsMatch(t, []string{"At Budget", "Cheaper"}, names(got))

	budget = 5
	got, err = RecommendReplacement(tbl, ReplacementQuery{Player: "Current", Budget: &budget})
	require.NoError(t, err)
	require.Empty(t, got, "budget below the window leaves nothing")

	budget = 0
	_, err = RecommendReplacement(tbl, ReplacementQuery{Player: "Current", Budget: &budget})
	require.ErrorContains(t, err, "budget must be positive")
}

func TestRecommendReplacement_Ties(t *testing.T) {
	tbl := NewTable([]player.Record{
		rec("Current", "MID", 10, 5, 900),
		rec("Twin A", "MID", 20, 5, 900),
		rec("Twin B", "MID", 20, 5, 900),
	})
	got, err := RecommendReplacement(tbl, ReplacementQuery{Player: "Current"})
	require.NoError(t, err)
	require.Equal(t, []string{"Twin A", "Twin B"}, names(got))
}

func TestRecommendReplacement_Errors(t *testing.T) {
	tbl := NewTable([]player.Record{rec("Free Agent", "MID", 10, 0, 900)})

	_, err := RecommendReplacement(tbl, ReplacementQuery{Player: "Free Agent"})
	require.True(t, errors.Is(err, ErrNoValue))

	_, err = RecommendReplacement(tbl, ReplacementQuery{Player: "zzzz"})
	require.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestCompare_RadarNormalization(t *testing.T) {
	full := NewTable([]player.Record{
		{Player: "Kane", Goals: player.Int(36), Assists: player.Int(8), YellowCards: player.Int(0)},
		{Player: "Wirtz", Goals: player.Int(11), Assists: player.Int(11), YellowCards: player.Int(0)},
		{Player: "Bench", Goals: player.Int(0)},
	})
	cmpRes, err := Compare(full, "kane", "Wirtz", []string{"goals", "assists", "yellow_cards", "shots", "clean_sheets"})
	require.NoError(t, err)

	var got []string
	for _, m := range cmpRes.Metrics {
		got = append(got, m.Metric)
		require.GreaterOrEqual(t, m.NormA, 0.0)
		require.LessOrEqual(t, m.NormA, 100.0)
		require.GreaterOrEqual(t, m.NormB, 0.0)
		require.LessOrEqual(t, m.NormB, 100.0)
	}
	require.Equal(t, []string{"goals", "assists", "yellow_cards"}, got, "absent metrics are dropped, not zero-filled")

	goals := cmpRes.Metrics[0]
	require.Equal(t, 36.0, goals.Max)
	require.Equal(t, 100.0, goals.NormA)
	require.InDelta(t, 11.0/36.0*100, goals.NormB, 1e-9)

	cards := cmpRes.Metrics[2]
	require.Equal(t, 0.0, cards.NormA)
	require.Equal(t, 0.0, cards.NormB)
}

func TestFilter(t *testing.T) {
	base := []player.Record{
		{Player: "Bukayo Saka", Position: "FW,MF", Team: "Arsenal", League: "Premier League", Age: player.Int(22), Minutes: player.Int(2917)},
		{Player: "Kai Havertz", Position: "FW", Team: "Arsenal", League: "Premier League", Age: player.Int(24), Minutes: player.Int(400)},
		{Player: "Unknown Minutes", Position: "DF", Team: "Lille", League: "Ligue 1"},
		{Player: "Florian Wirtz", Position: "MF", Team: "Leverkusen", League: "Bundesliga", Age: player.Int(20), Minutes: player.Int(2522), Price: player.Float(8.5)},
	}
	tbl := NewTable(base)

	require.Equal(t, 2, tbl.Filter(Criteria{Position: "fw"}).Len())
	require.Equal(t, 1, tbl.Filter(Criteria{League: "ligue 1"}).Len(), "missing minutes kept without a threshold")
	require.Equal(t, 2, tbl.Filter(Criteria{MinMinutes: 500}).Len())
	require.Equal(t, 1, tbl.Filter(Criteria{Search: "saka"}).Len())
	require.Equal(t, 1, tbl.Filter(Criteria{PriceMax: player.Float(9)}).Len())
	require.Equal(t, 2, tbl.Filter(Criteria{AgeMin: player.Int(21), AgeMax: player.Int(30)}).Len())

	// the source table is untouched
	require.Equal(t, 4, tbl.Len())
	rows := tbl.Rows()
	rows[0].Player = "changed"
	require.Equal(t, "Bukayo Saka", tbl.Rows()[0].Player)
}

func TestFind(t *testing.T) {
	tbl := NewTable([]player.Record{{Player: "Kylian Mbappé"}, {Player: "Jonathan David"}})

	r, err := tbl.Find("jonathan david")
	require.NoError(t, err)
	require.Equal(t, "Jonathan David", r.Player)

	r, err = tbl.Find("Kylian Mbappe")
	require.NoError(t, err)
	require.Equal(t, "Kylian Mbappé", r.Player)

	_, err = tbl.Find("Erling Haaland")
	require.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, store.WriteSnapshot(empty, nil))
	_, err := Load(empty)
	require.True(t, errors.Is(err, ErrNoData))

	path := filepath.Join(dir, "players.csv")
	require.NoError(t, store.WriteSnapshot(path, player.Sample()))
	tbl, err := Load(path)
	require.NoError(t, err)
	require.True(t, tbl.IsSample())
	require.Equal(t, len(player.Sample()), tbl.Len())
	require.Equal(t, []string{"Bundesliga", "La Liga", "Ligue 1", "Premier League", "Serie A"}, tbl.Distinct("league"))
}
