package scout

import (
	"sort"

	"github.com/tyler180/football-scout/internal/player"
)

// Ranked is a row with the score it was ordered by.
type Ranked struct {
	Record player.Record `json:"record"`
	Score  float64       `json:"score"`
	index  int
}

// sortRanked orders by score descending; equal scores keep table order.
func sortRanked(rs []Ranked) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].index < rs[j].index
	})
}

func top(rs []Ranked, n int) []Ranked {
	if n > 0 && len(rs) > n {
		return rs[:n]
	}
	return rs
}

// ValueScore is total points per £m. Defined only for price > 0.
func ValueScore(r player.Record) (float64, bool) {
	if r.TotalPoints == nil || r.Price == nil || *r.Price <= 0 {
		return 0, false
	}
	return float64(*r.TotalPoints) / *r.Price, true
}

// RankByValue ranks rows by ValueScore. Rows without one are left out.
// topN <= 0 returns every ranked row.
func RankByValue(t *Table, topN int) []Ranked {
	out := make([]Ranked, 0, len(t.rows))
	for i, r := range t.rows {
		if v, ok := ValueScore(r); ok {
			out = append(out, Ranked{Record: r, Score: v, index: i})
		}
	}
	sortRanked(out)
	return top(out, topN)
}

// Expectation compares a player's points with what their price predicts.
type Expectation struct {
	Record   player.Record `json:"record"`
	Actual   float64       `json:"actual"`
	Expected float64       `json:"expected"`
	Over     float64       `json:"over"`
	OverPct  *float64      `json:"over_pct"` // nil when Expected is 0
	index    int
}

// Expected holds the points-per-£m ratio of a population and each row's
// expectation under it.
type Expected struct {
	Ratio float64       `json:"ratio"`
	Rows  []Expectation `json:"rows"`
}

// ExpectedPoints applies a single ratio, Σpoints / Σprice over the rows of t
// that have both, to each of those rows. The ratio is specific to t, so a
// filtered table gets its own.
func ExpectedPoints(t *Table) Expected {
	var sumPts, sumPrice float64
	idx := make([]int, 0, len(t.rows))
	for i, r := range t.rows {
		if r.TotalPoints == nil || r.Price == nil {
			continue
		}
		sumPts += float64(*r.TotalPoints)
		sumPrice += *r.Price
		idx = append(idx, i)
	}

	var ratio float64
	if sumPrice != 0 {
		ratio = sumPts / sumPrice
	}
	out := Expected{Ratio: ratio, Rows: make([]Expectation, 0, len(idx))}
	for _, i := range idx {
		r := t.rows[i]
		e := Expectation{
			Record:   r,
			Actual:   float64(*r.TotalPoints),
			Expected: *r.Price * ratio,
			index:    i,
		}
		e.Over = e.Actual - e.Expected
		if e.Expected != 0 {
			pct := e.Over / e.Expected * 100
			e.OverPct = &pct
		}
		out.Rows = append(out.Rows, e)
	}
	return out
}

// HiddenGems returns players beating their expectation whose price is under
// maxPrice, biggest overperformance first.
func HiddenGems(t *Table, maxPrice float64) []Expectation {
	all := ExpectedPoints(t).Rows
	out := make([]Expectation, 0, len(all))
	for _, e := range all {
		if e.Over > 0 && *e.Record.Price < maxPrice {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Over != out[j].Over {
			return out[i].Over > out[j].Over
		}
		return out[i].index < out[j].index
	})
	return out
}
