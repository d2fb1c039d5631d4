package scout

import (
	"errors"

	"github.com/tyler180/football-scout/internal/player"
)

// Weights is the replacement-score policy. The defaults favour points, then
// value efficiency, then money saved; they are a heuristic and configurable.
type Weights struct {
	Points      float64 `json:"points"`
	Value       float64 `json:"value"`
	PriceSaving float64 `json:"price_saving"`
}

var DefaultWeights = Weights{Points: 2, Value: 10, PriceSaving: 3}

const DefaultPriceWindow = 2.0

type ReplacementQuery struct {
	Player       string
	PriceWindow  float64  // ± around the current price, inclusive; 0 means DefaultPriceWindow
	Budget       *float64 // candidate price cap in £m, inclusive; nil means no cap
	SamePosition bool
	MinMinutes   int
	Weights      *Weights
	TopN         int
}

// Score rates candidate as a replacement for current. Both must have a value
// score.
func Score(w Weights, current, candidate player.Record) float64 {
	cv, _ := ValueScore(current)
	nv, _ := ValueScore(candidate)
	return w.Points*float64(*candidate.TotalPoints-*current.TotalPoints) +
		w.Value*(nv-cv) +
		w.PriceSaving*(*current.Price-*candidate.Price)
}

func samePlayer(a, b player.Record) bool {
	return a.Player == b.Player && a.Team == b.Team && a.League == b.League
}

// RecommendReplacement ranks candidates for replacing q.Player. Candidates
// must have a value score, sit within the price window and under the budget,
// meet MinMinutes and optionally share the position. Highest score first; equal scores keep
// table order.
func RecommendReplacement(t *Table, q ReplacementQuery) ([]Ranked, error) {
	current, err := t.Find(q.Player)
	if err != nil {
		return nil, err
	}
	if _, ok := ValueScore(current); !ok {
		return nil, ErrNoValue
	}
	if q.PriceWindow < 0 {
		return nil, errors.New("scout: price window must not be negative")
	}
	if q.Budget != nil && *q.Budget <= 0 {
		return nil, errors.New("scout: budget must be positive")
	}
	window := q.PriceWindow
	if window == 0 {
		window = DefaultPriceWindow
	}
	w := DefaultWeights
	if q.Weights != nil {
		w = *q.Weights
	}
	lo, hi := *current.Price-window, *current.Price+window
	if q.Budget != nil && *q.Budget < hi {
		hi = *q.Budget
	}

	out := make([]Ranked, 0, 32)
	for i, r := range t.rows {
		if samePlayer(r, current) {
			continue
		}
		if _, ok := ValueScore(r); !ok {
			continue
		}
		if *r.Price < lo || *r.Price > hi {
			continue
		}
		if q.SamePosition && !positionMatch(current.Position, r.Position) {
			continue
		}
		if q.MinMinutes > 0 && (r.Minutes == nil || *r.Minutes < q.MinMinutes) {
			continue
		}
		out = append(out, Ranked{Record: r, Score: Score(w, current, r), index: i})
	}
	sortRanked(out)
	return top(out, q.TopN), nil
}
