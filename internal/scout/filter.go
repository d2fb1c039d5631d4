package scout

import (
	"strings"

	"github.com/tyler180/football-scout/internal/player"
)

// Criteria selects rows. Zero values mean "no constraint". A row whose value
// is missing fails only the constraints that are actually set.
type Criteria struct {
	Position   string
	Team       string
	League     string
	Search     string
	PriceMin   *float64
	PriceMax   *float64
	AgeMin     *int
	AgeMax     *int
	MinMinutes int
}

// positionMatch accepts "FW" against a multi-position cell like "FW,MF".
func positionMatch(want, pos string) bool {
	if want == "" {
		return true
	}
	for _, p := range strings.Split(pos, ",") {
		if strings.EqualFold(strings.TrimSpace(p), want) {
			return true
		}
	}
	return false
}

func (c Criteria) match(r player.Record) bool {
	if !positionMatch(strings.TrimSpace(c.Position), r.Position) {
		return false
	}
	if c.Team != "" && !strings.EqualFold(r.Team, c.Team) {
		return false
	}
	if c.League != "" && !strings.EqualFold(r.League, c.League) {
		return false
	}
	if c.Search != "" && !strings.Contains(strings.ToLower(r.Player), strings.ToLower(c.Search)) {
		return false
	}
	if c.PriceMin != nil || c.PriceMax != nil {
		if r.Price == nil {
			return false
		}
		if c.PriceMin != nil && *r.Price < *c.PriceMin {
			return false
		}
		if c.PriceMax != nil && *r.Price > *c.PriceMax {
			return false
		}
	}
	if c.AgeMin != nil || c.AgeMax != nil {
		if r.Age == nil {
			return false
		}
		if c.AgeMin != nil && *r.Age < *c.AgeMin {
			return false
		}
		if c.AgeMax != nil && *r.Age > *c.AgeMax {
			return false
		}
	}
	if c.MinMinutes > 0 && (r.Minutes == nil || *r.Minutes < c.MinMinutes) {
		return false
	}
	return true
}

// Filter returns a new Table with the matching rows in their original order.
func (t *Table) Filter(c Criteria) *Table {
	out := make([]player.Record, 0, len(t.rows))
	for _, r := range t.rows {
		if c.match(r) {
			out = append(out, r)
		}
	}
	return &Table{rows: out, sample: t.sample}
}
