package scout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/store"
)

var (
	ErrNoData         = errors.New("scout: no data available")
	ErrPlayerNotFound = errors.New("scout: player not found")
	ErrNoValue        = errors.New("scout: player has no value score (needs points and a positive price)")
)

// fuzzy lookups below this Jaro-Winkler similarity are treated as misses
const findThreshold = 0.88

// Table is a loaded snapshot. It is never mutated; Filter returns a new Table.
type Table struct {
	rows   []player.Record
	sample bool
}

func NewTable(recs []player.Record) *Table {
	t := &Table{rows: append([]player.Record(nil), recs...)}
	for _, r := range t.rows {
		if r.Source == player.SourceSample {
			t.sample = true
			break
		}
	}
	return t
}

// Load reads the snapshot at path. An empty snapshot is ErrNoData.
func Load(path string) (*Table, error) {
	recs, err := store.ReadSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, ErrNoData
	}
	return NewTable(recs), nil
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Rows() []player.Record { return append([]player.Record(nil), t.rows...) }

// IsSample reports whether any row is fixture data rather than fetched data.
func (t *Table) IsSample() bool { return t.sample }

// SortedByName returns the rows ordered by player name for display.
func (t *Table) SortedByName() []player.Record {
	out := t.Rows()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Player) < strings.ToLower(out[j].Player)
	})
	return out
}

// Distinct lists the non-empty values of a text column, sorted.
func (t *Table) Distinct(column string) []string {
	set := map[string]struct{}{}
	for _, r := range t.rows {
		if v, ok := r.Text(column); ok && v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Find looks a player up by name: case-insensitive exact match first, then the
// closest Jaro-Winkler match. The first row wins on equal matches.
func (t *Table) Find(name string) (player.Record, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return player.Record{}, ErrPlayerNotFound
	}
	for _, r := range t.rows {
		if strings.ToLower(r.Player) == want {
			return r, nil
		}
	}
	best, bestSim := -1, findThreshold
	for i, r := range t.rows {
		sim := matchr.JaroWinkler(want, strings.ToLower(r.Player), false)
		if sim > bestSim {
			best, bestSim = i, sim
		}
	}
	if best < 0 {
		return player.Record{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return t.rows[best], nil
}
