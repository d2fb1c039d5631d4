package fpl

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultURL is the season export of per-player FPL totals.
const DefaultURL = "https://raw.githubusercontent.com/vaastav/Fantasy-Premier-League/master/data/2023-24/players_raw.csv"

// RawPlayer is one CSV row, untyped. Empty strings mean the column was absent.
// PriceInMillions is set when NowCost came from a "price" column already in £m
// rather than a now_cost or value column in tenths.
type RawPlayer struct {
	FirstName         string
	SecondName        string
	WebName           string
	ElementType       string
	Team              string
	NowCost           string
	TotalPoints       string
	Minutes           string
	Starts            string
	Goals             string
	Assists           string
	CleanSheets       string
	YellowCards       string
	RedCards          string
	Influence         string
	Creativity        string
	Threat            string
	ICTIndex          string
	Form              string
	PointsPerGame     string
	SelectedByPercent string
	PriceInMillions   bool
}

var ErrNoNameColumns = errors.New("fpl: csv has no name columns (first_name/second_name or web_name)")

// priceColumn indexes the cost entry in columns.
const priceColumn = 5

// column aliases across season exports; first match wins.
var columns = []struct {
	names []string
	set   func(p *RawPlayer, v string)
}{
	{[]string{"first_name"}, func(p *RawPlayer, v string) { p.FirstName = v }},
	{[]string{"second_name", "last_name"}, func(p *RawPlayer, v string) { p.SecondName = v }},
	{[]string{"web_name", "name"}, func(p *RawPlayer, v string) { p.WebName = v }},
	{[]string{"element_type", "position"}, func(p *RawPlayer, v string) { p.ElementType = v }},
	{[]string{"team"}, func(p *RawPlayer, v string) { p.Team = v }},
	{[]string{"now_cost", "price", "value"}, func(p *RawPlayer, v string) { p.NowCost = v }},
	{[]string{"total_points", "points"}, func(p *RawPlayer, v string) { p.TotalPoints = v }},
	{[]string{"minutes"}, func(p *RawPlayer, v string) { p.Minutes = v }},
	{[]string{"starts"}, func(p *RawPlayer, v string) { p.Starts = v }},
	{[]string{"goals_scored", "goals"}, func(p *RawPlayer, v string) { p.Goals = v }},
	{[]string{"assists"}, func(p *RawPlayer, v string) { p.Assists = v }},
	{[]string{"clean_sheets"}, func(p *RawPlayer, v string) { p.CleanSheets = v }},
	{[]string{"yellow_cards"}, func(p *RawPlayer, v string) { p.YellowCards = v }},
	{[]string{"red_cards"}, func(p *RawPlayer, v string) { p.RedCards = v }},
	{[]string{"influence"}, func(p *RawPlayer, v string) { p.Influence = v }},
	{[]string{"creativity"}, func(p *RawPlayer, v string) { p.Creativity = v }},
	{[]string{"threat"}, func(p *RawPlayer, v string) { p.Threat = v }},
	{[]string{"ict_index"}, func(p *RawPlayer, v string) { p.ICTIndex = v }},
	{[]string{"form"}, func(p *RawPlayer, v string) { p.Form = v }},
	{[]string{"points_per_game"}, func(p *RawPlayer, v string) { p.PointsPerGame = v }},
	{[]string{"selected_by_percent"}, func(p *RawPlayer, v string) { p.SelectedByPercent = v }},
}

// Parse reads a players CSV. Columns are found by header name. Rows too short
// to reach every mapped column are dropped.
func Parse(r io.Reader) ([]RawPlayer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("fpl: read header: %w", err)
	}
	idx := func(name string) int {
		for i, h := range hdr {
			if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")), name) {
				return i
			}
		}
		return -1
	}

	pos := make([]int, len(columns))
	matched := make([]string, len(columns))
	maxIdx := -1
	for c, col := range columns {
		pos[c] = -1
		for _, n := range col.names {
			if i := idx(n); i >= 0 {
				pos[c] = i
				matched[c] = n
				break
			}
		}
		if pos[c] > maxIdx {
			maxIdx = pos[c]
		}
	}
	hasSplit := pos[0] >= 0 && pos[1] >= 0
	if !hasSplit && pos[2] < 0 {
		return nil, ErrNoNameColumns
	}
	inMillions := matched[priceColumn] == "price"

	out := make([]RawPlayer, 0, 800)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fpl: read row: %w", err)
		}
		if len(rec) <= maxIdx {
			continue
		}
		p := RawPlayer{PriceInMillions: inMillions}
		for c, col := range columns {
			if pos[c] >= 0 {
				col.set(&p, strings.TrimSpace(rec[pos[c]]))
			}
		}
		out = append(out, p)
	}
	return out, nil
}
