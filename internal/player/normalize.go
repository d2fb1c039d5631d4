package player

import (
	"strings"

	"github.com/tyler180/football-scout/internal/fbref"
	"github.com/tyler180/football-scout/internal/fpl"
)

// costScale converts FPL cost units to £m.
const costScale = 10

// FromFBref converts extracted HTML rows. Rows without a player name are dropped.
func FromFBref(rows []fbref.RawRow) ([]Record, []NormalizationWarning) {
	out := make([]Record, 0, len(rows))
	var warns []NormalizationWarning
	for _, r := range rows {
		name := strings.TrimSpace(r.Player)
		if name == "" {
			continue
		}
		c := coercer{source: SourceFBref, player: name}
		out = append(out, Record{
			Player:   name,
			Nation:   r.Nation,
			Position: r.Position,
			Team:     r.Team,
			League:   r.League,
			Age:      c.count("age", r.Age),
			Matches:  c.count("matches", r.Matches),
			Starts:   c.count("starts", r.Starts),
			Minutes:  c.count("minutes", r.Minutes),
			Goals:    c.count("goals", r.Goals),
			Assists:  c.count("assists", r.Assists),
			Source:   SourceFBref,
		})
		warns = append(warns, c.warns...)
	}
	return out, warns
}

// FromFPL converts rows of the FPL export. The display name is first + second
// name, falling back to web_name. now_cost and value are in tenths of a
// million whatever their formatting; a price column is already in millions.
func FromFPL(rows []fpl.RawPlayer, league string) ([]Record, []NormalizationWarning) {
	out := make([]Record, 0, len(rows))
	var warns []NormalizationWarning
	for _, p := range rows {
		name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.SecondName))
		if name == "" {
			name = strings.TrimSpace(p.WebName)
		}
		if name == "" {
			continue
		}
		c := coercer{source: SourceFPL, player: name}

		pos, ok := fpl.PositionName(p.ElementType)
		if !ok && p.ElementType != "" {
			c.warn("position", p.ElementType)
		}

		price := c.float("price", p.NowCost)
		if price != nil && !p.PriceInMillions {
			*price /= costScale
		}

		out = append(out, Record{
			Player:            name,
			Position:          pos,
			Team:              fpl.ResolveTeam(p.Team),
			League:            league,
			Starts:            c.count("starts", p.Starts),
			Minutes:           c.count("minutes", p.Minutes),
			Goals:             c.count("goals", p.Goals),
			Assists:           c.count("assists", p.Assists),
			CleanSheets:       c.count("clean_sheets", p.CleanSheets),
			YellowCards:       c.count("yellow_cards", p.YellowCards),
			RedCards:          c.count("red_cards", p.RedCards),
			TotalPoints:       c.intOrNil("total_points", p.TotalPoints),
			Influence:         c.float("influence", p.Influence),
			Creativity:        c.float("creativity", p.Creativity),
			Threat:            c.float("threat", p.Threat),
			ICTIndex:          c.float("ict_index", p.ICTIndex),
			Form:              c.float("form", p.Form),
			PointsPerGame:     c.float("points_per_game", p.PointsPerGame),
			SelectedByPercent: c.float("selected_by_percent", p.SelectedByPercent),
			Price:             price,
			Source:            SourceFPL,
		})
		warns = append(warns, c.warns...)
	}
	return out, warns
}
