package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tyler180/football-scout/internal/scout"
)

// filterFlags are the table filters every query command accepts.
type filterFlags struct {
	position, team, league, search string
	priceMin, priceMax             float64
	ageMin, ageMax                 int
	minMinutes                     int
}

func (f *filterFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.position, "position", "", "position code, e.g. FW or MID")
	fs.StringVar(&f.team, "team", "", "team name")
	fs.StringVar(&f.league, "league", "", "league name")
	fs.StringVar(&f.search, "search", "", "case-insensitive substring of the player name")
	fs.Float64Var(&f.priceMin, "price-min", 0, "minimum price (£m)")
	fs.Float64Var(&f.priceMax, "price-max", 0, "maximum price (£m)")
	fs.IntVar(&f.ageMin, "age-min", 0, "minimum age")
	fs.IntVar(&f.ageMax, "age-max", 0, "maximum age")
	fs.IntVar(&f.minMinutes, "min-minutes", -1, "minimum minutes played (default from config)")
}

// criteria only sets the bounds that were passed on the command line.
func (f *filterFlags) criteria(cmd *cobra.Command, defMinutes int) scout.Criteria {
	c := scout.Criteria{
		Position:   f.position,
		Team:       f.team,
		League:     f.league,
		Search:     f.search,
		MinMinutes: defMinutes,
	}
	fs := cmd.Flags()
	if fs.Changed("price-min") {
		c.PriceMin = &f.priceMin
	}
	if fs.Changed("price-max") {
		c.PriceMax = &f.priceMax
	}
	if fs.Changed("age-min") {
		c.AgeMin = &f.ageMin
	}
	if fs.Changed("age-max") {
		c.AgeMax = &f.ageMax
	}
	if f.minMinutes >= 0 {
		c.MinMinutes = f.minMinutes
	}
	return c
}
