package fbref

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultTableID  = "stats_standard"
	DefaultMinCells = 10
)

// RawRow holds one player row as text, before any numeric coercion.
type RawRow struct {
	League   string
	Player   string
	Nation   string
	Position string
	Team     string
	Age      string
	Matches  string
	Starts   string
	Minutes  string
	Goals    string
	Assists  string
}

type Options struct {
	TableID  string
	MinCells int
}

func (o Options) withDefaults() Options {
	if o.TableID == "" {
		o.TableID = DefaultTableID
	}
	if o.MinCells <= 0 {
		o.MinCells = DefaultMinCells
	}
	return o
}

// ExtractionError means the page was fetched but the expected table structure was not found.
type ExtractionError struct {
	League  string
	TableID string
	Reason  string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: table#%s %s", e.League, e.TableID, e.Reason)
}

// League is a configured HTML source.
type League struct {
	Name string
	Comp int
	Slug string
}

func (l League) URL() string {
	return fmt.Sprintf("https://fbref.com/en/comps/%d/stats/%s-Stats", l.Comp, l.Slug)
}

// BigFive returns the default league set in scrape order.
func BigFive() []League {
	return []League{
		{Name: "Premier League", Comp: 9, Slug: "Premier-League"},
		{Name: "La Liga", Comp: 12, Slug: "La-Liga"},
		{Name: "Bundesliga", Comp: 20, Slug: "Bundesliga"},
		{Name: "Serie A", Comp: 11, Slug: "Serie-A"},
		{Name: "Ligue 1", Comp: 13, Slug: "Ligue-1"},
	}
}

var wsRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return wsRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// cleanAge keeps the year part of "25-123" (years-days).
func cleanAge(s string) string {
	s = cleanText(s)
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// cleanNation drops the lowercase flag code in front of "eng ENG".
func cleanNation(s string) string {
	s = cleanText(s)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		return s[i+1:]
	}
	return s
}
