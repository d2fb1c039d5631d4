package fpl

import (
	"strconv"
	"strings"
)

// 2023-24 team ids as used by the FPL export.
var teamNames = map[int]string{
	1:  "Arsenal",
	2:  "Aston Villa",
	3:  "Bournemouth",
	4:  "Brentford",
	5:  "Brighton",
	6:  "Burnley",
	7:  "Chelsea",
	8:  "Crystal Palace",
	9:  "Everton",
	10: "Fulham",
	11: "Liverpool",
	12: "Luton",
	13: "Man City",
	14: "Man Utd",
	15: "Newcastle",
	16: "Nott'm Forest",
	17: "Sheffield Utd",
	18: "Spurs",
	19: "West Ham",
	20: "Wolves",
}

func TeamName(id int) (string, bool) {
	n, ok := teamNames[id]
	return n, ok
}

// ResolveTeam maps a numeric id to its club; anything else comes back unchanged.
func ResolveTeam(raw string) string {
	raw = strings.TrimSpace(raw)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	if n, ok := TeamName(id); ok {
		return n
	}
	return raw
}

var positionCodes = map[string]string{
	"1": "GK", "2": "DEF", "3": "MID", "4": "FWD",
	"GK": "GK", "GKP": "GK", "DEF": "DEF", "MID": "MID", "FWD": "FWD",
}

// PositionName maps element_type codes 1..4 (or their labels) to GK/DEF/MID/FWD.
func PositionName(code string) (string, bool) {
	p, ok := positionCodes[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}
