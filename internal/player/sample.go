package player

type sampleRow struct {
	player, nation, pos, team, league string
	age, mp, starts, min, gls, ast    int
	points                            int
	price                             float64
}

var sampleRows = []sampleRow{
	{"Erling Haaland", "NOR", "FWD", "Man City", "Premier League", 23, 31, 29, 2561, 27, 5, 217, 14.0},
	{"Cole Palmer", "ENG", "MID", "Chelsea", "Premier League", 21, 34, 33, 2618, 22, 11, 244, 6.3},
	{"Ollie Watkins", "ENG", "FWD", "Aston Villa", "Premier League", 28, 37, 37, 3227, 19, 13, 228, 9.0},
	{"William Saliba", "FRA", "DEF", "Arsenal", "Premier League", 23, 38, 38, 3420, 2, 1, 158, 6.0},
	{"Jude Bellingham", "ENG", "MID", "Real Madrid", "La Liga", 20, 28, 28, 2380, 19, 6, 198, 10.5},
	{"Robert Lewandowski", "POL", "FWD", "Barcelona", "La Liga", 35, 35, 32, 2797, 19, 8, 190, 10.0},
	{"Harry Kane", "ENG", "FWD", "Bayern Munich", "Bundesliga", 30, 32, 32, 2827, 36, 8, 262, 12.5},
	{"Florian Wirtz", "GER", "MID", "Leverkusen", "Bundesliga", 20, 32, 29, 2522, 11, 11, 185, 8.5},
	{"Lautaro Martinez", "ARG", "FWD", "Inter", "Serie A", 26, 33, 31, 2661, 24, 3, 201, 10.0},
	{"Mike Maignan", "FRA", "GK", "Milan", "Serie A", 28, 31, 31, 2790, 0, 0, 121, 5.5},
	{"Kylian Mbappe", "FRA", "FWD", "Paris S-G", "Ligue 1", 25, 29, 26, 2312, 27, 7, 224, 13.0},
	{"Jonathan David", "CAN", "FWD", "Lille", "Ligue 1", 24, 34, 31, 2715, 19, 4, 176, 7.5},
}

// Sample returns a fixed multi-league fixture tagged with SourceSample. It
// stands in for real data only when a run explicitly opts into the fallback.
func Sample() []Record {
	out := make([]Record, 0, len(sampleRows))
	for _, s := range sampleRows {
		out = append(out, Record{
			Player:      s.player,
			Nation:      s.nation,
			Position:    s.pos,
			Team:        s.team,
			League:      s.league,
			Age:         Int(s.age),
			Matches:     Int(s.mp),
			Starts:      Int(s.starts),
			Minutes:     Int(s.min),
			Goals:       Int(s.gls),
			Assists:     Int(s.ast),
			TotalPoints: Int(s.points),
			Price:       Float(s.price),
			Source:      SourceSample,
		})
	}
	return out
}
