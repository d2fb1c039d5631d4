package player

// Source tags where a record came from.
const (
	SourceFBref  = "fbref"
	SourceFPL    = "fpl"
	SourceSample = "sample"
)

// Record is one player-season. Nil numeric fields are missing values.
type Record struct {
	Player   string `json:"player"`
	Nation   string `json:"nation,omitempty"`
	Position string `json:"position,omitempty"`
	Team     string `json:"team,omitempty"`
	League   string `json:"league,omitempty"`

	Age     *int `json:"age,omitempty"`
	Matches *int `json:"matches,omitempty"`
	Starts  *int `json:"starts,omitempty"`
	Minutes *int `json:"minutes,omitempty"`

	Goals       *int `json:"goals,omitempty"`
	Assists     *int `json:"assists,omitempty"`
	CleanSheets *int `json:"clean_sheets,omitempty"`
	YellowCards *int `json:"yellow_cards,omitempty"`
	RedCards    *int `json:"red_cards,omitempty"`
	TotalPoints *int `json:"total_points,omitempty"`

	Influence         *float64 `json:"influence,omitempty"`
	Creativity        *float64 `json:"creativity,omitempty"`
	Threat            *float64 `json:"threat,omitempty"`
	ICTIndex          *float64 `json:"ict_index,omitempty"`
	Form              *float64 `json:"form,omitempty"`
	PointsPerGame     *float64 `json:"points_per_game,omitempty"`
	SelectedByPercent *float64 `json:"selected_by_percent,omitempty"`
	Price             *float64 `json:"price,omitempty"`

	Source string `json:"source"`
}

// Columns is the snapshot column order.
var Columns = []string{
	"player", "nation", "position", "team", "league",
	"age", "matches", "starts", "minutes",
	"goals", "assists", "clean_sheets", "yellow_cards", "red_cards", "total_points",
	"influence", "creativity", "threat", "ict_index", "form", "points_per_game", "selected_by_percent",
	"price", "source",
}

// IntFields and FloatFields are the numeric snapshot columns by type.
var (
	IntFields = []string{
		"age", "matches", "starts", "minutes",
		"goals", "assists", "clean_sheets", "yellow_cards", "red_cards", "total_points",
	}
	FloatFields = []string{
		"influence", "creativity", "threat", "ict_index", "form", "points_per_game", "selected_by_percent",
		"price",
	}
)

func (r *Record) intField(name string) **int {
	switch name {
	case "age":
		return &r.Age
	case "matches":
		return &r.Matches
	case "starts":
		return &r.Starts
	case "minutes":
		return &r.Minutes
	case "goals":
		return &r.Goals
	case "assists":
		return &r.Assists
	case "clean_sheets":
		return &r.CleanSheets
	case "yellow_cards":
		return &r.YellowCards
	case "red_cards":
		return &r.RedCards
	case "total_points":
		return &r.TotalPoints
	}
	return nil
}

func (r *Record) floatField(name string) **float64 {
	switch name {
	case "influence":
		return &r.Influence
	case "creativity":
		return &r.Creativity
	case "threat":
		return &r.Threat
	case "ict_index":
		return &r.ICTIndex
	case "form":
		return &r.Form
	case "points_per_game":
		return &r.PointsPerGame
	case "selected_by_percent":
		return &r.SelectedByPercent
	case "price":
		return &r.Price
	}
	return nil
}

// Metric returns the numeric value of a snapshot column. ok is false when the
// column is not numeric or the value is missing.
func (r Record) Metric(name string) (float64, bool) {
	if p := r.intField(name); p != nil {
		if *p == nil {
			return 0, false
		}
		return float64(**p), true
	}
	if p := r.floatField(name); p != nil {
		if *p == nil {
			return 0, false
		}
		return **p, true
	}
	return 0, false
}

// IsNumeric reports whether name is a numeric snapshot column.
func IsNumeric(name string) bool {
	var r Record
	return r.intField(name) != nil || r.floatField(name) != nil
}

// Text returns the string columns by name.
func (r Record) Text(name string) (string, bool) {
	switch name {
	case "player":
		return r.Player, true
	case "nation":
		return r.Nation, true
	case "position":
		return r.Position, true
	case "team":
		return r.Team, true
	case "league":
		return r.League, true
	case "source":
		return r.Source, true
	}
	return "", false
}

// SetText assigns a string column by name; unknown names are ignored, as with
// SetInt and SetFloat.
func (r *Record) SetText(name, v string) {
	switch name {
	case "player":
		r.Player = v
	case "nation":
		r.Nation = v
	case "position":
		r.Position = v
	case "team":
		r.Team = v
	case "league":
		r.League = v
	case "source":
		r.Source = v
	}
}

func (r *Record) SetInt(name string, v *int) {
	if p := r.intField(name); p != nil {
		*p = v
	}
}

func (r *Record) SetFloat(name string, v *float64) {
	if p := r.floatField(name); p != nil {
		*p = v
	}
}

func Int(v int) *int           { return &v }
func Float(v float64) *float64 { return &v }
