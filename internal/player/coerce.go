package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NormalizationWarning records a field that could not be parsed and was set
// to missing. It is collected and logged, never returned as a failure.
type NormalizationWarning struct {
	Source string
	Player string
	Field  string
	Value  string
}

func (w NormalizationWarning) Error() string {
	return fmt.Sprintf("%s: %s: %s=%q not numeric, set to missing", w.Source, w.Player, w.Field, w.Value)
}

var numCleaner = strings.NewReplacer(",", "", "\u00a0", "", "\u2009", "", "%", "", "£", "")

// blank reports values that mean "no data" rather than bad data.
func blank(s string) bool {
	switch s {
	case "", "-", "—", "–", "N/A", "n/a", "NA", "nan", "NaN":
		return true
	}
	return false
}

// ParseFloat parses leniently. ok is false only for unparseable input; blank
// input yields (nil, true).
func ParseFloat(s string) (v *float64, ok bool) {
	s = strings.TrimSpace(s)
	if blank(s) {
		return nil, true
	}
	f, err := strconv.ParseFloat(numCleaner.Replace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// ParseInt is ParseFloat restricted to whole numbers; "12.0" is accepted.
func ParseInt(s string) (v *int, ok bool) {
	f, ok := ParseFloat(s)
	if f == nil {
		return nil, ok
	}
	if *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil, false
	}
	i := int(*f)
	return &i, true
}

// coercer parses one record's fields and collects warnings.
type coercer struct {
	source string
	player string
	warns  []NormalizationWarning
}

func (c *coercer) warn(field, value string) {
	c.warns = append(c.warns, NormalizationWarning{Source: c.source, Player: c.player, Field: field, Value: value})
}

// count parses a non-negative integer field.
func (c *coercer) count(field, s string) *int {
	v, ok := ParseInt(s)
	if !ok || (v != nil && *v < 0) {
		c.warn(field, s)
		return nil
	}
	return v
}

func (c *coercer) float(field, s string) *float64 {
	v, ok := ParseFloat(s)
	if !ok {
		c.warn(field, s)
		return nil
	}
	return v
}

// intOrNil parses an integer that may legitimately be negative, such as points.
func (c *coercer) intOrNil(field, s string) *int {
	v, ok := ParseInt(s)
	if !ok {
		c.warn(field, s)
		return nil
	}
	return v
}
