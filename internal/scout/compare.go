package scout

import (
	"github.com/tyler180/football-scout/internal/player"
)

// DefaultRadarMetrics is the radar axis list. Columns the snapshot does not
// carry are dropped by Compare.
var DefaultRadarMetrics = []string{"goals", "assists", "shots", "passes", "tackles", "interceptions"}

// MetricValue is one radar axis. A and B are the raw values (nil = missing);
// NormA and NormB are scaled 0..100 against Max.
type MetricValue struct {
	Metric string   `json:"metric"`
	Max    float64  `json:"max"`
	A      *float64 `json:"a"`
	B      *float64 `json:"b"`
	NormA  float64  `json:"norm_a"`
	NormB  float64  `json:"norm_b"`
}

type Comparison struct {
	A       player.Record `json:"a"`
	B       player.Record `json:"b"`
	Metrics []MetricValue `json:"metrics"`
}

// Compare looks up two players and scales each metric by its maximum over
// full, which should be the unfiltered table. Metrics that are unknown or
// missing on every row are left out.
func Compare(full *Table, a, b string, metrics []string) (*Comparison, error) {
	ra, err := full.Find(a)
	if err != nil {
		return nil, err
	}
	rb, err := full.Find(b)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		metrics = DefaultRadarMetrics
	}

	out := &Comparison{A: ra, B: rb}
	for _, m := range metrics {
		peak, present := columnMax(full, m)
		if !present {
			continue
		}
		mv := MetricValue{Metric: m, Max: peak}
		if v, ok := ra.Metric(m); ok {
			mv.A = &v
			mv.NormA = normalize(v, peak)
		}
		if v, ok := rb.Metric(m); ok {
			mv.B = &v
			mv.NormB = normalize(v, peak)
		}
		out.Metrics = append(out.Metrics, mv)
	}
	return out, nil
}

func columnMax(t *Table, m string) (float64, bool) {
	var peak float64
	present := false
	for _, r := range t.rows {
		v, ok := r.Metric(m)
		if !ok {
			continue
		}
		if !present || v > peak {
			peak = v
		}
		present = true
	}
	return peak, present
}

// normalize maps v onto 0..100 of peak; a non-positive peak yields 0.
func normalize(v, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	n := v / peak * 100
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
