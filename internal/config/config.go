package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/sirupsen/logrus"
	"github.com/titanous/json5"

	"github.com/tyler180/football-scout/internal/fbref"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/internal/fpl"
	"github.com/tyler180/football-scout/internal/ingest"
	"github.com/tyler180/football-scout/internal/scout"
	"github.com/tyler180/football-scout/internal/store"
)

const DefaultFile = "scout.json5"

type League struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FPL struct {
	// Disabled rather than Enabled: merging cannot turn a default true into false.
	Disabled bool   `json:"disabled"`
	URL      string `json:"url"`
	League   string `json:"league"`
}

type Recommend struct {
	Weights     scout.Weights `json:"weights"`
	PriceWindow float64       `json:"price_window"`
	MinMinutes  int           `json:"min_minutes"`
}

type AWS struct {
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
	DynamoTable     string `json:"dynamo_table"`
	AthenaDatabase  string `json:"athena_database"`
	AthenaTable     string `json:"athena_table"`
	AthenaWorkgroup string `json:"athena_workgroup"`
	AthenaOutput    string `json:"athena_output"`
}

type Config struct {
	SnapshotPath   string    `json:"snapshot_path"`
	UserAgent      string    `json:"user_agent"`
	RequestDelayMs int       `json:"request_delay_ms"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	TableID        string    `json:"table_id"`
	MinCells       int       `json:"min_cells"`
	Leagues        []League  `json:"leagues"`
	FPL            FPL       `json:"fpl"`
	SampleFallback bool      `json:"sample_fallback"`
	MinMinutes     int       `json:"min_minutes"`
	RadarMetrics   []string  `json:"radar_metrics"`
	Recommend      Recommend `json:"recommend"`
	ServeAddr      string    `json:"serve_addr"`
	Debug          bool      `json:"debug"`
	AWS            AWS       `json:"aws"`
}

func Defaults() Config {
	leagues := make([]League, 0, 5)
	for _, l := range fbref.BigFive() {
		leagues = append(leagues, League{Name: l.Name, URL: l.URL()})
	}
	return Config{
		SnapshotPath:   store.DefaultSnapshot,
		UserAgent:      fetch.DefaultUserAgent,
		RequestDelayMs: int(fetch.DefaultDelay / time.Millisecond),
		TimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		TableID:        fbref.DefaultTableID,
		MinCells:       fbref.DefaultMinCells,
		Leagues:        leagues,
		FPL:            FPL{URL: fpl.DefaultURL, League: "Premier League"},
		MinMinutes:     500,
		RadarMetrics:   append([]string(nil), scout.DefaultRadarMetrics...),
		Recommend: Recommend{
			Weights:     scout.DefaultWeights,
			PriceWindow: scout.DefaultPriceWindow,
			MinMinutes:  500,
		},
		ServeAddr: ":8080",
		AWS: AWS{
			Prefix:          "football-scout",
			AthenaDatabase:  "scout",
			AthenaTable:     "player_snapshot",
			AthenaWorkgroup: "primary",
		},
	}
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

// readFile merges <name>.<ext> with <name>.local.<ext>, the latter winning.
// os.ErrNotExist means neither file was found.
func readFile(name string) (Config, error) {
	var out Config
	found := false

	b, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(b) > 0 {
		if err := json5.Unmarshal(b, &out); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		found = true
	}

	prefix, ext := splitExt(name)
	local := fmt.Sprintf("%s.local.%s", prefix, ext)
	b, err = os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(b) > 0 {
		var override Config
		if err := json5.Unmarshal(b, &override); err != nil {
			return out, fmt.Errorf("%s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		logrus.WithField("local", local).Debug("config: merged local overrides")
		found = true
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Load layers defaults, the config file (plus its .local sibling) and the
// environment, in that order. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultFile
	}
	fileCfg, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(c *Config) {
	c.SnapshotPath = envStr("SCOUT_SNAPSHOT", c.SnapshotPath)
	c.UserAgent = envStr("SCOUT_USER_AGENT", c.UserAgent)
	c.RequestDelayMs = envInt("SCOUT_DELAY_MS", c.RequestDelayMs)
	c.SampleFallback = envBool("SCOUT_SAMPLE_FALLBACK", c.SampleFallback)
	c.FPL.Disabled = envBool("SCOUT_FPL_DISABLED", c.FPL.Disabled)
	c.FPL.URL = envStr("SCOUT_FPL_URL", c.FPL.URL)
	c.MinMinutes = envInt("SCOUT_MIN_MINUTES", c.MinMinutes)
	c.ServeAddr = envStr("SCOUT_ADDR", c.ServeAddr)
	c.Debug = envBool("DEBUG", c.Debug)

	c.AWS.Bucket = envStr("SCOUT_BUCKET", c.AWS.Bucket)
	c.AWS.Prefix = envStr("SCOUT_PREFIX", c.AWS.Prefix)
	c.AWS.DynamoTable = envStr("SCOUT_DDB_TABLE", c.AWS.DynamoTable)
	c.AWS.AthenaDatabase = envStr("ATHENA_DB", c.AWS.AthenaDatabase)
	c.AWS.AthenaTable = envStr("ATHENA_TABLE", c.AWS.AthenaTable)
	c.AWS.AthenaWorkgroup = envStr("ATHENA_WORKGROUP", c.AWS.AthenaWorkgroup)
	c.AWS.AthenaOutput = envStr("ATHENA_OUTPUT", c.AWS.AthenaOutput)
}

// Sources lists the configured leagues in order, then the FPL export.
func (c Config) Sources() []ingest.Source {
	out := make([]ingest.Source, 0, len(c.Leagues)+1)
	for _, l := range c.Leagues {
		out = append(out, ingest.Source{Name: l.Name, URL: l.URL, Kind: ingest.KindFBref})
	}
	if !c.FPL.Disabled && c.FPL.URL != "" {
		out = append(out, ingest.Source{Name: "FPL", League: c.FPL.League, URL: c.FPL.URL, Kind: ingest.KindFPL})
	}
	return out
}

func (c Config) FetchOptions(log *logrus.Logger) fetch.Options {
	return fetch.Options{
		UserAgent: c.UserAgent,
		Delay:     time.Duration(c.RequestDelayMs) * time.Millisecond,
		Timeout:   time.Duration(c.TimeoutSeconds) * time.Second,
		Logger:    log,
	}
}

func (c Config) ExtractOptions() fbref.Options {
	return fbref.Options{TableID: c.TableID, MinCells: c.MinCells}
}
