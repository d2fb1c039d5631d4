package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/football-scout/internal/fbref"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/internal/fpl"
	"github.com/tyler180/football-scout/internal/player"
)

type Kind string

const (
	KindFBref Kind = "fbref"
	KindFPL   Kind = "fpl"
)

// Source is one configured endpoint. League defaults to Name.
type Source struct {
	Name   string
	League string
	URL    string
	Kind   Kind
}

func (s Source) league() string {
	if s.League != "" {
		return s.League
	}
	return s.Name
}

// LeagueSources turns league pages into HTML sources.
func LeagueSources(leagues []fbref.League) []Source {
	out := make([]Source, 0, len(leagues))
	for _, l := range leagues {
		out = append(out, Source{Name: l.Name, URL: l.URL(), Kind: KindFBref})
	}
	return out
}

// SourceFailure is a source that contributed nothing because of an error.
type SourceFailure struct {
	Source string
	Kind   Kind
	Err    error
}

type Result struct {
	RunID      string
	Records    []player.Record
	Failures   []SourceFailure
	Warnings   []player.NormalizationWarning
	UsedSample bool
}

// EmptyResultError is returned when no source produced a row and the sample
// fallback is off. The caller must not present an empty table as valid data.
type EmptyResultError struct {
	RunID    string
	Failures []SourceFailure
}

func (e *EmptyResultError) Error() string {
	if len(e.Failures) == 0 {
		return "ingest: no data available: sources returned zero rows"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Source+": "+f.Err.Error())
	}
	return "ingest: no data available: " + strings.Join(parts, "; ")
}

type Pipeline struct {
	Fetcher        fetch.Getter
	Sources        []Source
	Extract        fbref.Options
	SampleFallback bool
	Logger         *logrus.Logger
	Metrics        *Metrics
}

// Run fetches every source in order and concatenates what they yield. A
// failing source is recorded and skipped; only an empty total is an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log := p.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	rlog := log.WithField("run_id", res.RunID)

	for _, src := range p.Sources {
		slog := rlog.WithFields(logrus.Fields{"source": src.Name, "url": src.URL})

		recs, warns, outcome, err := p.runSource(ctx, src, log)
		p.Metrics.fetched(src.Name, outcome)
		if err != nil {
			slog.WithError(err).Warn("ingest: source failed")
			res.Failures = append(res.Failures, SourceFailure{Source: src.Name, Kind: src.Kind, Err: err})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		for _, w := range warns {
			slog.WithField("player", w.Player).Debug(w.Error())
		}
		p.Metrics.produced(src.Name, len(recs), len(warns))
		slog.WithFields(logrus.Fields{"rows": len(recs), "warnings": len(warns)}).Info("ingest: source done")

		res.Records = append(res.Records, recs...)
		res.Warnings = append(res.Warnings, warns...)
	}

	if len(res.Records) == 0 {
		if !p.SampleFallback {
			p.Metrics.finished(false, time.Since(start))
			return nil, &EmptyResultError{RunID: res.RunID, Failures: res.Failures}
		}
		rlog.Warn("ingest: no rows from any source; substituting sample data")
		res.Records = player.Sample()
		res.UsedSample = true
	}
	p.Metrics.finished(true, time.Since(start))
	rlog.WithFields(logrus.Fields{
		"rows":     len(res.Records),
		"failures": len(res.Failures),
		"sample":   res.UsedSample,
	}).Info("ingest: run complete")
	return res, nil
}

func (p *Pipeline) runSource(ctx context.Context, src Source, log *logrus.Logger) ([]player.Record, []player.NormalizationWarning, string, error) {
	body, err := p.Fetcher.Get(ctx, src.URL)
	if err != nil {
		return nil, nil, "fetch_error", err
	}

	switch src.Kind {
	case KindFBref, "":
		fbref.DumpTables(body, src.Name, log)
		rows, err := fbref.Extract(body, src.league(), p.Extract)
		if err != nil {
			return nil, nil, "extract_error", err
		}
		recs, warns := player.FromFBref(rows)
		return recs, warns, "ok", nil
	case KindFPL:
		raws, err := fpl.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, nil, "parse_error", fmt.Errorf("%s: %w", src.Name, err)
		}
		recs, warns := player.FromFPL(raws, src.league())
		return recs, warns, "ok", nil
	}
	return nil, nil, "parse_error", errors.New("unknown source kind " + string(src.Kind))
}
