package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tyler180/football-scout/internal/ath"
	"github.com/tyler180/football-scout/internal/config"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/internal/ingest"
	"github.com/tyler180/football-scout/internal/materializer"
	"github.com/tyler180/football-scout/internal/store"
)

const (
	ModeIngest      = "ingest"
	ModeMaterialize = "materialize"
	ModeAll         = "all"
)

type Event struct {
	Mode    string `json:"mode"`    // ingest | materialize | all (default)
	Leaders int    `json:"leaders"` // optional; rows of the value leaderboard to return after materialize
}

// Service runs one scheduled invocation. The AWS clients are narrow
// interfaces so tests can swap in fakes.
type Service struct {
	Config  config.Config
	Fetcher fetch.Getter
	S3      store.S3API
	DDB     store.DynamoDBAPI
	Athena  ath.AthenaAPI
	Logger  *logrus.Logger
	Metrics *ingest.Metrics
	TmpDir  string
	Poll    time.Duration
}

func (s *Service) log() *logrus.Logger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// snapshotPrefix keeps each format under its own prefix so the Athena table
// location only ever holds Parquet.
func (s *Service) snapshotPrefix(format string) string {
	return strings.Trim(s.Config.AWS.Prefix, "/") + "/" + format
}

func (s *Service) Handle(ctx context.Context, e Event) (map[string]any, error) {
	mode := strings.ToLower(strings.TrimSpace(e.Mode))
	if mode == "" {
		mode = ModeAll
	}
	if s.Config.AWS.Bucket == "" {
		return nil, errors.New("SCOUT_BUCKET is required")
	}

	out := map[string]any{"ok": true, "mode": mode}
	switch mode {
	case ModeIngest, ModeMaterialize, ModeAll:
	default:
		return nil, fmt.Errorf("unknown mode %q", e.Mode)
	}

	if mode == ModeIngest || mode == ModeAll {
		res, err := s.ingest(ctx)
		if err != nil {
			return nil, err
		}
		for k, v := range res {
			out[k] = v
		}
	}
	if mode == ModeMaterialize || mode == ModeAll {
		res, err := s.materialize(ctx, e.Leaders)
		if err != nil {
			return nil, err
		}
		for k, v := range res {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Service) ingest(ctx context.Context) (map[string]any, error) {
	p := &ingest.Pipeline{
		Fetcher:        s.Fetcher,
		Sources:        s.Config.Sources(),
		Extract:        s.Config.ExtractOptions(),
		SampleFallback: s.Config.SampleFallback,
		Logger:         s.log(),
		Metrics:        s.Metrics,
	}
	res, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	if res.UsedSample {
		// never publish fixture rows as the latest snapshot
		return nil, fmt.Errorf("run %s: every source failed", res.RunID)
	}

	tmp := s.TmpDir
	if tmp == "" {
		tmp = os.TempDir()
	}
	var keys []string
	for _, format := range []string{"parquet", "csv"} {
		path := filepath.Join(tmp, "players."+format)
		if err := store.WriteSnapshot(path, res.Records); err != nil {
			return nil, fmt.Errorf("write %s snapshot: %w", format, err)
		}
		up := &store.Uploader{API: s.S3, Bucket: s.Config.AWS.Bucket, Prefix: s.snapshotPrefix(format)}
		k, err := up.PutSnapshot(ctx, path)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k...)
		_ = os.Remove(path)
	}

	mirrored := 0
	if table := s.Config.AWS.DynamoTable; table != "" && s.DDB != nil {
		mirrored, err = store.PutRecords(ctx, s.DDB, table, res.RunID, res.Records)
		if err != nil {
			return nil, err
		}
	}

	failed := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		failed = append(failed, f.Source)
	}
	s.log().WithFields(logrus.Fields{
		"run_id":   res.RunID,
		"rows":     len(res.Records),
		"mirrored": mirrored,
		"failed":   strings.Join(failed, ","),
	}).Info("scout-ingest: snapshot published")

	return map[string]any{
		"run_id":   res.RunID,
		"rows":     len(res.Records),
		"failed":   failed,
		"warnings": len(res.Warnings),
		"keys":     keys,
		"mirrored": mirrored,
	}, nil
}

func (s *Service) materialize(ctx context.Context, leaders int) (map[string]any, error) {
	a := s.Config.AWS
	if a.AthenaOutput == "" {
		return nil, errors.New("ATHENA_OUTPUT is required")
	}
	r := &ath.Runner{
		Client:    s.Athena,
		Workgroup: a.AthenaWorkgroup,
		Database:  a.AthenaDatabase,
		OutputS3:  a.AthenaOutput,
		Poll:      s.Poll,
		Logger:    s.log(),
	}
	location := fmt.Sprintf("s3://%s/%s/latest/", a.Bucket, s.snapshotPrefix("parquet"))

	if _, err := r.ExecAndWait(ctx, materializer.BuildDrop(a.AthenaDatabase, a.AthenaTable)); err != nil {
		return nil, fmt.Errorf("drop: %w", err)
	}
	if _, err := r.ExecAndWait(ctx, materializer.BuildCreate(a.AthenaDatabase, a.AthenaTable, location)); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	fq := a.AthenaDatabase + "." + a.AthenaTable
	n, err := r.CountRows(ctx, fq)
	if err != nil {
		return nil, err
	}
	s.log().WithFields(logrus.Fields{"table": fq, "rows": n, "location": location}).Info("scout-ingest: table registered")

	out := map[string]any{"table": fq, "table_rows": n, "location": location}
	if leaders > 0 {
		rows, err := r.Rows(ctx, materializer.BuildValueLeaders(a.AthenaDatabase, a.AthenaTable, s.Config.MinMinutes, leaders))
		if err != nil {
			return nil, fmt.Errorf("value leaders: %w", err)
		}
		out["value_leaders"] = rows
	}
	return out, nil
}
