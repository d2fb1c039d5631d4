package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tyler180/football-scout/internal/config"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/internal/ingest"
	"github.com/tyler180/football-scout/internal/scout"
	"github.com/tyler180/football-scout/internal/store"
)

// ingestRun fetches every configured source and overwrites the snapshot.
// Nothing is written when the run comes back empty.
func ingestRun(ctx context.Context, c config.Config, l *logrus.Logger, m *ingest.Metrics) (*ingest.Result, error) {
	p := &ingest.Pipeline{
		Fetcher:        fetch.NewClient(c.FetchOptions(l)),
		Sources:        c.Sources(),
		Extract:        c.ExtractOptions(),
		SampleFallback: c.SampleFallback,
		Logger:         l,
		Metrics:        m,
	}
	res, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.WriteSnapshot(c.SnapshotPath, res.Records); err != nil {
		return res, fmt.Errorf("write snapshot: %w", err)
	}
	l.WithFields(logrus.Fields{"path": c.SnapshotPath, "rows": len(res.Records)}).Info("snapshot written")
	return res, nil
}

// loadTable reads the snapshot, running an ingest first when there is none.
func loadTable(ctx context.Context, c config.Config, l *logrus.Logger) (*scout.Table, error) {
	if !store.Exists(c.SnapshotPath) {
		l.WithField("path", c.SnapshotPath).Info("no snapshot yet; fetching")
		if _, err := ingestRun(ctx, c, l, nil); err != nil {
			return nil, err
		}
	}
	t, err := scout.Load(c.SnapshotPath)
	if err != nil {
		return nil, err
	}
	if t.IsSample() {
		l.Warn("snapshot holds sample data, not fetched stats")
	}
	return t, nil
}
