package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/tyler180/football-scout/internal/config"
	"github.com/tyler180/football-scout/internal/ingest"
	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/scout"
	"github.com/tyler180/football-scout/internal/store"
)

var (
	serveAddr string
	fromDDB   bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&fromDDB, "from-ddb", false, "load the table from the DynamoDB mirror instead of the snapshot file")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the query tools over MCP (streamable HTTP) with /metrics and /healthz.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := ingest.NewMetrics(reg)

		load := func(ctx context.Context) (*scout.Table, error) {
			if !store.Exists(cfg.SnapshotPath) {
				if _, err := ingestRun(ctx, cfg, log, metrics); err != nil {
					return nil, err
				}
			}
			return scout.Load(cfg.SnapshotPath)
		}
		if fromDDB {
			if cfg.AWS.DynamoTable == "" {
				return errors.New("--from-ddb needs aws.dynamo_table (or SCOUT_DDB_TABLE)")
			}
			awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				return fmt.Errorf("aws config: %w", err)
			}
			load = ddbLoader(dynamodb.NewFromConfig(awsCfg), cfg)
		}

		s := newServer(cfg, log, reg, load)
		if _, err := s.reload(ctx); err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ServeAddr
		}
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           s.router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			log.WithField("addr", addr).Info("serve: listening on /mcp")
			errc <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}
		log.Info("serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	},
}

// ddbLoader reads every configured league from the DynamoDB mirror.
func ddbLoader(api store.DynamoDBAPI, c config.Config) loader {
	return func(ctx context.Context) (*scout.Table, error) {
		seen := map[string]bool{}
		var recs []player.Record
		for _, src := range c.Sources() {
			league := src.League
			if league == "" {
				league = src.Name
			}
			if seen[league] {
				continue
			}
			seen[league] = true
			rs, err := store.QueryLeague(ctx, api, c.AWS.DynamoTable, league)
			if err != nil {
				return nil, fmt.Errorf("query %s: %w", league, err)
			}
			recs = append(recs, rs...)
		}
		if len(recs) == 0 {
			return nil, scout.ErrNoData
		}
		return scout.NewTable(recs), nil
	}
}
