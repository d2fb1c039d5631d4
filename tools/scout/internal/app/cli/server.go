package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/football-scout/internal/config"
	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/scout"
)

type loader func(ctx context.Context) (*scout.Table, error)

// server answers queries over the snapshot it last loaded. reload swaps the
// table atomically; in-flight calls keep the one they started with.
type server struct {
	cfg   config.Config
	log   *logrus.Logger
	load  loader
	table atomic.Pointer[scout.Table]

	reg   *prometheus.Registry
	calls *prometheus.CounterVec
	rows  prometheus.Gauge
}

func newServer(c config.Config, l *logrus.Logger, reg *prometheus.Registry, load loader) *server {
	s := &server{
		cfg:  c,
		log:  l,
		load: load,
		reg:  reg,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scout_tool_calls_total",
			Help: "MCP tool calls by tool and outcome",
		}, []string{"tool", "outcome"}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scout_table_rows",
			Help: "Rows in the table currently served",
		}),
	}
	reg.MustRegister(s.calls, s.rows)
	return s
}

func (s *server) reload(ctx context.Context) (*scout.Table, error) {
	t, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.table.Store(t)
	s.rows.Set(float64(t.Len()))
	s.log.WithFields(logrus.Fields{"rows": t.Len(), "sample": t.IsSample()}).Info("serve: table loaded")
	return t, nil
}

func (s *server) current() (*scout.Table, error) {
	t := s.table.Load()
	if t == nil || t.Len() == 0 {
		return nil, scout.ErrNoData
	}
	return t, nil
}

func (s *server) mcpServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "football-scout", Version: "0.1.0"}, nil)

	addTool(s, srv, &mcp.Tool{
		Name:        "filter_players",
		Description: "Players matching the filters, sorted by name",
	}, s.filterPlayers)
	addTool(s, srv, &mcp.Tool{
		Name:        "rank_by_value",
		Description: "Priced players ranked by total points per £m",
	}, s.rankByValue)
	addTool(s, srv, &mcp.Tool{
		Name:        "expected_points",
		Description: "Expected points from price and the over/underperformance of each player",
	}, s.expectedPoints)
	addTool(s, srv, &mcp.Tool{
		Name:        "hidden_gems",
		Description: "Players under a price cap who outperform their expected points",
	}, s.hiddenGems)
	addTool(s, srv, &mcp.Tool{
		Name:        "compare_players",
		Description: "Two players side by side with radar metrics scaled 0-100",
	}, s.comparePlayers)
	addTool(s, srv, &mcp.Tool{
		Name:        "recommend_replacement",
		Description: "Replacement candidates for a player within a price window and optional budget",
	}, s.recommendReplacement)
	addTool(s, srv, &mcp.Tool{
		Name:        "reload",
		Description: "Re-read the snapshot",
	}, s.reloadTool)

	return srv
}

// addTool counts every call by outcome before handing back the result.
func addTool[T any](s *server, srv *mcp.Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	name := tool.Name
	mcp.AddTool(srv, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		res, out, err := handler(ctx, req, args)
		outcome := "ok"
		if err != nil || (res != nil && res.IsError) {
			outcome = "error"
		}
		s.calls.WithLabelValues(name, outcome).Inc()
		return res, out, err
	})
}

func (s *server) router() http.Handler {
	srv := s.mcpServer()
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return srv
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		t := s.table.Load()
		if t == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"no data"}`))
			return
		}
		fmt.Fprintf(w, `{"status":"ok","rows":%d,"sample":%t}`, t.Len(), t.IsSample())
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	r.Handle("/mcp", handler)
	return r
}

type tableResult struct {
	Sample bool `json:"sample"`
	Count  int  `json:"count"`
	Rows   any  `json:"rows"`
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

type FilterArgs struct {
	Position   string   `json:"position,omitempty" jsonschema:"position code, e.g. FW or MID; matches any of a multi-position cell"`
	Team       string   `json:"team,omitempty" jsonschema:"team name, case-insensitive"`
	League     string   `json:"league,omitempty" jsonschema:"league name, case-insensitive"`
	Search     string   `json:"search,omitempty" jsonschema:"substring of the player name"`
	PriceMin   *float64 `json:"price_min,omitempty" jsonschema:"minimum price in £m"`
	PriceMax   *float64 `json:"price_max,omitempty" jsonschema:"maximum price in £m"`
	AgeMin     *int     `json:"age_min,omitempty" jsonschema:"minimum age"`
	AgeMax     *int     `json:"age_max,omitempty" jsonschema:"maximum age"`
	MinMinutes *int     `json:"min_minutes,omitempty" jsonschema:"minimum minutes played; defaults to the server setting"`
	Limit      int      `json:"limit,omitempty" jsonschema:"maximum rows to return; 0 for all"`
}

func (a FilterArgs) criteria(defMinutes int) scout.Criteria {
	c := scout.Criteria{
		Position:   a.Position,
		Team:       a.Team,
		League:     a.League,
		Search:     a.Search,
		PriceMin:   a.PriceMin,
		PriceMax:   a.PriceMax,
		AgeMin:     a.AgeMin,
		AgeMax:     a.AgeMax,
		MinMinutes: defMinutes,
	}
	if a.MinMinutes != nil {
		c.MinMinutes = *a.MinMinutes
	}
	return c
}

func (s *server) filtered(f FilterArgs) (*scout.Table, error) {
	t, err := s.current()
	if err != nil {
		return nil, err
	}
	return t.Filter(f.criteria(s.cfg.MinMinutes)), nil
}

func limit[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func (s *server) filterPlayers(ctx context.Context, req *mcp.CallToolRequest, args FilterArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.filtered(args)
	if err != nil {
		return toolError(err), nil, nil
	}
	rows := limit(t.SortedByName(), args.Limit)
	return toolJSON(tableResult{Sample: t.IsSample(), Count: len(rows), Rows: rows})
}

type RankArgs struct {
	Filter FilterArgs `json:"filter,omitempty" jsonschema:"row filters applied before ranking"`
	Top    int        `json:"top,omitempty" jsonschema:"rows to return; defaults to 20"`
}

func (s *server) rankByValue(ctx context.Context, req *mcp.CallToolRequest, args RankArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.filtered(args.Filter)
	if err != nil {
		return toolError(err), nil, nil
	}
	top := args.Top
	if top <= 0 {
		top = 20
	}
	rows := scout.RankByValue(t, top)
	return toolJSON(tableResult{Sample: t.IsSample(), Count: len(rows), Rows: rows})
}

func (s *server) expectedPoints(ctx context.Context, req *mcp.CallToolRequest, args FilterArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.filtered(args)
	if err != nil {
		return toolError(err), nil, nil
	}
	exp := scout.ExpectedPoints(t)
	rows := limit(exp.Rows, args.Limit)
	return toolJSON(map[string]any{
		"sample": t.IsSample(),
		"ratio":  exp.Ratio,
		"count":  len(rows),
		"rows":   rows,
	})
}

type GemsArgs struct {
	Filter   FilterArgs `json:"filter,omitempty" jsonschema:"row filters applied first"`
	MaxPrice float64    `json:"max_price" jsonschema:"price cap in £m, exclusive"`
}

func (s *server) hiddenGems(ctx context.Context, req *mcp.CallToolRequest, args GemsArgs) (*mcp.CallToolResult, any, error) {
	if args.MaxPrice <= 0 {
		return toolError(errors.New("max_price must be positive")), nil, nil
	}
	t, err := s.filtered(args.Filter)
	if err != nil {
		return toolError(err), nil, nil
	}
	rows := limit(scout.HiddenGems(t, args.MaxPrice), args.Filter.Limit)
	return toolJSON(tableResult{Sample: t.IsSample(), Count: len(rows), Rows: rows})
}

type CompareArgs struct {
	A       string   `json:"a" jsonschema:"first player name"`
	B       string   `json:"b" jsonschema:"second player name"`
	Metrics []string `json:"metrics,omitempty" jsonschema:"radar metric columns; defaults to the server setting"`
}

func (s *server) comparePlayers(ctx context.Context, req *mcp.CallToolRequest, args CompareArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.current()
	if err != nil {
		return toolError(err), nil, nil
	}
	metrics := args.Metrics
	if len(metrics) == 0 {
		metrics = s.cfg.RadarMetrics
	}
	cmp, err := scout.Compare(t, args.A, args.B, metrics)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{"sample": t.IsSample(), "comparison": cmp})
}

type RecommendArgs struct {
	Player       string         `json:"player" jsonschema:"player to replace"`
	PriceWindow  *float64       `json:"price_window,omitempty" jsonschema:"± £m around the player's price, inclusive"`
	Budget       *float64       `json:"budget,omitempty" jsonschema:"most a candidate may cost in £m, inclusive"`
	SamePosition *bool          `json:"same_position,omitempty" jsonschema:"only suggest players sharing a position; default true"`
	MinMinutes   *int           `json:"min_minutes,omitempty" jsonschema:"minimum minutes for candidates"`
	Weights      *scout.Weights `json:"weights,omitempty" jsonschema:"score weights; defaults to the server policy"`
	Top          int            `json:"top,omitempty" jsonschema:"suggestions to return; defaults to 10"`
}

func (s *server) recommendReplacement(ctx context.Context, req *mcp.CallToolRequest, args RecommendArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.current()
	if err != nil {
		return toolError(err), nil, nil
	}
	w := s.cfg.Recommend.Weights
	if args.Weights != nil {
		w = *args.Weights
	}
	q := scout.ReplacementQuery{
		Player:       args.Player,
		PriceWindow:  s.cfg.Recommend.PriceWindow,
		SamePosition: true,
		MinMinutes:   s.cfg.Recommend.MinMinutes,
		Weights:      &w,
		TopN:         10,
	}
	if args.PriceWindow != nil {
		q.PriceWindow = *args.PriceWindow
	}
	q.Budget = args.Budget
	if args.SamePosition != nil {
		q.SamePosition = *args.SamePosition
	}
	if args.MinMinutes != nil {
		q.MinMinutes = *args.MinMinutes
	}
	if args.Top > 0 {
		q.TopN = args.Top
	}
	rows, err := scout.RecommendReplacement(t, q)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(tableResult{Sample: t.IsSample(), Count: len(rows), Rows: rows})
}

type ReloadArgs struct{}

func (s *server) reloadTool(ctx context.Context, req *mcp.CallToolRequest, args ReloadArgs) (*mcp.CallToolResult, any, error) {
	t, err := s.reload(ctx)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(map[string]any{
		"rows":    t.Len(),
		"sample":  t.IsSample(),
		"leagues": t.Distinct("league"),
		"columns": player.Columns,
	})
}
