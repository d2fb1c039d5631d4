package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/football-scout/internal/fbref"
	"github.com/tyler180/football-scout/internal/fetch"
	"github.com/tyler180/football-scout/internal/player"
	"github.com/tyler180/football-scout/internal/scout"
)

const leaguePage = `<html><body><table id="stats_standard"><tbody>
<tr><th>1</th><td>Harry Kane</td><td>eng ENG</td><td>FW</td><td>Bayern Munich</td><td>30-200</td><td>1993</td><td>32</td><td>32</td><td>2,827</td><td>31.4</td><td>36</td><td>8</td></tr>
<tr><th>2</th><td>Florian Wirtz</td><td>de GER</td><td>MF</td><td>Leverkusen</td><td>20-351</td><td>2003</td><td>32</td><td>29</td><td>2,522</td><td>28.0</td><td>11</td><td>11</td></tr>
</tbody></table></body></html>`

const fplCSV = "first_name,second_name,element_type,team,now_cost,total_points\n" +
	"Zero,Price,3,1,0,40\n" +
	"Five,Mil,3,13,50,50\n" +
	"bad,row\n"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bundesliga", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(leaguePage))
	})
	mux.HandleFunc("/laliga", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	mux.HandleFunc("/seriea", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><p>maintenance</p></html>`))
	})
	mux.HandleFunc("/fpl.csv", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fplCSV))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_IsolatesFailingSources(t *testing.T) {
	srv := newServer(t)
	p := &Pipeline{
		Fetcher: fetch.NewClient(fetch.Options{}),
		Sources: []Source{
			{Name: "La Liga", URL: srv.URL + "/laliga", Kind: KindFBref},
			{Name: "Bundesliga", URL: srv.URL + "/bundesliga", Kind: KindFBref},
			{Name: "Serie A", URL: srv.URL + "/seriea", Kind: KindFBref},
		},
		Logger: quietLogger(),
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.RunID)
	require.False(t, res.UsedSample)

	require.Len(t, res.Records, 2)
	require.Equal(t, "Harry Kane", res.Records[0].Player)
	require.Equal(t, "Bundesliga", res.Records[0].League)
	require.Equal(t, 2827, *res.Records[0].Minutes)

	require.Len(t, res.Failures, 2)
	var fe *fetch.FetchError
	require.True(t, errors.As(res.Failures[0].Err, &fe))
	require.Equal(t, http.StatusInternalServerError, fe.Status)
	var ee *fbref.ExtractionError
	require.True(t, errors.As(res.Failures[1].Err, &ee))
	require.Equal(t, "Serie A", ee.League)
}

func TestRun_AllFailIsEmptyResult(t *testing.T) {
	srv := newServer(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	p := &Pipeline{
		Fetcher: fetch.NewClient(fetch.Options{}),
		Sources: []Source{{Name: "La Liga", URL: srv.URL + "/laliga", Kind: KindFBref}},
		Logger:  quietLogger(),
		Metrics: m,
	}

	res, err := p.Run(context.Background())
	require.Nil(t, res)
	var empty *EmptyResultError
	require.True(t, errors.As(err, &empty))
	require.Len(t, empty.Failures, 1)
	require.Contains(t, err.Error(), "no data available")

	require.Equal(t, 0.0, testutil.ToFloat64(m.runSuccess))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("La Liga", "fetch_error")))
}

func TestRun_SampleFallbackIsTagged(t *testing.T) {
	srv := newServer(t)
	p := &Pipeline{
		Fetcher:        fetch.NewClient(fetch.Options{}),
		Sources:        []Source{{Name: "La Liga", URL: srv.URL + "/laliga", Kind: KindFBref}},
		SampleFallback: true,
		Logger:         quietLogger(),
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.UsedSample)
	require.Len(t, res.Failures, 1)
	require.NotEmpty(t, res.Records)
	for _, r := range res.Records {
		require.Equal(t, player.SourceSample, r.Source)
	}
}

func TestRun_RemoteCSVEndToEnd(t *testing.T) {
	srv := newServer(t)
	reg := prometheus.NewRegistry()
	p := &Pipeline{
		Fetcher: fetch.NewClient(fetch.Options{}),
		Sources: []Source{{Name: "FPL", League: "Premier League", URL: srv.URL + "/fpl.csv", Kind: KindFPL}},
		Logger:  quietLogger(),
		Metrics: NewMetrics(reg),
	}

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Records, 2, "malformed row is dropped entirely")
	require.Equal(t, "Man City", res.Records[1].Team)
	require.Equal(t, "MID", res.Records[1].Position)

	ranked := scout.RankByValue(scout.NewTable(res.Records), 10)
	require.Len(t, ranked, 1)
	require.Equal(t, "Five Mil", ranked[0].Record.Player)
	require.InDelta(t, 10.0, ranked[0].Score, 1e-9)

	require.Equal(t, 1.0, testutil.ToFloat64(p.Metrics.runSuccess))
	require.Equal(t, 2.0, testutil.ToFloat64(p.Metrics.rows.WithLabelValues("FPL")))
}

func TestLeagueSources(t *testing.T) {
	src := LeagueSources(fbref.BigFive())
	require.Len(t, src, 5)
	require.Equal(t, KindFBref, src[2].Kind)
	require.Equal(t, "Bundesliga", src[2].league())
}
