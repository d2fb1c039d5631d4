package job

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/football-scout/internal/config"
)

const fplCSV = "first_name,second_name,element_type,team,now_cost,total_points,minutes\n" +
	"Cole,Palmer,3,6,63,244,2600\n" +
	"Ollie,Watkins,4,2,90,228,3200\n"

type fakeGetter map[string]string

func (f fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	if b, ok := f[url]; ok {
		return []byte(b), nil
	}
	return nil, errors.New("unreachable")
}

type fakeS3 struct{ keys []string }

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	_, _ = io.ReadAll(in.Body)
	f.keys = append(f.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

type fakeDDB struct{ items int }

func (f *fakeDDB) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	for _, reqs := range in.RequestItems {
		f.items += len(reqs)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeDDB) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return &dynamodb.QueryOutput{}, nil
}

type fakeAthena struct{ sql []string }

func (f *fakeAthena) StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	f.sql = append(f.sql, aws.ToString(in.QueryString))
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("q")}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	return &athena.GetQueryExecutionOutput{QueryExecution: &athenatypes.QueryExecution{
		QueryExecutionId: in.QueryExecutionId,
		Status:           &athenatypes.QueryExecutionStatus{State: athenatypes.QueryExecutionStateSucceeded},
	}}, nil
}

func (f *fakeAthena) GetQueryResults(ctx context.Context, in *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	cell := func(v string) athenatypes.Datum { return athenatypes.Datum{VarCharValue: aws.String(v)} }
	return &athena.GetQueryResultsOutput{ResultSet: &athenatypes.ResultSet{Rows: []athenatypes.Row{
		{Data: []athenatypes.Datum{cell("c")}},
		{Data: []athenatypes.Datum{cell("2")}},
	}}}, nil
}

func testService(t *testing.T) (*Service, *fakeS3, *fakeDDB, *fakeAthena) {
	t.Helper()
	c := config.Defaults()
	c.Leagues = nil
	c.FPL.URL = "https://fpl.test/players_raw.csv"
	c.AWS.Bucket = "scout-bucket"
	c.AWS.DynamoTable = "scout-players"
	c.AWS.AthenaOutput = "s3://scout-bucket/athena/"

	l := logrus.New()
	l.SetOutput(io.Discard)
	fs, fd, fa := &fakeS3{}, &fakeDDB{}, &fakeAthena{}
	return &Service{
		Config:  c,
		Fetcher: fakeGetter{c.FPL.URL: fplCSV},
		S3:      fs,
		DDB:     fd,
		Athena:  fa,
		Logger:  l,
		TmpDir:  t.TempDir(),
		Poll:    time.Millisecond,
	}, fs, fd, fa
}

func TestHandle_All(t *testing.T) {
	svc, fs, fd, fa := testService(t)

	out, err := svc.Handle(context.Background(), Event{})
	require.NoError(t, err)
	require.Equal(t, "all", out["mode"])
	require.Equal(t, 2, out["rows"])
	require.Equal(t, 2, out["mirrored"])
	require.Equal(t, int64(2), out["table_rows"])
	require.Equal(t, 2, fd.items)

	require.Equal(t, []string{
		"football-scout/parquet/latest/players.parquet",
		"football-scout/csv/latest/players.csv",
	}, fs.keys)

	require.Len(t, fa.sql, 3)
	require.Equal(t, "DROP TABLE IF EXISTS scout.player_snapshot", fa.sql[0])
	require.Contains(t, fa.sql[1], "LOCATION 's3://scout-bucket/football-scout/parquet/latest/'")
	require.True(t, strings.HasPrefix(fa.sql[2], "SELECT COUNT(*)"))
}

func TestHandle_EmptyRunPublishesNothing(t *testing.T) {
	svc, fs, fd, _ := testService(t)
	svc.Fetcher = fakeGetter{}

	_, err := svc.Handle(context.Background(), Event{Mode: "ingest"})
	require.ErrorContains(t, err, "no data available")
	require.Empty(t, fs.keys)
	require.Zero(t, fd.items)
}

func TestHandle_SampleIsNeverPublished(t *testing.T) {
	svc, fs, _, _ := testService(t)
	svc.Fetcher = fakeGetter{}
	svc.Config.SampleFallback = true

	_, err := svc.Handle(context.Background(), Event{Mode: "ingest"})
	require.ErrorContains(t, err, "every source failed")
	require.Empty(t, fs.keys)
}

func TestHandle_MaterializeWithLeaders(t *testing.T) {
	svc, fs, _, fa := testService(t)

	out, err := svc.Handle(context.Background(), Event{Mode: "materialize", Leaders: 5})
	require.NoError(t, err)
	require.Empty(t, fs.keys)
	require.Len(t, fa.sql, 4)
	require.Contains(t, fa.sql[3], "LIMIT 5")
	require.Equal(t, [][]string{{"2"}}, out["value_leaders"])
}

func TestHandle_BadInput(t *testing.T) {
	svc, _, _, _ := testService(t)
	_, err := svc.Handle(context.Background(), Event{Mode: "backfill"})
	require.ErrorContains(t, err, "unknown mode")

	svc.Config.AWS.Bucket = ""
	_, err = svc.Handle(context.Background(), Event{})
	require.ErrorContains(t, err, "SCOUT_BUCKET")
}
