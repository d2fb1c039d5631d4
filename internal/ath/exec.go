package ath

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/sirupsen/logrus"
)

type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/
	Poll      time.Duration
	Logger    *logrus.Logger
}

func (r *Runner) log() *logrus.Logger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// ExecAndWait starts sql and polls until it leaves the running states.
func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
		WorkGroup: aws.String(r.Workgroup),
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(r.OutputS3)}
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	qlog := r.log().WithField("qid", qid)
	qlog.Debug("athena: started")

	poll := r.Poll
	if poll <= 0 {
		poll = time.Second
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			switch ge.QueryExecution.Status.State {
			case types.QueryExecutionStateSucceeded:
				if stats := ge.QueryExecution.Statistics; stats != nil {
					var scannedMB float64
					if stats.DataScannedInBytes != nil {
						scannedMB = float64(*stats.DataScannedInBytes) / 1024.0 / 1024.0
					}
					qlog.WithField("scanned_mb", fmt.Sprintf("%.3f", scannedMB)).Info("athena: succeeded")
				}
				return ge.QueryExecution, nil
			case types.QueryExecutionStateFailed:
				return nil, errors.New("athena failed: " + aws.ToString(ge.QueryExecution.Status.StateChangeReason))
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			default:
				// still running
			}
		}
	}
}

// Rows runs sql and returns the result rows as strings, header row excluded.
func (r *Runner) Rows(ctx context.Context, sql string) ([][]string, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return nil, err
	}
	var out [][]string
	var next *string
	first := true
	for {
		gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: exec.QueryExecutionId,
			NextToken:        next,
		})
		if err != nil {
			return nil, fmt.Errorf("get results: %w", err)
		}
		for i, row := range gr.ResultSet.Rows {
			if first && i == 0 {
				continue
			}
			vals := make([]string, len(row.Data))
			for j, d := range row.Data {
				vals[j] = aws.ToString(d.VarCharValue)
			}
			out = append(out, vals)
		}
		first = false
		if gr.NextToken == nil {
			break
		}
		next = gr.NextToken
	}
	return out, nil
}

func (r *Runner) CountRows(ctx context.Context, table string) (int64, error) {
	rows, err := r.Rows(ctx, fmt.Sprintf("SELECT COUNT(*) AS c FROM %s", table))
	if err != nil {
		return 0, err
	}
	if len(rows) < 1 || len(rows[0]) < 1 {
		return 0, errors.New("unexpected COUNT(*) result shape")
	}
	var n int64
	if _, err := fmt.Sscan(rows[0][0], &n); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return n, nil
}
