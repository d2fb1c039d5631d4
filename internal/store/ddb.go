package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/football-scout/internal/player"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// retry pause for unprocessed items
var batchPause = 120 * time.Millisecond

const maxBatchAttempts = 6

func recordKey(r player.Record) string { return r.Player + "#" + r.Team }

// items reuse the record's json names so the mirror and the snapshot share
// column names; missing values are left out
func jsonTags(o *attributevalue.EncoderOptions) { o.TagKey = "json" }

// PutRecords mirrors a run into DynamoDB: PK=League (S), SK=PlayerTeam (S).
// Within one call the first record for a key wins.
func PutRecords(ctx context.Context, ddb DynamoDBAPI, table, runID string, recs []player.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	const maxBatch = 25
	now := strconv.FormatInt(time.Now().Unix(), 10)

	seen := make(map[string]struct{}, len(recs))
	reqs := make([]types.WriteRequest, 0, len(recs))
	for _, r := range recs {
		if r.League == "" || r.Player == "" {
			continue
		}
		k := r.League + "|" + recordKey(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		item, err := attributevalue.MarshalMapWithOptions(r, jsonTags)
		if err != nil {
			return 0, fmt.Errorf("marshal %s: %w", recordKey(r), err)
		}
		item["League"] = &types.AttributeValueMemberS{Value: r.League}
		item["PlayerTeam"] = &types.AttributeValueMemberS{Value: recordKey(r)}
		item["RunID"] = &types.AttributeValueMemberS{Value: runID}
		item["UpdatedAt"] = &types.AttributeValueMemberN{Value: now}
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	for i := 0; i < len(reqs); i += maxBatch {
		end := i + maxBatch
		if end > len(reqs) {
			end = len(reqs)
		}
		if err := batchWriteWithRetry(ctx, ddb, table, reqs[i:end]); err != nil {
			return i, fmt.Errorf("batch write player records: %w", err)
		}
	}
	return len(reqs), nil
}

func batchWriteWithRetry(ctx context.Context, ddb DynamoDBAPI, table string, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: reqs},
	}
	for attempt := 0; attempt < maxBatchAttempts; attempt++ {
		out, err := ddb.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(batchPause):
		}
	}
	return fmt.Errorf("unprocessed items remained after retries for table %s", table)
}

// QueryLeague reads back every mirrored record of one league.
func QueryLeague(ctx context.Context, ddb DynamoDBAPI, table, league string) ([]player.Record, error) {
	var out []player.Record
	var lastKey map[string]types.AttributeValue
	for {
		resp, err := ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(table),
			KeyConditionExpression:    aws.String("#L = :l"),
			ExpressionAttributeNames:  map[string]string{"#L": "League"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":l": &types.AttributeValueMemberS{Value: league}},
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query %s league=%s: %w", table, league, err)
		}
		for _, it := range resp.Items {
			if r, ok := itemRecord(it); ok {
				out = append(out, r)
			}
		}
		if len(resp.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = resp.LastEvaluatedKey
	}
	return out, nil
}

func itemRecord(it map[string]types.AttributeValue) (player.Record, bool) {
	var r player.Record
	if err := attributevalue.UnmarshalMapWithOptions(it, &r, func(o *attributevalue.DecoderOptions) {
		o.TagKey = "json"
	}); err != nil {
		return r, false
	}
	return r, r.Player != ""
}
