package materializer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyler180/football-scout/internal/player"
)

func TestBuildCreate_CoversSnapshotColumns(t *testing.T) {
	sql := BuildCreate("scout", TableName, "s3://bucket/football-scout/parquet/latest/")
	require.True(t, strings.HasPrefix(sql, "CREATE EXTERNAL TABLE IF NOT EXISTS scout.player_snapshot ("))
	require.Contains(t, sql, "LOCATION 's3://bucket/football-scout/parquet/latest/'")

	require.Len(t, columns, len(player.Columns))
	for i, c := range columns {
		require.Equal(t, player.Columns[i], c[0])
		require.Contains(t, sql, "`"+c[0]+"`")
	}
}

func TestBuildValueLeaders(t *testing.T) {
	sql := BuildValueLeaders("scout", TableName, 500, 0)
	require.Contains(t, sql, "FROM scout.player_snapshot")
	require.Contains(t, sql, "WHERE price > 0")
	require.Contains(t, sql, ">= 500")
	require.True(t, strings.HasSuffix(sql, "LIMIT 20"))
}

func TestBuildDrop(t *testing.T) {
	require.Equal(t, "DROP TABLE IF EXISTS scout.player_snapshot", BuildDrop("scout", TableName))
}
