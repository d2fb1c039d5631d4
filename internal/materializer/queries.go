package materializer

import (
	"fmt"
	"strings"
)

const TableName = "player_snapshot"

// column types of the Parquet snapshot, in file order
var columns = [][2]string{
	{"player", "string"},
	{"nation", "string"},
	{"position", "string"},
	{"team", "string"},
	{"league", "string"},
	{"age", "bigint"},
	{"matches", "bigint"},
	{"starts", "bigint"},
	{"minutes", "bigint"},
	{"goals", "bigint"},
	{"assists", "bigint"},
	{"clean_sheets", "bigint"},
	{"yellow_cards", "bigint"},
	{"red_cards", "bigint"},
	{"total_points", "bigint"},
	{"influence", "double"},
	{"creativity", "double"},
	{"threat", "double"},
	{"ict_index", "double"},
	{"form", "double"},
	{"points_per_game", "double"},
	{"selected_by_percent", "double"},
	{"price", "double"},
	{"source", "string"},
}

// BuildDrop returns a DROP TABLE IF EXISTS for the snapshot table.
func BuildDrop(db, table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s.%s", db, table)
}

// BuildCreate declares the external table over the latest Parquet snapshot.
// location is an s3:// directory.
func BuildCreate(db, table, location string) string {
	cols := make([]string, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, fmt.Sprintf("  `%s` %s", c[0], c[1]))
	}
	return fmt.Sprintf(`CREATE EXTERNAL TABLE IF NOT EXISTS %s.%s (
%s
)
STORED AS PARQUET
LOCATION '%s/'
TBLPROPERTIES ('parquet.compression'='SNAPPY')`,
		db, table, strings.Join(cols, ",\n"), strings.TrimRight(location, "/"))
}

// BuildValueLeaders ranks priced players by points per £m, the same ordering
// the CLI uses. Ties fall back to player name since Athena has no row order.
func BuildValueLeaders(db, table string, minMinutes, topN int) string {
	if topN <= 0 {
		topN = 20
	}
	return fmt.Sprintf(`SELECT
  player, team, league, position, total_points, price,
  CAST(total_points AS DOUBLE) / price AS value_score
FROM %s.%s
WHERE price > 0
  AND total_points IS NOT NULL
  AND COALESCE(minutes, 0) >= %d
ORDER BY value_score DESC, player ASC
LIMIT %d`, db, table, minMinutes, topN)
}
