package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/football-scout/internal/player"
)

func sampleRecs() []player.Record {
	return []player.Record{
		{Player: "Bukayo Saka", Nation: "ENG", Position: "FW,MF", Team: "Arsenal", League: "Premier League",
			Age: player.Int(22), Minutes: player.Int(2917), Goals: player.Int(16), Source: player.SourceFBref},
		{Player: "Cole Palmer", Position: "MID", Team: "Chelsea", League: "Premier League",
			TotalPoints: player.Int(244), Price: player.Float(6.3), Form: player.Float(7.1), Source: player.SourceFPL},
	}
}

func TestSnapshot_RoundTripFormats(t *testing.T) {
	for _, name := range []string{"players.csv", "players.parquet"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data", name)
			require.False(t, Exists(path))

			require.NoError(t, WriteSnapshot(path, sampleRecs()))
			require.True(t, Exists(path))

			got, err := ReadSnapshot(path)
			require.NoError(t, err)
			if diff := cmp.Diff(sampleRecs(), got); diff != "" {
				t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshot_OverwritesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.csv")
	require.NoError(t, WriteSnapshot(path, sampleRecs()))
	require.NoError(t, WriteSnapshot(path, sampleRecs()[:1]))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestSnapshot_ReadsOlderLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.csv")
	csv := "player,team,league,age,minutes,goals,assists\n" +
		"Rodri,Manchester City,Premier League,27,2931,8,oops\n" +
		",Nobody,Premier League,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	got, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 2931, *got[0].Minutes)
	require.Nil(t, got[0].Assists)
	require.Nil(t, got[0].Price)
}

type fakeS3 struct {
	keys   []string
	bodies map[string]string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.keys = append(f.keys, *in.Key)
	f.bodies[*in.Key] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestUploader_PutSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.parquet")
	require.NoError(t, WriteSnapshot(path, sampleRecs()))

	fs := &fakeS3{}
	up := &Uploader{
		API:    fs,
		Bucket: "b",
		Prefix: "/scout/",
	}
	keys, err := up.PutSnapshot(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"scout/latest/players.parquet"}, keys)
	require.Equal(t, keys, fs.keys)
	require.NotEmpty(t, fs.bodies[keys[0]])

	_, err = up.PutSnapshot(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, []string{"scout/latest/players.parquet", "scout/latest/players.parquet"}, fs.keys, "a rerun overwrites latest only")
	require.Len(t, fs.bodies, 1)
}
