package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tyler180/football-scout/internal/player"
)

// DefaultSnapshot is the well-known snapshot location.
const DefaultSnapshot = "data/players.csv"

func isParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// Exists reports whether a snapshot file is present. Its absence is what
// triggers an initial fetch.
func Exists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

// WriteSnapshot replaces the snapshot at path with recs. The file is written
// next to the target and renamed over it, so readers never see a partial file.
func WriteSnapshot(path string, recs []player.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot temp: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	if isParquet(path) {
		err = writeParquet(f, recs)
	} else {
		err = writeCSV(f, recs)
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads every record from path.
func ReadSnapshot(path string) ([]player.Record, error) {
	if isParquet(path) {
		return readParquet(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(f)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func writeCSV(w io.Writer, recs []player.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(player.Columns); err != nil {
		return err
	}
	line := make([]string, len(player.Columns))
	for i := range recs {
		r := &recs[i]
		for c, name := range player.Columns {
			if s, ok := r.Text(name); ok {
				line[c] = s
				continue
			}
			if v, ok := r.Metric(name); ok {
				line[c] = strconv.FormatFloat(v, 'f', -1, 64)
			} else {
				line[c] = ""
			}
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// readCSV is header-driven so older snapshots with fewer columns still load.
// Values that do not parse become missing.
func readCSV(r io.Reader) ([]player.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range hdr {
		hdr[i] = strings.ToLower(strings.TrimSpace(hdr[i]))
	}

	ints := map[string]bool{}
	for _, n := range player.IntFields {
		ints[n] = true
	}
	floats := map[string]bool{}
	for _, n := range player.FloatFields {
		floats[n] = true
	}

	var out []player.Record
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		var p player.Record
		for i, name := range hdr {
			if i >= len(rec) {
				break
			}
			v := strings.TrimSpace(rec[i])
			switch {
			case ints[name]:
				n, _ := player.ParseInt(v)
				p.SetInt(name, n)
			case floats[name]:
				n, _ := player.ParseFloat(v)
				p.SetFloat(name, n)
			default:
				p.SetText(name, v)
			}
		}
		if p.Player == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
