package fbref

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

type field int

const (
	fPlayer field = iota
	fNation
	fPosition
	fTeam
	fAge
	fMatches
	fStarts
	fMinutes
	fGoals
	fAssists
	numFields
)

// positional offsets into the td cells of a stats row, used when no header is usable.
var fixedOffsets = [numFields]int{
	fPlayer:   0,
	fNation:   1,
	fPosition: 2,
	fTeam:     3,
	fAge:      4,
	fMatches:  6,
	fStarts:   7,
	fMinutes:  8,
	fGoals:    10,
	fAssists:  11,
}

// header keys are data-stat attributes or normalized header text.
var headerAliases = map[string]field{
	"player":       fPlayer,
	"nationality":  fNation,
	"nation":       fNation,
	"position":     fPosition,
	"pos":          fPosition,
	"team":         fTeam,
	"squad":        fTeam,
	"age":          fAge,
	"games":        fMatches,
	"mp":           fMatches,
	"games_starts": fStarts,
	"starts":       fStarts,
	"minutes":      fMinutes,
	"min":          fMinutes,
	"goals":        fGoals,
	"gls":          fGoals,
	"assists":      fAssists,
	"ast":          fAssists,
}

func normHeader(s string) string {
	s = strings.ToLower(cleanText(s))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.ReplaceAll(s, ".", "")
	return strings.TrimSpace(s)
}

// headerMap indexes into the full th+td cell list of a row. -1 means unmapped.
type headerMap [numFields]int

// mapHeader reads the last thead row. The first occurrence of each field wins,
// so the per-90 repeats of Gls/Ast further right are ignored.
func mapHeader(table *goquery.Selection) (headerMap, bool) {
	var h headerMap
	for i := range h {
		h[i] = -1
	}
	tr := table.Find("thead tr").Last()
	if tr.Length() == 0 {
		return h, false
	}
	tr.Find("th,td").Each(func(i int, cell *goquery.Selection) {
		key := strings.TrimSpace(cell.AttrOr("data-stat", ""))
		f, ok := headerAliases[key]
		if !ok {
			f, ok = headerAliases[normHeader(cell.Text())]
		}
		if ok && h[f] < 0 {
			h[f] = i
		}
	})
	return h, h[fPlayer] >= 0
}

// Extract pulls player rows out of a league stats page. A missing table is an
// *ExtractionError; short or blank rows are skipped without error.
func Extract(html []byte, league string, opt Options) ([]RawRow, error) {
	opt = opt.withDefaults()

	// some tables ship inside HTML comments
	clean := bytes.ReplaceAll(html, []byte("<!--"), nil)
	clean = bytes.ReplaceAll(clean, []byte("-->"), nil)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(clean))
	if err != nil {
		return nil, &ExtractionError{League: league, TableID: opt.TableID, Reason: "unparseable: " + err.Error()}
	}
	table := doc.Find("table#" + opt.TableID).First()
	if table.Length() == 0 {
		return nil, &ExtractionError{League: league, TableID: opt.TableID, Reason: "not found"}
	}
	body := table.Find("tbody").First()
	if body.Length() == 0 {
		return nil, &ExtractionError{League: league, TableID: opt.TableID, Reason: "has no body"}
	}

	hdr, byName := mapHeader(table)

	out := make([]RawRow, 0, 600)
	body.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if strings.Contains(tr.AttrOr("class", ""), "thead") {
			return
		}
		cells := tr.Find("th,td")
		if cells.Length() < opt.MinCells {
			return
		}

		var get func(f field) string
		if byName {
			get = func(f field) string {
				i := hdr[f]
				if i < 0 || i >= cells.Length() {
					return ""
				}
				return cleanText(cells.Eq(i).Text())
			}
		} else {
			// offsets count td cells only; the leading th is the rank column
			tds := tr.Find("td")
			get = func(f field) string {
				i := fixedOffsets[f]
				if i >= tds.Length() {
					return ""
				}
				return cleanText(tds.Eq(i).Text())
			}
		}

		player := get(fPlayer)
		if player == "" {
			return
		}
		out = append(out, RawRow{
			League:   league,
			Player:   player,
			Nation:   cleanNation(get(fNation)),
			Position: get(fPosition),
			Team:     get(fTeam),
			Age:      cleanAge(get(fAge)),
			Matches:  get(fMatches),
			Starts:   get(fStarts),
			Minutes:  get(fMinutes),
			Goals:    get(fGoals),
			Assists:  get(fAssists),
		})
	})
	return out, nil
}

// DumpTables logs every table id and its header text at debug level.
func DumpTables(html []byte, tag string, log *logrus.Logger) {
	if log == nil || !log.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	clean := bytes.ReplaceAll(html, []byte("<!--"), nil)
	clean = bytes.ReplaceAll(clean, []byte("-->"), nil)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(clean))
	if err != nil {
		return
	}
	doc.Find("table").Each(func(i int, t *goquery.Selection) {
		var heads []string
		t.Find("thead tr").Last().Find("th,td").Each(func(_ int, c *goquery.Selection) {
			heads = append(heads, normHeader(c.Text()))
		})
		log.WithFields(logrus.Fields{
			"tag":    tag,
			"index":  i,
			"id":     t.AttrOr("id", ""),
			"header": strings.Join(heads, "|"),
		}).Debug("fbref: table")
	})
}
