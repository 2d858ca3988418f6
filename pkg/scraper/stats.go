package scraper

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
)

// StatLine is one player's row from a season stats table. Values are keyed by
// canonical stat keys.
type StatLine struct {
	Name   string
	Values map[string]float64
}

// statHeaders maps the header abbreviations found on stats pages onto the
// canonical keys used in storage. Headers not listed here are ignored.
var statHeaders = map[string]string{
	"ms":      "ms",
	"gs":      "ms",
	"mp":      "mp",
	"gp":      "mp",
	"s":       "sp",
	"sp":      "sp",
	"sets":    "sp",
	"pts":     "pts",
	"pts/s":   "pts_per_set",
	"kills":   "k",
	"k":       "k",
	"k/s":     "k_per_set",
	"errors":  "ae",
	"e":       "ae",
	"ta":      "ta",
	"attacks": "ta",
	"pct":     "hit_pct",
	"pct.":    "hit_pct",
	"hit%":    "hit_pct",
	"assists": "assists",
	"a":       "assists",
	"a/s":     "assists_per_set",
	"aces":    "sa",
	"sa":      "sa",
	"sa/s":    "sa_per_set",
	"se":      "se",
	"digs":    "digs",
	"d":       "digs",
	"d/s":     "digs_per_set",
	"re":      "re",
	"tre":     "tre",
	"rec%":    "rec_pct",
	"bs":      "bs",
	"ba":      "ba",
	"tb":      "tb",
	"blocks":  "tb",
	"b/s":     "blocks_per_set",
	"bhe":     "bhe",
}

// Summary row labels that appear in the player column of stats tables.
var summaryRows = map[string]bool{
	"totals":          true,
	"team totals":     true,
	"opponent totals": true,
	"team":            true,
	"opponents":       true,
	"tm":              true,
}

// FetchStats downloads and parses the season statistics page at the given URL.
func (s *Scraper) FetchStats(ctx context.Context, url string) ([]StatLine, error) {
	ctx, span := tracing.StartSpan(ctx, "Scraper.FetchStats")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stats request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch stats page %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d fetching stats page %s", resp.StatusCode, url)
	}

	lines, err := ParseStats(resp.Body)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]any{"stat_lines": len(lines)}).Info("Parsed stats page")
	return lines, nil
}

// ParseStats extracts per-player stat lines from a season statistics page.
// The first table with a player column wins. Team and opponent summary rows
// are skipped.
func ParseStats(r io.Reader) ([]StatLine, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse stats html")
	}

	var lines []StatLine

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		nameCol := -1
		statCols := make(map[int]string)

		table.Find("thead th, tr th").Each(func(i int, th *goquery.Selection) {
			header := strings.ToLower(cleanText(th.Text()))
			if header == "player" || header == "name" {
				if nameCol < 0 {
					nameCol = i
				}
				return
			}
			if key, ok := statHeaders[header]; ok {
				if _, taken := statCols[i]; !taken {
					statCols[i] = key
				}
			}
		})

		if nameCol < 0 || len(statCols) == 0 {
			return true
		}

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= nameCol {
				return
			}

			name := cleanText(cells.Eq(nameCol).Text())
			if name == "" || summaryRows[strings.ToLower(name)] {
				return
			}

			line := StatLine{Name: name, Values: make(map[string]float64)}
			for col, key := range statCols {
				if col >= cells.Length() {
					continue
				}
				raw := strings.ReplaceAll(cleanText(cells.Eq(col).Text()), ",", "")
				if raw == "" || raw == "-" {
					continue
				}
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					continue
				}
				line.Values[key] = v
			}

			if len(line.Values) > 0 {
				lines = append(lines, line)
			}
		})

		return len(lines) == 0
	})

	return lines, nil
}
