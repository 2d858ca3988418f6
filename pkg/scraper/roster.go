// Package scraper fetches and parses team roster pages. Most athletic sites
// run one of a few templates, so parsing tries the common card layout first
// and falls back to generic table extraction.
package scraper

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/internal/platform/tracing"
)

const (
	userAgent      = "aster-roster/1.0"
	defaultTimeout = 30 * time.Second
)

// RosterEntry is one player parsed from a roster page.
type RosterEntry struct {
	Name         string
	Position     string
	ClassYear    string
	HeightInches *int
	Number       string
	Hometown     string
}

// CoachEntry is one staff member parsed from a roster page.
type CoachEntry struct {
	Name  string
	Title string
}

// Scraper fetches and parses roster pages
type Scraper struct {
	client *http.Client
	logger ectologger.Logger
}

// New creates a roster scraper
func New(logger ectologger.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger,
	}
}

// FetchRoster downloads and parses the roster page at the given URL,
// returning players and coaching staff separately.
func (s *Scraper) FetchRoster(ctx context.Context, url string) ([]RosterEntry, []CoachEntry, error) {
	ctx, span := tracing.StartSpan(ctx, "Scraper.FetchRoster")
	defer span.End()

	log := s.logger.WithContext(ctx).WithFields(map[string]any{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create roster request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to fetch roster page %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, errors.Errorf("unexpected status %d fetching roster page %s", resp.StatusCode, url)
	}

	players, coaches, err := ParseRosterPage(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(map[string]any{"players": len(players), "coaches": len(coaches)}).Info("Parsed roster page")
	return players, coaches, nil
}

// ParseRoster extracts players from roster page HTML.
func ParseRoster(r io.Reader) ([]RosterEntry, error) {
	players, _, err := ParseRosterPage(r)
	return players, err
}

// ParseRosterPage extracts players and coaching staff from roster page HTML.
func ParseRosterPage(r io.Reader) ([]RosterEntry, []CoachEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse roster html")
	}

	entries := parseCards(doc)
	if len(entries) == 0 {
		entries = parseTables(doc)
	}

	players, coaches := splitEntries(entries)
	return players, coaches, nil
}

// parseCards handles the card layout used by the most common site template.
func parseCards(doc *goquery.Document) []RosterEntry {
	var entries []RosterEntry

	doc.Find("li.sidearm-roster-player").Each(func(_ int, sel *goquery.Selection) {
		name := cleanText(sel.Find(".sidearm-roster-player-name h3").First().Text())
		if name == "" {
			name = cleanText(sel.Find(".sidearm-roster-player-name a").First().Text())
		}
		if name == "" {
			return
		}

		entry := RosterEntry{
			Name:      name,
			Position:  CleanPosition(cleanText(sel.Find(".sidearm-roster-player-position-long-short, .sidearm-roster-player-position").First().Text())),
			ClassYear: NormalizeClass(cleanText(sel.Find(".sidearm-roster-player-academic-year").First().Text())),
			Number:    strings.TrimPrefix(cleanText(sel.Find(".sidearm-roster-player-jersey-number").First().Text()), "#"),
			Hometown:  cleanText(sel.Find(".sidearm-roster-player-hometown").First().Text()),
		}
		entry.HeightInches = ParseHeightInches(cleanText(sel.Find(".sidearm-roster-player-height").First().Text()))

		entries = append(entries, entry)
	})

	return entries
}

// parseTables falls back to scanning every table whose header row names a
// player column.
func parseTables(doc *goquery.Document) []RosterEntry {
	var entries []RosterEntry

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		cols := headerColumns(table)
		nameCol, ok := cols["name"]
		if !ok {
			return
		}

		table.Find("tbody tr, tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= nameCol {
				return
			}

			cellText := func(key string) string {
				i, ok := cols[key]
				if !ok || i >= cells.Length() {
					return ""
				}
				return cleanText(cells.Eq(i).Text())
			}

			name := cellText("name")
			if name == "" {
				return
			}

			entry := RosterEntry{
				Name:      name,
				Position:  CleanPosition(cellText("position")),
				ClassYear: NormalizeClass(cellText("class")),
				Number:    strings.TrimPrefix(cellText("number"), "#"),
				Hometown:  cellText("hometown"),
			}
			entry.HeightInches = ParseHeightInches(cellText("height"))

			entries = append(entries, entry)
		})
	})

	return entries
}

// headerColumns maps logical column names to cell indexes based on the
// table's header row.
func headerColumns(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)

	table.Find("thead th, tr th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		// sites abbreviate with trailing periods ("Cl.", "Yr.", "No.")
		header := strings.TrimRight(strings.ToLower(cleanText(th.Text())), ".:")
		switch {
		case strings.Contains(header, "name"):
			setIfAbsent(cols, "name", i)
		case strings.Contains(header, "pos") || strings.Contains(header, "title"):
			setIfAbsent(cols, "position", i)
		case strings.Contains(header, "ht") || strings.Contains(header, "height"):
			setIfAbsent(cols, "height", i)
		case header == "cl" || header == "yr" || strings.Contains(header, "class") || strings.Contains(header, "year"):
			setIfAbsent(cols, "class", i)
		case header == "no" || header == "#":
			setIfAbsent(cols, "number", i)
		case strings.Contains(header, "hometown"):
			setIfAbsent(cols, "hometown", i)
		}
		return true
	})

	return cols
}

func setIfAbsent(cols map[string]int, key string, i int) {
	if _, ok := cols[key]; !ok {
		cols[key] = i
	}
}

// splitEntries separates player rows from staff rows. Honorary TEAM IMPACT
// entries are dropped outright.
func splitEntries(entries []RosterEntry) ([]RosterEntry, []CoachEntry) {
	var players []RosterEntry
	var coaches []CoachEntry
	for _, e := range entries {
		low := strings.ToLower(e.Position)
		switch {
		case strings.Contains(low, "impact"):
		case strings.Contains(low, "coach") || strings.Contains(low, "staff"):
			coaches = append(coaches, CoachEntry{Name: e.Name, Title: e.Position})
		default:
			players = append(players, e)
		}
	}
	return players, coaches
}

var heightRe = regexp.MustCompile(`^(\d{1,2})\s*(?:-|'|\x{2032}|\x{2019})\s*(\d{1,2})(?:"|\x{2033})?$`)

// ParseHeightInches converts "6-2", "6'2"" or "5′11″" to total inches.
// Returns nil for anything unparseable or out of a plausible range.
func ParseHeightInches(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	m := heightRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	feet, _ := strconv.Atoi(m[1])
	inches, _ := strconv.Atoi(m[2])
	if feet < 4 || feet > 7 || inches > 11 {
		return nil
	}

	total := feet*12 + inches
	return &total
}

var trailingHeightRe = regexp.MustCompile(`\s*\d{1,2}\s*(?:-|'|\x{2032}|\x{2019})\s*\d{1,2}(?:"|\x{2033})?\s*$`)

// CleanPosition strips height fragments that some templates append to the
// position cell, like "Outside Hitter 6-1".
func CleanPosition(raw string) string {
	return strings.TrimSpace(trailingHeightRe.ReplaceAllString(raw, ""))
}

// classBases pairs substring signals with their short class form, checked in
// order.
var classBases = []struct {
	signal string
	base   string
}{
	{"fresh", "Fr"},
	{"first year", "Fr"},
	{"first-year", "Fr"},
	{"soph", "So"},
	{"junior", "Jr"},
	{"senior", "Sr"},
	{"fifth", "Fifth"},
	{"5th", "Fifth"},
	{"sixth", "Fifth"},
	{"6th", "Fifth"},
	{"grad", "Gr"},
}

var classAbbrevs = map[string]string{
	"fr": "Fr", "fy": "Fr",
	"so": "So",
	"jr": "Jr",
	"sr": "Sr",
	"gr": "Gr",
}

// NormalizeClass maps the many ways sites spell class years onto the short
// forms Fr, So, Jr, Sr, Gr, Fifth, with an R- prefix for redshirts. Returns
// the empty string for anything unrecognized.
func NormalizeClass(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	s = cleanText(b.String())
	if s == "" {
		return ""
	}

	redshirt := strings.Contains(s, "redshirt") || strings.HasPrefix(s, "r-") || strings.HasPrefix(s, "r ")
	s = strings.TrimPrefix(s, "r-")
	s = strings.TrimPrefix(s, "r ")
	s = strings.TrimSpace(strings.ReplaceAll(s, "redshirt", ""))

	base := ""
	if b, ok := classAbbrevs[s]; ok {
		base = b
	} else {
		for _, cb := range classBases {
			if strings.Contains(s, cb.signal) {
				base = cb.base
				break
			}
		}
	}

	if base == "" {
		return ""
	}
	if base == "Gr" || base == "Fifth" {
		return base
	}
	if redshirt {
		return "R-" + base
	}
	return base
}

// NextClass returns the class a player advances to the following season.
func NextClass(raw string) string {
	mapping := map[string]string{
		"Fr":    "So",
		"R-Fr":  "R-So",
		"So":    "Jr",
		"R-So":  "R-Jr",
		"Jr":    "Sr",
		"R-Jr":  "R-Sr",
		"Sr":    "Gr",
		"R-Sr":  "Gr",
		"Gr":    "Gr",
		"Fifth": "Gr",
	}
	return mapping[NormalizeClass(raw)]
}

// IsGraduating reports whether a player leaves after the current season.
func IsGraduating(raw string) bool {
	switch NormalizeClass(raw) {
	case "Sr", "R-Sr", "Gr", "Fifth":
		return true
	}
	return false
}

var spaceRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
