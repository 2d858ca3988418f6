// Package airports locates the nearest commercial airport for a campus and
// estimates travel from the public OurAirports dataset.
package airports

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/normalizers"
)

const (
	earthRadiusKm = 6371.0
	kmToMiles     = 0.621371
	avgDriveMph   = 55.0
)

// Auto-generated airport notes carry one of these markers. Rows without a
// marker are considered hand-tuned and are never overwritten.
var autoMarkers = []string{
	"Nearest airport by straight-line distance",
	"Nearest major airport by straight-line distance",
}

// LoadCSV reads the OurAirports extract from the given path, filtered to
// major public airports.
func LoadCSV(path string) ([]models.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open airports csv")
	}
	defer f.Close()

	airports, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read airports csv %s", path)
	}
	return airports, nil
}

// ReadCSV parses airports from a reader, keeping only large and medium
// airports with scheduled commercial service and a 3-letter IATA code.
// Military fields are skipped by name even when flagged as scheduled.
func ReadCSV(r io.Reader) ([]models.Airport, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"type", "iata_code", "latitude_deg", "longitude_deg"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Errorf("airports csv missing %s column", required)
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var airports []models.Airport
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}

		size := get(row, "type")
		if size != "large_airport" && size != "medium_airport" {
			continue
		}
		if strings.ToLower(get(row, "scheduled_service")) == "no" {
			continue
		}

		iata := normalizers.Apply(get(row, "iata_code"), "iata")
		if iata == "" {
			continue
		}

		name := get(row, "name")
		nameLower := strings.ToLower(name)
		if strings.Contains(nameLower, "air force base") || strings.Contains(nameLower, "army air") {
			continue
		}

		lat, err := strconv.ParseFloat(get(row, "latitude_deg"), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(get(row, "longitude_deg"), 64)
		if err != nil {
			continue
		}

		airport := models.Airport{
			IataCode:  iata,
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Size:      size,
		}
		if city := get(row, "municipality"); city != "" {
			airport.City = &city
		}
		if region := get(row, "iso_region"); region != "" {
			// iso_region is like "US-TX".
			if i := strings.IndexByte(region, '-'); i >= 0 && i+1 < len(region) {
				state := region[i+1:]
				airport.State = &state
			}
		}

		airports = append(airports, airport)
	}

	return airports, nil
}

// HaversineMiles returns the great-circle distance between two points in
// miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lon1r := lon1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	lon2r := lon2 * math.Pi / 180

	dlat := lat2r - lat1r
	dlon := lon2r - lon1r

	a := math.Pow(math.Sin(dlat/2), 2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * kmToMiles
}

// Nearest finds the closest airport by straight-line distance. Returns nil
// when the list is empty.
func Nearest(lat, lon float64, airports []models.Airport) (*models.Airport, float64) {
	var best *models.Airport
	bestDist := math.Inf(1)

	for i := range airports {
		d := HaversineMiles(lat, lon, airports[i].Latitude, airports[i].Longitude)
		if d < bestDist {
			bestDist = d
			best = &airports[i]
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, bestDist
}

// FormatDriveTime produces a rough drive-time estimate assuming highway
// average speed, like "~45 min (~41 mi)" or "~1 hr 30 min (~82 mi)".
func FormatDriveTime(distanceMi float64) string {
	if distanceMi <= 0 {
		return ""
	}

	minutes := int(math.Round(distanceMi / avgDriveMph * 60))
	miles := int(math.Round(distanceMi))

	if minutes < 60 {
		return fmt.Sprintf("~%d min (~%d mi)", minutes, miles)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("~%d hr (~%d mi)", h, miles)
	}
	return fmt.Sprintf("~%d hr %d min (~%d mi)", h, m, miles)
}

// AutoNotes builds the standard auto-generated note for a computed distance.
func AutoNotes(distanceMi float64) string {
	return fmt.Sprintf(
		"Nearest major airport by straight-line distance (~%d mi). "+
			"Drive time is approximate; check routing for exact timing.",
		int(math.Round(distanceMi)))
}

// IsAutoGenerated reports whether airport notes were produced by this package
// and are safe to overwrite. Empty notes count as auto-generated.
func IsAutoGenerated(notes string) bool {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return true
	}
	for _, marker := range autoMarkers {
		if strings.Contains(notes, marker) {
			return true
		}
	}
	return false
}
