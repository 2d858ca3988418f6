package scorecard

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Column names in the scorecard extract. Alternates cover older vintages of
// the file.
var (
	geoStateColumns  = []string{"STABBR", "STATE"}
	geoZipColumns    = []string{"ZIP", "ZIP5"}
	geoCountyColumns = []string{"COUNTYNAME", "COUNTYNM", "COUNTY"}
)

// LoadCSV reads the scorecard extract from the given path.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open scorecard csv")
	}
	defer f.Close()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scorecard csv %s", path)
	}
	return records, nil
}

// ReadCSV parses scorecard rows from a reader. Rows without an institution
// name are skipped. Empty, NULL and PrivacySuppressed values become nil.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	// upstream extracts carry ragged rows; short rows read as empty fields
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read header row")
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["INSTNM"]; !ok {
		return nil, errors.New("scorecard csv missing INSTNM column")
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to read row")
		}

		get := func(names ...string) string {
			for _, name := range names {
				i, ok := cols[name]
				if !ok || i >= len(row) {
					continue
				}
				v := strings.TrimSpace(row[i])
				if v != "" && v != "NULL" && v != "PrivacySuppressed" {
					return v
				}
			}
			return ""
		}

		name := get("INSTNM")
		if name == "" {
			continue
		}

		rec := Record{
			Name:                name,
			City:                get("CITY"),
			State:               get(geoStateColumns...),
			Zip:                 get(geoZipColumns...),
			County:              get(geoCountyColumns...),
			Latitude:            parseFloat(get("LATITUDE")),
			Longitude:           parseFloat(get("LONGITUDE")),
			UndergradEnrollment: parseInt(get("UGDS")),
			AdmissionRate:       parseFloat(get("ADM_RATE")),
			GradRate4yr:         parseFloat(get("C150_4")),
			RetentionRate:       parseFloat(get("RET_FT4")),
			MedianEarnings:      parseFloat(get("MD_EARN_WNE_P10")),
			AvgCost:             parseFloat(get("AVG_COST")),
		}
		if unitID := parseInt(get("UNITID")); unitID != nil {
			rec.UnitID = *unitID
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	v := int(math.Round(*f))
	return &v
}
