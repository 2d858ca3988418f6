package scorecard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `UNITID,INSTNM,CITY,STABBR,ZIP,COUNTYNAME,LATITUDE,LONGITUDE,UGDS,ADM_RATE,C150_4,RET_FT4,MD_EARN_WNE_P10,AVG_COST
100654,Example State University,Springfield,IL,62701,Sangamon,39.78,-89.65,12000,0.65,0.58,0.81,52000,23000
100710,Coastal Institute,Harborview,ME,04101-1234,Cumberland,NULL,NULL,PrivacySuppressed,,0.72,0.88,61000.5,31000
,No Unitid College,Town,TX,75001,Dallas,,,,,,,
100800,,Nowhere,KS,66101,Wyandotte,,,,,,,
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 3, "row without a name is skipped")

	first := records[0]
	assert.Equal(t, 100654, first.UnitID)
	assert.Equal(t, "Example State University", first.Name)
	assert.Equal(t, "Springfield", first.City)
	assert.Equal(t, "IL", first.State)
	assert.Equal(t, "62701", first.Zip)
	assert.Equal(t, "Sangamon", first.County)
	require.NotNil(t, first.Latitude)
	assert.InDelta(t, 39.78, *first.Latitude, 1e-9)
	require.NotNil(t, first.UndergradEnrollment)
	assert.Equal(t, 12000, *first.UndergradEnrollment)
	require.NotNil(t, first.AdmissionRate)
	assert.InDelta(t, 0.65, *first.AdmissionRate, 1e-9)

	second := records[1]
	assert.Equal(t, 100710, second.UnitID)
	assert.Nil(t, second.Latitude, "NULL becomes nil")
	assert.Nil(t, second.UndergradEnrollment, "PrivacySuppressed becomes nil")
	assert.Nil(t, second.AdmissionRate, "empty becomes nil")
	require.NotNil(t, second.MedianEarnings)
	assert.InDelta(t, 61000.5, *second.MedianEarnings, 1e-9)

	third := records[2]
	assert.Equal(t, 0, third.UnitID, "missing unitid stays zero")
	assert.Equal(t, "No Unitid College", third.Name)
}

func TestReadCSV_RaggedRows(t *testing.T) {
	csv := "UNITID,INSTNM,CITY,STABBR\n" +
		"100654,Example State University,Springfield,IL\n" +
		"100710,Coastal Institute\n" +
		"100800,Trailing College,Harborview,ME,extra,fields\n"

	records, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err, "a malformed row must not sink the load")
	require.Len(t, records, 3)

	assert.Equal(t, "Coastal Institute", records[1].Name)
	assert.Equal(t, "", records[1].City, "missing trailing fields read as empty")
	assert.Equal(t, "Trailing College", records[2].Name)
	assert.Equal(t, "ME", records[2].State)
}

func TestReadCSV_MissingNameColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("UNITID,CITY\n1,Town\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSTNM")
}

func TestReadCSV_AlternateGeoColumns(t *testing.T) {
	csv := "INSTNM,STATE,ZIP5,COUNTY\nExample Tech,NY,10001,New York\n"
	records, err := ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NY", records[0].State)
	assert.Equal(t, "10001", records[0].Zip)
	assert.Equal(t, "New York", records[0].County)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/scorecard.csv")
	require.Error(t, err)
}
