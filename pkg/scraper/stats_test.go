package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsHTML = `
<html><body>
<table>
  <thead>
    <tr><th>Player</th><th>SP</th><th>K</th><th>K/S</th><th>Pct.</th><th>Digs</th><th>BHE</th></tr>
  </thead>
  <tbody>
    <tr><td>Jordan Smith</td><td>101</td><td>312</td><td>3.09</td><td>.287</td><td>188</td><td>4</td></tr>
    <tr><td>Casey Nguyen</td><td>98</td><td>12</td><td>0.12</td><td>-</td><td>240</td><td></td></tr>
    <tr><td>Totals</td><td>101</td><td>1324</td><td>13.11</td><td>.245</td><td>1502</td><td>31</td></tr>
    <tr><td>Opponent Totals</td><td>101</td><td>1280</td><td>12.67</td><td>.228</td><td>1488</td><td>29</td></tr>
  </tbody>
</table>
</body></html>`

func TestParseStats(t *testing.T) {
	lines, err := ParseStats(strings.NewReader(statsHTML))
	require.NoError(t, err)
	require.Len(t, lines, 2, "summary rows are skipped")

	first := lines[0]
	assert.Equal(t, "Jordan Smith", first.Name)
	assert.Equal(t, 101.0, first.Values["sp"])
	assert.Equal(t, 312.0, first.Values["k"])
	assert.Equal(t, 3.09, first.Values["k_per_set"])
	assert.InDelta(t, 0.287, first.Values["hit_pct"], 1e-9)
	assert.Equal(t, 188.0, first.Values["digs"])
	assert.Equal(t, 4.0, first.Values["bhe"])

	second := lines[1]
	assert.Equal(t, "Casey Nguyen", second.Name)
	_, hasHitPct := second.Values["hit_pct"]
	assert.False(t, hasHitPct, "dash cells are skipped")
	_, hasBhe := second.Values["bhe"]
	assert.False(t, hasBhe, "empty cells are skipped")
}

func TestParseStats_NoStatTable(t *testing.T) {
	lines, err := ParseStats(strings.NewReader("<html><body><table><tr><th>Date</th><th>Opponent</th></tr></table></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, lines)
}
