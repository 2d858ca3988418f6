package scorecard

import (
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// schoolNameChain names the registered normalizers applied to school names
// before indexing and matching. Index and matcher must agree on this chain or
// exact lookups silently miss.
var schoolNameChain = []string{"trim", "institution"}

// indexEntry pairs a normalized name with its record, preserving source order
// for fuzzy scans.
type indexEntry struct {
	normalized string
	record     *Record
}

// Index holds scorecard records keyed for the three lookup paths: by unitid,
// by exact normalized name, and an ordered list for fuzzy scans.
type Index struct {
	byUnitID map[int]*Record
	byName   map[string]*Record
	entries  []indexEntry
}

// BuildIndex constructs the lookup index from scorecard records. Rows whose
// name normalizes to the empty string are skipped. When two rows normalize to
// the same name the first one wins; later collisions are counted and logged.
func BuildIndex(records []Record, logger ectologger.Logger) *Index {
	idx := &Index{
		byUnitID: make(map[int]*Record, len(records)),
		byName:   make(map[string]*Record, len(records)),
		entries:  make([]indexEntry, 0, len(records)),
	}

	duplicates := 0
	for i := range records {
		rec := &records[i]

		normalized := normalizers.ApplyChain(rec.Name, schoolNameChain...)
		if normalized == "" {
			continue
		}

		if rec.UnitID != 0 {
			if _, exists := idx.byUnitID[rec.UnitID]; !exists {
				idx.byUnitID[rec.UnitID] = rec
			}
		}

		if _, exists := idx.byName[normalized]; exists {
			duplicates++
		} else {
			idx.byName[normalized] = rec
		}
		idx.entries = append(idx.entries, indexEntry{normalized: normalized, record: rec})
	}

	if duplicates > 0 && logger != nil {
		logger.WithFields(map[string]any{
			"duplicates": duplicates,
			"indexed":    len(idx.byName),
		}).Warn("scorecard index built with duplicate normalized names, first occurrence kept")
	}

	return idx
}

// Size returns the number of indexed name entries.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// ByUnitID returns the record with the given unitid, or nil.
func (idx *Index) ByUnitID(unitID int) *Record {
	return idx.byUnitID[unitID]
}

// ByNormalizedName returns the record whose name normalizes to the given
// string, or nil.
func (idx *Index) ByNormalizedName(normalized string) *Record {
	return idx.byName[normalized]
}
