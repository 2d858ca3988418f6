package scorecard

import (
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/aster/pkg/normalizers"
)

// Confidence tiers assigned to a match result.
const (
	ConfidenceOverride  = "override"
	ConfidenceHigh      = "high"
	ConfidenceMedium    = "medium"
	ConfidenceLow       = "low"
	ConfidenceUnmatched = "unmatched"
)

// Fuzzy matching thresholds on token-set similarity.
const (
	fuzzyFloor      = 0.60
	mediumThreshold = 0.80
)

// MatchResult is the outcome of resolving a team against the scorecard index.
type MatchResult struct {
	Record     *Record
	Confidence string
	// MatchedName is the candidate name that produced the match, empty for
	// override matches.
	MatchedName string
	// Similarity is the token-set similarity of the winning fuzzy match,
	// 1.0 for exact and override matches.
	Similarity float64
}

// Matcher resolves candidate names to scorecard records.
type Matcher struct {
	index  *Index
	logger ectologger.Logger
}

// NewMatcher creates a matcher over the given index.
func NewMatcher(index *Index, logger ectologger.Logger) *Matcher {
	return &Matcher{index: index, logger: logger}
}

// Match resolves a team to a scorecard record. An overrideUnitID of 0 means no
// override is pinned. Resolution order:
//
//  1. Override unitid lookup. An unresolvable override logs a warning and
//     falls through to name matching.
//  2. Exact normalized-name match over the candidates in order.
//  3. Fuzzy token-set scan over the whole index, keeping the best score.
//
// Fuzzy scores below 0.60 are unmatched; 0.80 and above are medium
// confidence, the rest low.
func (m *Matcher) Match(overrideUnitID int, candidates []string) MatchResult {
	if overrideUnitID != 0 {
		if rec := m.index.ByUnitID(overrideUnitID); rec != nil {
			return MatchResult{Record: rec, Confidence: ConfidenceOverride, Similarity: 1.0}
		}
		if m.logger != nil {
			m.logger.WithFields(map[string]any{"unitid": overrideUnitID}).
				Warn("override unitid not present in scorecard index, falling back to name matching")
		}
	}

	seen := make(map[string]bool, len(candidates))
	normalized := make([]string, 0, len(candidates))
	originals := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		n := normalizers.ApplyChain(candidate, schoolNameChain...)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		normalized = append(normalized, n)
		originals = append(originals, candidate)
	}

	for i, n := range normalized {
		if rec := m.index.ByNormalizedName(n); rec != nil {
			return MatchResult{
				Record:      rec,
				Confidence:  ConfidenceHigh,
				MatchedName: originals[i],
				Similarity:  1.0,
			}
		}
	}

	var (
		best      *Record
		bestScore float64
		bestName  string
	)
	// scan the index in load order so ties keep the earliest record
	for _, entry := range m.index.entries {
		for i, n := range normalized {
			score := TokenSetSimilarity(n, entry.normalized)
			if score > bestScore {
				best = entry.record
				bestScore = score
				bestName = originals[i]
			}
		}
	}

	if best == nil || bestScore < fuzzyFloor {
		return MatchResult{Confidence: ConfidenceUnmatched}
	}

	confidence := ConfidenceLow
	if bestScore >= mediumThreshold {
		confidence = ConfidenceMedium
	}
	return MatchResult{
		Record:      best,
		Confidence:  confidence,
		MatchedName: bestName,
		Similarity:  bestScore,
	}
}

// TokenSetSimilarity returns the Jaccard similarity of the two strings'
// whitespace token sets. Both inputs are expected to be normalized already.
func TokenSetSimilarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}
