package analysis

import (
	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

// NormalizeColumns maps ledger headers onto the canonical vocabulary.
//
// Each canonical column (date, amount, type, category — in that fixed order)
// claims the first header whose lower-cased, trimmed form is an exact synonym.
// Headers with no match are left unchanged; a header claimed by one canonical
// is not reclaimed by another. The transform is structural only and idempotent:
// canonical names are themselves synonyms, so a second pass is a no-op.
func NormalizeColumns(headers []string) []string {
	out := make([]string, len(headers))
	copy(out, headers)

	claimed := make(map[int]bool, len(headers))
	for _, canonical := range lexicon.CanonicalOrder {
		synonyms := lexicon.ColumnSynonyms[canonical]
		for i, h := range headers {
			if claimed[i] {
				continue
			}
			if containsToken(synonyms, cleanHeader(h)) {
				out[i] = canonical
				claimed[i] = true
				break
			}
		}
	}
	return out
}

func containsToken(tokens []string, s string) bool {
	for _, t := range tokens {
		if t == s {
			return true
		}
	}
	return false
}
