package analysis

import (
	"github.com/cloudflare/ahocorasick"

	"github.com/mizanhq/mizan-api/internal/domain/analysis/lexicon"
)

// Schema identifies the detected shape of an input table.
type Schema string

const (
	// SchemaTransactions is row-per-transaction ledger data.
	SchemaTransactions Schema = "transactions"
	// SchemaPnL is row-per-period aggregated revenue/expenses data.
	SchemaPnL Schema = "pnl"
)

// keywordGroup is one of the three independent P&L header groups.
type keywordGroup int

const (
	groupMonth keywordGroup = iota
	groupRevenue
	groupExpense
)

// pnlMatcher scans headers for all P&L keywords in a single pass. The matcher
// is built once from the static lexicon; Match is read-only and safe to call
// from concurrent requests.
var pnlMatcher = newGroupMatcher()

type groupMatcher struct {
	matcher *ahocorasick.Matcher
	groups  []keywordGroup // group of the pattern at the same index
}

func newGroupMatcher() *groupMatcher {
	var patterns [][]byte
	var groups []keywordGroup

	add := func(tokens []string, g keywordGroup) {
		for _, t := range tokens {
			patterns = append(patterns, []byte(t))
			groups = append(groups, g)
		}
	}
	add(lexicon.MonthKeywords, groupMonth)
	add(lexicon.RevenueKeywords, groupRevenue)
	add(lexicon.ExpenseKeywords, groupExpense)

	return &groupMatcher{
		matcher: ahocorasick.NewMatcher(patterns),
		groups:  groups,
	}
}

// groupsIn reports which keyword groups occur as substrings of the header.
func (m *groupMatcher) groupsIn(header string) map[keywordGroup]bool {
	found := make(map[keywordGroup]bool, 3)
	for _, idx := range m.matcher.Match([]byte(cleanHeader(header))) {
		if idx >= 0 && idx < len(m.groups) {
			found[m.groups[idx]] = true
		}
	}
	return found
}

// DetectSchema decides whether the table is a transaction ledger or a periodic
// P&L sheet. The test is conjunctive and order-independent: headers must
// contain at least one keyword from each of the month, revenue and expense
// groups (case-insensitive substring, bilingual) to classify as P&L.
//
// A sheet carrying both ledger-like and P&L-like headers classifies as P&L:
// the three-keyword rule fires first and wins. This priority mirrors the
// upstream behavior for ambiguous sheets and is a documented heuristic, not a
// verified classifier.
func DetectSchema(table RawTable) Schema {
	found := make(map[keywordGroup]bool, 3)
	for _, h := range table.Headers {
		for g := range pnlMatcher.groupsIn(h) {
			found[g] = true
		}
		if len(found) == 3 {
			return SchemaPnL
		}
	}
	return SchemaTransactions
}

// firstHeaderInGroup returns the index of the first header containing any
// keyword of the group, skipping already-claimed indices.
func firstHeaderInGroup(headers []string, g keywordGroup, claimed map[int]bool) int {
	for i, h := range headers {
		if claimed[i] {
			continue
		}
		if pnlMatcher.groupsIn(h)[g] {
			return i
		}
	}
	return -1
}
