package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Farerworks/secondbrain-coach/internal/domain"
)

// rerankRule is one step of the prioritized re-ranking pipeline applied
// after raw scoring. Rules run in declaration order against the raw
// (un-normalized) query; each produces a deterministic reordering.
type rerankRule struct {
	name    string
	applies func(query string) bool
	apply   func(idx *Index, query string, results []Result) []Result
}

var (
	healthPattern = regexp.MustCompile(`살|다이어트|운동|건강|체중`)
	systemPattern = regexp.MustCompile(`(?i)세컨드브레인|세컨브레인|second brain|템플릿`)
)

// healthQuery is the hand-tuned narrow query that overrides broad
// matching for health-related questions.
const healthQuery = "건강 다이어트 운동"

func defaultRules() []rerankRule {
	return []rerankRule{
		{
			name:    "curated-first",
			applies: func(string) bool { return true },
			apply:   curatedFirst,
		},
		{
			name:    "health-override",
			applies: healthPattern.MatchString,
			apply:   healthOverride,
		},
		{
			name:    "system-name-priority",
			applies: systemPattern.MatchString,
			apply:   systemNamePriority,
		},
	}
}

// curatedFirst sorts curated items before everything else, ties broken
// by raw score ascending.
func curatedFirst(_ *Index, _ string, results []Result) []Result {
	sort.SliceStable(results, func(a, b int) bool {
		ac, bc := results[a].Item.IsCurated(), results[b].Item.IsCurated()
		if ac != bc {
			return ac
		}
		return results[a].Score < results[b].Score
	})
	return results
}

// healthOverride re-runs the search with the canned health query and
// moves its results to the front, in that restricted result's order,
// followed by the remaining original results.
func healthOverride(idx *Index, _ string, results []Result) []Result {
	overrides := idx.rawSearch(NormalizeQuery(healthQuery), idx.items)
	if len(overrides) == 0 {
		return results
	}

	overrideIDs := make(map[string]struct{}, len(overrides))
	for _, r := range overrides {
		overrideIDs[r.Item.ID] = struct{}{}
	}

	merged := make([]Result, 0, len(overrides)+len(results))
	merged = append(merged, overrides...)
	for _, r := range results {
		if _, ok := overrideIDs[r.Item.ID]; ok {
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// systemNamePriority partitions curated items (by type or category)
// ahead of everyone else, preserving relative order in each partition.
func systemNamePriority(_ *Index, _ string, results []Result) []Result {
	curated := make([]Result, 0, len(results))
	rest := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Item.IsCurated() || containsCuratedCategory(r.Item.Category) {
			curated = append(curated, r)
		} else {
			rest = append(rest, r)
		}
	}
	return append(curated, rest...)
}

func containsCuratedCategory(category string) bool {
	return strings.Contains(category, domain.CategoryCurated)
}
