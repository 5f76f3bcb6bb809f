package search

import "strings"

// Korean grammatical particles stripped from queries before matching:
// topic/subject/object markers, locatives, conjunctives, possessive,
// and instrumental markers. Stripping happens per rune, so a particle
// attached to a word splits the word at that point.
var particleRunes = map[rune]struct{}{
	'을': {}, '를': {}, '이': {}, '가': {},
	'은': {}, '는': {}, '에': {}, '서': {},
	'와': {}, '과': {}, '의': {}, '로': {}, '으': {},
}

// NormalizeQuery strips particle runes, collapses whitespace runs, and
// lower-cases the query.
func NormalizeQuery(query string) string {
	mapped := strings.Map(func(r rune) rune {
		if _, ok := particleRunes[r]; ok {
			return ' '
		}
		return r
	}, query)

	return strings.ToLower(strings.Join(strings.Fields(mapped), " "))
}

// tokenize splits a normalized query into match tokens, dropping tokens
// shorter than the minimum match length.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= minMatchLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
