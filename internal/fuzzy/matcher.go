// Package fuzzy implements the lexical matching primitive used by search:
// case-insensitive phrase and per-word substring matching with scores and
// character offsets, plus match-centred preview extraction.
//
// All functions are pure and safe for concurrent use. Offsets are rune
// offsets into the source text, not byte offsets.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// SubstringWeight scales the length ratio of a partial word match, keeping
// substring hits strictly below an exact hit of the same term.
const SubstringWeight = 0.9

// FindMatches returns every occurrence of query in text ordered by position.
//
// The full query is first searched as a contiguous phrase; each occurrence
// scores 1. The search cursor advances one character past each hit, so
// overlapping occurrences are reported too. Only when the phrase is absent
// is the query split into terms and matched word by word: a word equal to a
// term scores 1, a word containing a term scores len(term)/len(word)*0.9.
// Each word is counted against the first term it matches only.
func FindMatches(text, query string) []domain.MatchResult {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return nil
	}

	runes := []rune(text)
	matches := phraseMatches(runes, query)
	if len(matches) == 0 {
		matches = wordMatches(runes, TokenizeQuery(query))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// HasMatch reports whether FindMatches would return at least one match.
func HasMatch(text, query string) bool {
	return len(FindMatches(text, query)) > 0
}

func phraseMatches(runes []rune, query string) []domain.MatchResult {
	needle := string(lowerRunes([]rune(query)))
	qlen := utf8.RuneCountInString(needle)
	haystack := string(lowerRunes(runes))

	var (
		matches []domain.MatchResult
		bytePos int // cursor into haystack
		runePos int // rune offset of bytePos
	)
	for bytePos <= len(haystack) {
		i := strings.Index(haystack[bytePos:], needle)
		if i < 0 {
			break
		}
		start := runePos + utf8.RuneCountInString(haystack[bytePos:bytePos+i])
		matches = append(matches, domain.MatchResult{
			Word:  string(runes[start : start+qlen]),
			Score: 1.0,
			Type:  domain.MatchExact,
			Start: start,
			End:   start + qlen,
		})

		// Advance one character past the hit's first rune.
		_, size := utf8.DecodeRuneInString(haystack[bytePos+i:])
		bytePos += i + size
		runePos = start + 1
	}
	return matches
}

func wordMatches(runes []rune, terms []string) []domain.MatchResult {
	if len(terms) == 0 {
		return nil
	}
	var matches []domain.MatchResult
	for _, w := range words(runes) {
		for _, term := range terms {
			score, typ, ok := matchWord(term, w.lower)
			if !ok {
				continue
			}
			matches = append(matches, domain.MatchResult{
				Word:  w.text,
				Score: score,
				Type:  typ,
				Start: w.start,
				End:   w.end,
			})
			break
		}
	}
	return matches
}

// matchWord compares a lower-cased term against a lower-cased word.
func matchWord(term, word string) (float64, domain.MatchType, bool) {
	if term == word {
		return 1.0, domain.MatchExact, true
	}
	if strings.Contains(word, term) {
		ratio := float64(utf8.RuneCountInString(term)) / float64(utf8.RuneCountInString(word))
		return ratio * SubstringWeight, domain.MatchSubstring, true
	}
	return 0, "", false
}

// TotalScore sums the scores of matches.
func TotalScore(matches []domain.MatchResult) float64 {
	var total float64
	for i := range matches {
		total += matches[i].Score
	}
	return total
}
