package fuzzy

import (
	"strings"
	"unicode"
)

// MinIndexTokenLength is the shortest token kept by TokenizeIndex.
const MinIndexTokenLength = 3

// IsWordRune reports whether r belongs to a word: a letter, a decimal digit
// or an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TokenizeQuery splits a query into lower-cased search terms. Non-word
// characters separate terms; empty terms are dropped.
func TokenizeQuery(query string) []string {
	return tokenize(query, 1)
}

// TokenizeIndex splits text into lower-cased index tokens of at least
// MinIndexTokenLength characters. Duplicates are preserved.
func TokenizeIndex(text string) []string {
	return tokenize(text, MinIndexTokenLength)
}

func tokenize(s string, minLen int) []string {
	var (
		tokens []string
		b      strings.Builder
		n      int
	)
	flush := func() {
		if n >= minLen {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		n = 0
	}
	for _, r := range s {
		if !IsWordRune(r) {
			flush()
			continue
		}
		b.WriteRune(unicode.ToLower(r))
		n++
	}
	flush()
	return tokens
}

// word is a maximal run of word runes with its rune offsets.
type word struct {
	text  string
	lower string
	start int
	end   int
}

// words splits runes into word tokens, keeping offsets into the rune slice.
func words(runes []rune) []word {
	var out []word
	start := -1
	emit := func(end int) {
		w := runes[start:end]
		out = append(out, word{
			text:  string(w),
			lower: string(lowerRunes(w)),
			start: start,
			end:   end,
		})
		start = -1
	}
	for i, r := range runes {
		switch {
		case IsWordRune(r) && start < 0:
			start = i
		case !IsWordRune(r) && start >= 0:
			emit(i)
		}
	}
	if start >= 0 {
		emit(len(runes))
	}
	return out
}

// lowerRunes lower-cases rune by rune so offsets stay aligned with the source.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}
