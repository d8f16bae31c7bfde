package fuzzy

import "github.com/custodia-labs/chatsift/internal/core/domain"

// Ellipsis marks text cut from a preview.
const Ellipsis = "..."

// snapDistance is how far an edge may move to land on a space.
const snapDistance = 20

// ExtractPreview returns a snippet of text of at most maxLength characters
// (plus an ellipsis on each cut side) centred on the first match of query.
//
// Without a match the snippet is the head of the text. With a match the
// window is centred on it and clamped to the text; each cut edge then moves
// to a nearby space so words are not split. An edge moves outward when the
// window still fits maxLength, otherwise inward (never past the match).
// A non-positive maxLength selects the default preview length.
func ExtractPreview(text, query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = domain.DefaultPreviewLength
	}
	runes := []rune(text)

	matches := FindMatches(text, query)
	if len(matches) == 0 {
		if len(runes) <= maxLength {
			return text
		}
		return string(runes[:maxLength]) + Ellipsis
	}

	m := matches[0]
	start, end := window(len(runes), m, maxLength)
	start = snapStart(runes, start, end, m.Start, maxLength)
	end = snapEnd(runes, start, end, m.End, maxLength)

	preview := string(runes[start:end])
	if start > 0 {
		preview = Ellipsis + preview
	}
	if end < len(runes) {
		preview += Ellipsis
	}
	return preview
}

// window centres a maxLength-wide window on m, clamped to [0, n].
// A match wider than the window keeps its head.
func window(n int, m domain.MatchResult, maxLength int) (int, int) {
	span := m.End - m.Start
	if span >= maxLength {
		return m.Start, min(n, m.Start+maxLength)
	}
	radius := (maxLength - span) / 2
	return max(0, m.Start-radius), min(n, m.End+radius)
}

func snapStart(runes []rune, start, end, matchStart, maxLength int) int {
	if start == 0 {
		return start
	}
	// Outward: the space at or before start.
	for i := start; i >= 0 && i > start-snapDistance; i-- {
		if runes[i] != ' ' {
			continue
		}
		if end-(i+1) <= maxLength {
			return i + 1
		}
		break
	}
	// Inward: drop the partial word, never cutting into the match.
	for i := start; i < matchStart && i < start+snapDistance; i++ {
		if runes[i] == ' ' {
			return i + 1
		}
	}
	return start
}

func snapEnd(runes []rune, start, end, matchEnd, maxLength int) int {
	if end >= len(runes) {
		return end
	}
	// Outward: the space at or after end.
	for i := end; i < len(runes) && i < end+snapDistance; i++ {
		if runes[i] != ' ' {
			continue
		}
		if i-start <= maxLength {
			return i
		}
		break
	}
	// Inward: back up to the last space after the match.
	for i := end - 1; i >= matchEnd && i > end-snapDistance; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return end
}
