package services

import (
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// Placeholders used when building flat conversations.
const (
	UntitledConversation = "Untitled Conversation"
	NoPreview            = "No preview available"
	ImagePreview         = "[Image]"
)

// previewMaxLength is the width of the default preview, in characters.
const previewMaxLength = 100

// Flatten linearises a conversation graph into its transcript.
//
// The walk starts at the first parent-less node in graph order and is
// depth-first with children in listed order. Each node is visited at most
// once, so back-edges and cycles in malformed graphs are harmless; child ids
// missing from the mapping are skipped. Messages are then filtered in a
// separate pass, dropping system messages and messages without any text or
// media, so retained messages keep their traversal order.
//
// A graph without a root yields nil.
func Flatten(g *domain.Graph) []domain.Message {
	root := findRoot(g)
	if root < 0 {
		return nil
	}

	visited := make([]bool, g.Len())
	stack := []int{root}
	var walked []domain.Message

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true

		node := g.At(i)
		if node.Message != nil {
			walked = append(walked, *node.Message)
		}
		// Push in reverse so the first child is popped first.
		for c := len(node.Children) - 1; c >= 0; c-- {
			if j, ok := g.Lookup(node.Children[c]); ok && !visited[j] {
				stack = append(stack, j)
			}
		}
	}

	return retainMessages(walked)
}

func findRoot(g *domain.Graph) int {
	for i := 0; i < g.Len(); i++ {
		if g.At(i).IsRoot() {
			return i
		}
	}
	return -1
}

func retainMessages(msgs []domain.Message) []domain.Message {
	out := msgs[:0]
	for i := range msgs {
		m := &msgs[i]
		if m.Role == domain.RoleSystem || len(m.Parts) == 0 || !m.HasContent() {
			continue
		}
		out = append(out, *m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FlattenConversation builds the flat form of an exported conversation.
// Returns domain.ErrNoRoot for a graph without a root and
// domain.ErrNoContent when no message survives flattening.
func FlattenConversation(raw *domain.RawConversation) (*domain.FlatConversation, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if raw.Mapping.Len() > 0 && findRoot(raw.Mapping) < 0 {
		return nil, domain.ErrNoRoot
	}
	messages := Flatten(raw.Mapping)
	if len(messages) == 0 {
		return nil, domain.ErrNoContent
	}

	title := raw.Title
	if title == "" {
		title = UntitledConversation
	}

	return &domain.FlatConversation{
		ID:        raw.ID,
		Title:     title,
		CreatedAt: raw.CreatedAt,
		Messages:  messages,
		Preview:   GeneratePreview(messages),
	}, nil
}

// GeneratePreview returns the opening of the first user message: its first
// non-blank text, or ImagePreview when it only carries media. Text longer
// than 100 characters is cut and suffixed with "...". NoPreview is returned
// when there is no user message or nothing to show.
func GeneratePreview(messages []domain.Message) string {
	for i := range messages {
		if messages[i].Role != domain.RoleUser {
			continue
		}
		text := previewText(messages[i].Parts)
		if text == "" {
			return NoPreview
		}
		return truncate(text, previewMaxLength)
	}
	return NoPreview
}

func previewText(parts []domain.ContentPart) string {
	for _, p := range parts {
		if p.HasText() {
			return p.Text
		}
	}
	for _, p := range parts {
		if p.HasMedia() {
			return ImagePreview
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
