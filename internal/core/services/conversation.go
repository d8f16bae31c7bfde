package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

const transcriptTimeLayout = "January 2, 2006 3:04 PM"

var (
	blankLines      = regexp.MustCompile(`\n{3,}`)
	unsafeFilename  = regexp.MustCompile(`[^a-z0-9]+`)
	maxFilenameBase = 50
)

// ConversationService exposes the loaded conversations.
type ConversationService struct {
	corpus *Corpus
}

// NewConversationService creates a new conversation service.
func NewConversationService(corpus *Corpus) *ConversationService {
	return &ConversationService{corpus: corpus}
}

// List returns every conversation in ingest order.
func (s *ConversationService) List(_ context.Context) ([]*domain.FlatConversation, error) {
	return s.corpus.Conversations(), nil
}

// Get returns a conversation by ID.
func (s *ConversationService) Get(_ context.Context, id string) (*domain.FlatConversation, error) {
	conv, ok := s.corpus.Get(id)
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, domain.ErrNotFound)
	}
	return conv, nil
}

// Transcript renders a conversation as Markdown.
func (s *ConversationService) Transcript(ctx context.Context, id string) (string, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(conv), nil
}

// RenderMarkdown formats a conversation as a Markdown transcript: a header
// with title, creation time and message count, then one section per message
// separated by horizontal rules. Media parts become image links.
func RenderMarkdown(conv *domain.FlatConversation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	fmt.Fprintf(&b, "**Created:** %s\n", formatTimestamp(conv.CreatedAt))
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(conv.Messages))
	b.WriteString("---\n\n")

	for i := range conv.Messages {
		m := &conv.Messages[i]
		fmt.Fprintf(&b, "## %s (%s)\n\n", speaker(m.Role), formatTimestamp(m.CreatedAt))

		for _, p := range m.Parts {
			if p.HasText() {
				b.WriteString(normaliseText(p.Text))
				b.WriteString("\n")
			}
			if p.HasMedia() {
				fmt.Fprintf(&b, "![Image](%s)\n", p.MediaRef())
			}
		}

		b.WriteString("\n")
		if i < len(conv.Messages)-1 {
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

// SanitizeFilename turns a title into a lower-case file name stem of at
// most 50 characters, falling back to "conversation".
func SanitizeFilename(title string) string {
	name := unsafeFilename.ReplaceAllString(strings.ToLower(title), "_")
	name = strings.Trim(name, "_")
	if len(name) > maxFilenameBase {
		name = strings.TrimRight(name[:maxFilenameBase], "_")
	}
	if name == "" {
		return "conversation"
	}
	return name
}

func speaker(role domain.Role) string {
	if role == domain.RoleUser {
		return "You"
	}
	return "Assistant"
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format(transcriptTimeLayout)
}

func normaliseText(s string) string {
	return strings.TrimSpace(blankLines.ReplaceAllString(s, "\n\n"))
}
