// Package transcript provides the conversation transcript view for the TUI.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/fuzzy"
)

// ErrNoConversationService indicates that no conversation service was provided.
var ErrNoConversationService = errors.New("conversation service is required")

// View shows a scrollable Markdown transcript of one conversation.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.ConversationService
	ctx     context.Context

	conversation *domain.FlatConversation
	query        string
	content      string
	lines        []string
	scrollOffset int
	width        int
	height       int
	err          error
	loading      bool
}

// NewView creates a new transcript view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ConversationService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open shows conv and starts loading its transcript. query, when set,
// decides where the view first scrolls to.
func (v *View) Open(conv *domain.FlatConversation, query string) tea.Cmd {
	if conv == nil {
		return nil
	}
	v.conversation = conv
	v.query = query
	v.content = ""
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx, svc, conv := v.ctx, v.service, v.conversation
	return func() tea.Msg {
		if svc == nil {
			return messages.TranscriptLoaded{Err: ErrNoConversationService}
		}
		md, err := svc.Transcript(ctx, conv.ID)
		return messages.TranscriptLoaded{ConversationID: conv.ID, Markdown: md, Err: err}
	}
}

// Update handles messages for the transcript view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TranscriptLoaded:
		if v.conversation != nil && msg.ConversationID != "" && msg.ConversationID != v.conversation.ID {
			return v, nil // stale
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.content = msg.Markdown
		v.wrapContent()
		v.scrollToFirstMatch()
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keymap.Up):
		v.scrollTo(v.scrollOffset - 1)
	case keymap.Matches(k, v.keymap.Down):
		v.scrollTo(v.scrollOffset + 1)
	case keymap.Matches(k, v.keymap.PageUp):
		v.scrollTo(v.scrollOffset - v.visibleLines())
	case keymap.Matches(k, v.keymap.PageDown):
		v.scrollTo(v.scrollOffset + v.visibleLines())
	case keymap.Matches(k, v.keymap.Top):
		v.scrollTo(0)
	case keymap.Matches(k, v.keymap.Bottom):
		v.scrollTo(v.maxScrollOffset())
	case keymap.Matches(k, v.keymap.Back), k == "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}
	return v, nil
}

func (v *View) scrollTo(offset int) {
	if offset > v.maxScrollOffset() {
		offset = v.maxScrollOffset()
	}
	if offset < 0 {
		offset = 0
	}
	v.scrollOffset = offset
}

// scrollToFirstMatch positions the first line containing the query near the top.
func (v *View) scrollToFirstMatch() {
	if strings.TrimSpace(v.query) == "" {
		return
	}
	for i, line := range v.lines {
		if fuzzy.HasMatch(line, v.query) {
			v.scrollTo(i - 2)
			return
		}
	}
}

// wrapContent wraps the content to fit the view width, counting runes.
func (v *View) wrapContent() {
	if v.content == "" {
		v.lines = nil
		return
	}

	width := v.width - 4
	if width < 20 {
		width = 20
	}

	raw := strings.Split(v.content, "\n")
	v.lines = make([]string, 0, len(raw))
	for _, line := range raw {
		runes := []rune(line)
		for len(runes) > width {
			v.lines = append(v.lines, string(runes[:width]))
			runes = runes[width:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	available := v.height - 6 // title, separator, position, help
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the transcript view.
func (v *View) View() string {
	var b strings.Builder

	title := "Transcript"
	if v.conversation != nil {
		title = v.conversation.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading transcript..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)"))
	default:
		visible := v.visibleLines()
		end := min(v.scrollOffset+visible, len(v.lines))
		for _, line := range v.lines[v.scrollOffset:end] {
			b.WriteString(v.renderLine(line))
			b.WriteString("\n")
		}
		if len(v.lines) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("\n  Line %d-%d of %d",
				v.scrollOffset+1, end, len(v.lines))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
	return b.String()
}

func (v *View) renderLine(line string) string {
	if strings.HasPrefix(line, "**") {
		return v.styles.Subtitle.Render(line)
	}
	if v.query != "" && fuzzy.HasMatch(line, v.query) {
		return v.styles.HighlightMatches(line, v.query)
	}
	return v.styles.Normal.Render(line)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
	v.scrollTo(v.scrollOffset)
}

// Conversation returns the conversation being shown.
func (v *View) Conversation() *domain.FlatConversation {
	return v.conversation
}

// Content returns the loaded Markdown.
func (v *View) Content() string {
	return v.content
}

// ScrollOffset returns the index of the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
