// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/styles"
)

// maxQueryLength bounds the query a user can type.
const maxQueryLength = 256

// SearchInput wraps a bubbles textinput for query entry.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewSearchInput creates a focused query input.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search conversations..."
	ti.Prompt = "› "
	ti.CharLimit = maxQueryLength
	ti.Focus()

	in := &SearchInput{textinput: ti, styles: s}
	in.SetWidth(60)
	return in
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input with its label.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search")
	box := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, " ", box)
}

// Value returns the current query.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue replaces the query.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
}

// Focus gives the input keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sizes the text field to fit width, including label and border.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	field := width - 14
	if field < 20 {
		field = 20
	}
	s.textinput.Width = field
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}
