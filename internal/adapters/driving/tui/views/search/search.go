// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
)

// View is the search view: query input, ranked results and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ctx           context.Context
	limit         int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a query, false = browsing results
}

// NewView creates a new search view. limit caps the results per query;
// zero means no cap.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	limit int,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		limit:         limit,
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(query)
		case tea.KeyEsc:
			if v.list.Count() > 0 {
				v.browse()
			}
			return v, nil
		default:
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Open):
		if result := v.list.SelectedResult(); result != nil {
			conv, query := result.Conversation, v.list.Query()
			return v, func() tea.Msg {
				return messages.ConversationSelected{Conversation: conv, Query: query}
			}
		}
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewSearch), keymap.Matches(msg.String(), v.keymap.Back):
		v.focusInput = true
		v.statusbar.SetState(status.StateReady)
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Quit):
		return v, tea.Quit
	}

	return v, nil
}

// performSearch runs the query against the search service.
func (v *View) performSearch(query string) tea.Cmd {
	ctx, svc, limit := v.ctx, v.searchService, v.limit
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		resp, err := svc.Search(ctx, query, domain.SearchOptions{Limit: limit})
		return messages.SearchCompleted{Query: query, Response: resp, Err: err}
	}
}

// Refresh re-runs the last query, for example after the archive reloaded.
func (v *View) Refresh() tea.Cmd {
	query := v.list.Query()
	if query == "" {
		return nil
	}
	return v.performSearch(query)
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResponse(msg.Query, msg.Response)
	v.statusbar.SetResultCount(v.list.Count())
	if v.list.Count() > 0 {
		v.browse()
	} else {
		v.statusbar.SetState(status.StateReady)
	}
}

func (v *View) browse() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateResults)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("chatsift"), "",
		v.input.View(), "",
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-9) // header, input box, status
	v.statusbar.SetWidth(width)
}

// SetConversations updates the corpus size shown in the status bar.
func (v *View) SetConversations(n int) {
	v.statusbar.SetConversations(n)
}

// SetStatus shows a transient message in the status bar.
func (v *View) SetStatus(message string) {
	v.statusbar.SetMessage(message)
}

// Query returns the current input value.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the input value.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
