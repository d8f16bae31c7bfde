package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/views/transcript"
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// searchView is the query input and ranked results.
	searchView *search.View

	// transcriptView shows one conversation.
	transcriptView *transcript.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	limit := domain.DefaultSearchLimit
	if ports.Settings != nil {
		limit = ports.Settings.Get().SearchLimit
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	searchView := search.NewView(s, km, ports.Search, limit)
	if ports.Ingest != nil {
		if rec := ports.Ingest.Current(); rec != nil {
			searchView.SetConversations(rec.Conversations)
		}
	}

	return &App{
		ports:          ports,
		ctx:            context.Background(),
		styles:         s,
		searchView:     searchView,
		transcriptView: transcript.NewView(s, km, ports.Conversation),
		currentView:    messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.transcriptView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("chatsift"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
		case messages.ViewTranscript:
			a.transcriptView, cmd = a.transcriptView.Update(msg)
		}
		return a, cmd

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ConversationSelected:
		a.currentView = messages.ViewTranscript
		return a, a.transcriptView.Open(msg.Conversation, msg.Query)

	case messages.TranscriptLoaded:
		a.transcriptView, cmd = a.transcriptView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ArchiveReloaded:
		return a, a.handleReload(msg)

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	if a.currentView == messages.ViewSearch {
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

// handleReload refreshes the corpus size and re-runs the last query.
func (a *App) handleReload(msg messages.ArchiveReloaded) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		a.searchView.SetStatus("Reload failed: " + msg.Err.Error())
		return nil
	}
	if msg.Record != nil {
		a.searchView.SetConversations(msg.Record.Conversations)
		a.searchView.SetStatus(fmt.Sprintf("Reloaded %d conversations", msg.Record.Conversations))
	}
	return a.searchView.Refresh()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewTranscript {
		return a.transcriptView.View()
	}
	return a.searchView.View()
}

// Run starts the TUI application.
func (a *App) Run() error {
	_, err := a.Program().Run()
	return err
}

// Program builds the Bubbletea program for the app, so callers can send
// messages to it from other goroutines.
func (a *App) Program() *tea.Program {
	return tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Transcript returns the transcript view.
func (a *App) Transcript() *transcript.View {
	return a.transcriptView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.transcriptView.SetDimensions(width, height)
}
