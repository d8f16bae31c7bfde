// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 3

// ResultList displays ranked conversations in a navigable list.
type ResultList struct {
	results  []domain.SearchResult
	query    string
	total    int
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 12,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		if r.query == "" {
			return r.styles.Muted.Render("Type a query and press enter")
		}
		return r.styles.Muted.Render(fmt.Sprintf("No conversations match %q", r.query))
	}

	header := fmt.Sprintf("%d conversations", r.total)
	if r.total > len(r.results) {
		header = fmt.Sprintf("Top %d of %d conversations", len(r.results), r.total)
	}
	lines := []string{r.styles.Subtitle.Render(header), ""}

	visible := (r.height - 2) / linesPerResult
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one result as a title line, a date line and a preview.
func (r *ResultList) renderResult(index int, result *domain.SearchResult) string {
	conv := result.Conversation

	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	titleWidth := r.width - 24
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := Truncate(conv.Title, titleWidth)
	score := fmt.Sprintf("%.2f · %d hits", result.Score, result.MatchCount)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s %s", indicator, titleWidth, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s ", indicator, titleWidth, title)) +
			r.styles.Muted.Render(score)
	}

	date := "    " + formatDate(conv)
	preview := "    " + r.styles.HighlightMatches(Truncate(oneLine(result.Preview), r.width-6), r.query)

	return titleLine + "\n" + r.styles.Muted.Render(date) + "\n" + preview
}

func formatDate(conv *domain.FlatConversation) string {
	if conv.CreatedAt.IsZero() {
		return "unknown date"
	}
	return conv.CreatedAt.Local().Format("Jan 2, 2006 15:04")
}

// oneLine collapses whitespace runs so a preview fits on a single row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResponse replaces the list with a new search response.
func (r *ResultList) SetResponse(query string, resp *domain.SearchResponse) {
	r.query = query
	r.selected = 0
	r.results = nil
	r.total = 0
	if resp != nil {
		r.results = resp.Results
		r.total = resp.Metadata.MatchingConversations
	}
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Query returns the query the results belong to.
func (r *ResultList) Query() string {
	return r.query
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
