package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/chatsift/internal/core/domain"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("tui requires an interactive terminal")

var tuiWatch bool

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive search interface.

Controls:
  Enter    - Search / open the selected conversation
  ↑/k, ↓/j - Navigate results or scroll a transcript
  /, n     - New search
  Esc      - Back
  q        - Quit

With --watch the archive is reloaded when the file changes on disk and
the current search is re-run.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload the archive when it changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if !isTerminal() {
		return errNotTerminal
	}

	rec, err := ensureLoaded(ctxOf(cmd))
	if err != nil {
		return err
	}

	ports := tui.NewPorts(searchService, conversationService)
	ports.Ingest = ingestService
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctxOf(cmd))
	p := app.Program()

	if tuiWatch {
		w, err := startWatcher(ctxOf(cmd), rec.Path, func(rec *domain.ArchiveRecord, err error) {
			p.Send(messages.ArchiveReloaded{Record: rec, Err: err})
		})
		if err != nil {
			return err
		}
		defer w.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
