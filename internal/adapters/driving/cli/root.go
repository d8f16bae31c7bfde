// Package cli provides the cobra command tree for chatsift.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/ports/driving"
	"github.com/custodia-labs/chatsift/internal/logger"
)

var (
	version = "dev"

	verbose     bool
	archivePath string

	searchService       driving.SearchService
	ingestService       driving.IngestService
	conversationService driving.ConversationService
	mediaService        driving.MediaService
	settingsService     driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "chatsift",
	Short: "Search exported ChatGPT conversations",
	Long: `chatsift loads a conversation export (the .zip file, an extracted copy of
it, or a bare conversations.json) and lets you search, read and export
the conversations offline.

Pass --archive on any command, or remember an archive with:
  chatsift import ~/Downloads/export.zip --default`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
	rootCmd.PersistentFlags().StringVarP(&archivePath, "archive", "a", "", "export archive to load (.zip, directory or conversations.json)")
}

// Services holds the driving ports the commands use.
type Services struct {
	Search       driving.SearchService
	Ingest       driving.IngestService
	Conversation driving.ConversationService
	Media        driving.MediaService
	Settings     driving.SettingsService
}

// SetServices injects the core services.
func SetServices(s Services) {
	searchService = s.Search
	ingestService = s.Ingest
	conversationService = s.Conversation
	mediaService = s.Media
	settingsService = s.Settings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command with a background context.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveArchive returns the archive named by --archive, falling back to
// the archive.default setting.
func resolveArchive() string {
	if archivePath != "" {
		return archivePath
	}
	if settingsService != nil {
		return settingsService.Get().DefaultArchive
	}
	return ""
}

// ensureLoaded loads the resolved archive unless it is already the current one.
func ensureLoaded(ctx context.Context) (*domain.ArchiveRecord, error) {
	if ingestService == nil {
		return nil, errors.New("ingest service not configured")
	}

	p := resolveArchive()
	if rec := ingestService.Current(); rec != nil && (p == "" || samePath(rec.Path, p)) {
		return rec, nil
	}
	if p == "" {
		return nil, fmt.Errorf("%w: pass --archive or run 'chatsift import <path> --default'", domain.ErrNoArchive)
	}

	rec, err := ingestService.Load(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("loading archive: %w", err)
	}
	return rec, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
