package cli

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/watch"
	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// startWatcher reloads the archive at path through the ingest service
// whenever it changes, until ctx is cancelled or the watcher is closed.
func startWatcher(
	ctx context.Context, path string, onReload func(*domain.ArchiveRecord, error),
) (*watch.Watcher, error) {
	w, err := watch.New(path, ingestService, watch.Options{OnReload: onReload})
	if err != nil {
		return nil, fmt.Errorf("watching archive: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("watching archive: %w", err)
	}
	logger.Info("Watching %s for changes", w.Path())
	return w, nil
}
