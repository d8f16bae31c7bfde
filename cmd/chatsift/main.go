// Command chatsift searches exported ChatGPT conversations offline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/chatsift/internal/adapters/driven/archive"
	"github.com/custodia-labs/chatsift/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chatsift/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatsift/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/chatsift/internal/adapters/driving/cli"
	"github.com/custodia-labs/chatsift/internal/core/ports/driven"
	"github.com/custodia-labs/chatsift/internal/core/services"
	"github.com/custodia-labs/chatsift/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitCodeError       = 1
	exitCodeInterrupted = 130 // 128 + SIGINT
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	closeStores, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatsift: %v\n", err)
		return exitCodeError
	}
	defer closeStores()

	if err := cli.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() == context.Canceled {
			return exitCodeInterrupted
		}
		return exitCodeError
	}
	return 0
}

// wire builds the adapters and services and hands them to the CLI.
// The returned func releases the stores.
func wire() (func(), error) {
	dir, err := file.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}

	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(dir); err == nil {
		configStore = store
	} else {
		logger.Warn("config unavailable, using defaults: %v", err)
		configStore = memory.NewDefaultConfigStore()
	}

	var archiveStore driven.ArchiveStore
	closeStores := func() {}
	if store, err := sqlite.NewStore(filepath.Join(dir, "data")); err == nil {
		archiveStore = store.ArchiveStore()
		closeStores = func() { _ = store.Close() }
	} else {
		logger.Warn("archive history unavailable, keeping it in memory: %v", err)
		archiveStore = memory.NewArchiveStore()
	}

	settingsService := services.NewSettingsService(configStore)
	corpus := services.NewCorpus()

	searchService := services.NewSearchService(corpus)
	searchService.Configure(settingsService.Get())

	mediaStore := memory.NewMediaStore()
	ingestService := services.NewIngestService(archive.NewReader(), mediaStore, corpus)
	ingestService.SetArchiveStore(archiveStore)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Search:       searchService,
		Ingest:       ingestService,
		Conversation: services.NewConversationService(corpus),
		Media:        services.NewMediaService(mediaStore),
		Settings:     settingsService,
	})
	return closeStores, nil
}
