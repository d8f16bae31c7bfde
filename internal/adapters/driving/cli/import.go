package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

var importDefault bool

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Load an export archive and report what it contains",
	Long: `Loads a conversation export, flattens every conversation and records the
load in the archive history. Conversations that cannot be decoded are
skipped and counted as dropped.

Use --default to load this archive automatically in later commands.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDefault, "default", false, "remember this archive as the default")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	rec, err := ingestService.Load(ctxOf(cmd), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d conversations from %s\n", rec.Conversations, rec.Path)
	if rec.Dropped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "  Dropped: %d (run with --verbose for details)\n", rec.Dropped)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Media files: %d\n", rec.MediaFiles)
	fmt.Fprintf(cmd.OutOrStdout(), "  Load ID: %s\n", rec.ID)

	if importDefault {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Set(domain.SettingDefaultArchive, rec.Path); err != nil {
			return fmt.Errorf("saving default archive: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved as default archive.")
	}
	return nil
}
