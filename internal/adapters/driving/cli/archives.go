package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "List previously loaded archives",
	Long:  `Shows the load history recorded by import and the other commands, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runArchives,
}

func init() {
	rootCmd.AddCommand(archivesCmd)
}

func runArchives(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	records, err := ingestService.History(ctxOf(cmd))
	if err != nil {
		return fmt.Errorf("failed to list archives: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archives loaded yet.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Archives:")
	fmt.Fprintln(cmd.OutOrStdout())
	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", rec.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "    Loaded: %s  ID: %s\n", formatDate(rec.LoadedAt), rec.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "    Conversations: %d  Dropped: %d  Media: %d\n", rec.Conversations, rec.Dropped, rec.MediaFiles)
		if len(rec.Checksum) >= 12 {
			fmt.Fprintf(cmd.OutOrStdout(), "    Checksum: %s\n", rec.Checksum[:12])
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
