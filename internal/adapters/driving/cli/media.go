package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var mediaOutput string

var mediaCmd = &cobra.Command{
	Use:   "media <reference>",
	Short: "Export an attachment from the loaded archive",
	Long: `Resolves an attachment reference to a media file of the loaded archive
and writes its bytes to disk.

The reference may be a stored path ("dalle-generations/file-abc-art.webp")
or an asset pointer as it appears in a transcript ("file-service://file-abc").`,
	Args: cobra.ExactArgs(1),
	RunE: runMedia,
}

func init() {
	mediaCmd.Flags().StringVarP(&mediaOutput, "output", "o", "", "output file (default: the stored file name)")
	rootCmd.AddCommand(mediaCmd)
}

func runMedia(cmd *cobra.Command, args []string) error {
	if mediaService == nil {
		return errors.New("media service not configured")
	}
	if _, err := ensureLoaded(ctxOf(cmd)); err != nil {
		return err
	}

	handle, err := mediaService.Resolve(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve media: %w", err)
	}
	data, err := mediaService.Content(handle)
	if err != nil {
		return fmt.Errorf("failed to read media: %w", err)
	}

	target := mediaOutput
	if target == "" {
		target = handle.Filename()
	}
	if err := os.WriteFile(target, data, 0600); err != nil {
		return fmt.Errorf("writing media: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, %s)\n", target, len(data), handle.MIMEType)
	return nil
}
