package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/core/domain"
	"github.com/custodia-labs/chatsift/internal/core/services"
)

var (
	showMarkdown bool
	showOutput   string
)

var showCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "List conversations or print one transcript",
	Long: `Without an ID, lists every loaded conversation in export order.
With an ID, prints that conversation's transcript.

Use --markdown for a Markdown transcript and -o to write it to a file.
When -o names a directory, the file is named after the conversation title.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "print the transcript as Markdown")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "write the Markdown transcript to a file or directory")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if conversationService == nil {
		return errors.New("conversation service not configured")
	}
	if _, err := ensureLoaded(ctxOf(cmd)); err != nil {
		return err
	}

	if len(args) == 0 {
		return listConversations(cmd)
	}

	conv, err := conversationService.Get(ctxOf(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get conversation: %w", err)
	}

	if showOutput != "" {
		return writeTranscript(cmd, conv)
	}
	if showMarkdown {
		fmt.Fprint(cmd.OutOrStdout(), services.RenderMarkdown(conv))
		return nil
	}
	printTranscript(cmd, conv)
	return nil
}

func listConversations(cmd *cobra.Command) error {
	convs, err := conversationService.List(ctxOf(cmd))
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}
	if len(convs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conversations loaded.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Conversations (%d):\n\n", len(convs))
	for _, c := range convs {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %-16s  %s (%d messages)\n", c.ID, formatDate(c.CreatedAt), c.Title, len(c.Messages))
	}
	return nil
}

func printTranscript(cmd *cobra.Command, conv *domain.FlatConversation) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", conv.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "ID: %s\n", conv.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", formatDate(conv.CreatedAt))
	fmt.Fprintf(cmd.OutOrStdout(), "Messages: %d\n", len(conv.Messages))
	if refs := conv.MediaRefs(); len(refs) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Attachments: %d\n", len(refs))
	}

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		fmt.Fprintln(cmd.OutOrStdout())
		label := string(msg.Role)
		if msg.AuthorName != "" {
			label += " (" + msg.AuthorName + ")"
		}
		if !msg.CreatedAt.IsZero() {
			label += "  " + formatDate(msg.CreatedAt)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s]\n", label)
		for _, part := range msg.Parts {
			if part.HasText() {
				fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(part.Text))
			}
			if part.HasMedia() {
				fmt.Fprintf(cmd.OutOrStdout(), "<media: %s>\n", part.MediaRef())
			}
		}
	}
}

func writeTranscript(cmd *cobra.Command, conv *domain.FlatConversation) error {
	target := showOutput
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		target = filepath.Join(target, services.SanitizeFilename(conv.Title)+".md")
	}
	if err := os.WriteFile(target, []byte(services.RenderMarkdown(conv)), 0600); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
	return nil
}
