package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search conversations",
	Long: `Ranks conversations by how well they match every word of the query.

Titles and message text are matched case-insensitively: a whole phrase
hit scores highest, then whole words, then words containing a query word.
A conversation must match every query word to be listed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from search.limit)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if _, err := ensureLoaded(ctxOf(cmd)); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	opts := domain.SearchOptions{Limit: searchLimit, Offset: searchOffset}
	if opts.Limit <= 0 {
		opts.Limit = domain.DefaultSearchLimit
		if settingsService != nil {
			opts.Limit = settingsService.Get().SearchLimit
		}
	}

	resp, err := searchService.Search(ctxOf(cmd), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp, opts.Offset)
}

// searchResultJSON is the JSON shape of one result.
type searchResultJSON struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	Score      float64   `json:"score"`
	MatchCount int       `json:"match_count"`
	Preview    string    `json:"preview"`
}

type searchResponseJSON struct {
	Query                 string             `json:"query"`
	MatchingConversations int                `json:"matching_conversations"`
	TotalMatches          int                `json:"total_matches"`
	Results               []searchResultJSON `json:"results"`
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	out := searchResponseJSON{
		Query:                 resp.Metadata.Query,
		MatchingConversations: resp.Metadata.MatchingConversations,
		TotalMatches:          resp.Metadata.TotalMatches,
		Results:               make([]searchResultJSON, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		out.Results = append(out.Results, searchResultJSON{
			ID:         r.Conversation.ID,
			Title:      r.Conversation.Title,
			CreatedAt:  r.Conversation.CreatedAt,
			Score:      r.Score,
			MatchCount: r.MatchCount,
			Preview:    r.Preview,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse, offset int) error {
	if len(resp.Results) == 0 {
		if resp.Metadata.MatchingConversations > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No results past offset %d (%d conversations match).\n",
				offset, resp.Metadata.MatchingConversations)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d conversations match %q (%d matches)\n\n",
		resp.Metadata.MatchingConversations, resp.Metadata.Query, resp.Metadata.TotalMatches)
	for i, r := range resp.Results {
		conv := r.Conversation
		fmt.Fprintf(cmd.OutOrStdout(), "  [%d] %s (%.2f, %d matches)\n", offset+i+1, conv.Title, r.Score, r.MatchCount)
		fmt.Fprintf(cmd.OutOrStdout(), "      %s  %s\n", conv.ID, formatDate(conv.CreatedAt))
		if r.Preview != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "      %s\n", r.Preview)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	}
	if shown := offset + len(resp.Results); shown < resp.Metadata.MatchingConversations {
		fmt.Fprintf(cmd.OutOrStdout(), "Showing %d-%d of %d. Use --offset %d for more.\n",
			offset+1, shown, resp.Metadata.MatchingConversations, shown)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("2006-01-02 15:04")
}
