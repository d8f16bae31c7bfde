package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatsift/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
and read your conversations.

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead, for example to test with MCP Inspector.

Exposed to clients:
  search                        tool: ranked search with previews
  transcript                    tool: Markdown transcript by ID
  chatsift://archive            resource: the loaded archive
  chatsift://conversations      resource: every conversation
  chatsift://conversations/{id} resource: one transcript

Examples:
  chatsift mcp serve --archive ~/Downloads/export.zip
  chatsift mcp serve --port 8080 --watch

Client configuration:
  {
    "mcpServers": {
      "chatsift": {
        "command": "/path/to/chatsift",
        "args": ["mcp", "serve", "--archive", "/path/to/export.zip"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolP("watch", "w", false, "reload the archive when it changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watchArchive, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}
	if searchService == nil {
		return errors.New("search service not configured")
	}

	rec, err := ensureLoaded(ctxOf(cmd))
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:       searchService,
		Conversation: conversationService,
		Ingest:       ingestService,
	})
	if err != nil {
		return err
	}

	if watchArchive {
		w, err := startWatcher(ctxOf(cmd), rec.Path, nil)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctxOf(cmd), addr)
	}

	return server.Run(ctxOf(cmd))
}
