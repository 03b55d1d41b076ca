package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/applyserver"
	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP tool server",
	Long: `Start the MCP tool server on MCP_PORT (default 8891).

Exposes every operation as an MCP tool: parse_resume, profile_resume,
export_resume, fetch_job, search_jobs, ats_check, ats_check_complete,
tailor_resume, generate_cover_letter, prepare_application,
confirm_application, cancel_application, track_applications.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() { rootCmd.AddCommand(serveCmd) }

func runServe(ctx context.Context) error {
	st, err := store.Open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	port := env.Str("MCP_PORT", "8891")
	slog.Info("starting go_apply",
		slog.String("version", rootCmd.Version),
		slog.String("port", port),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_apply",
		Version: rootCmd.Version,
	}, nil)

	applyserver.RegisterTools(server, st)
	slog.Info("tools registered", slog.Int("count", 13))

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "go_apply",
		Version:      rootCmd.Version,
		Port:         port,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
}
