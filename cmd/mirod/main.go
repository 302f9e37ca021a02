// Mirod is an MCP server exposing Miro whiteboard operations as tools.
//
// It speaks the Model Context Protocol over stdio: the host reads and writes
// JSON-RPC frames on stdin/stdout, and every tool call is forwarded to the
// Miro v2 REST API. Logs go to stderr.
//
// Configuration is loaded from environment variables (and an optional YAML
// file). See internal/config for details.
//
// Usage:
//
//	MIRO_CLIENT_ID=... MIRO_CLIENT_SECRET=... mirod
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mirod/internal/auth"
	"github.com/fyrsmithlabs/mirod/internal/config"
	"github.com/fyrsmithlabs/mirod/internal/logging"
	"github.com/fyrsmithlabs/mirod/internal/mcp"
	"github.com/fyrsmithlabs/mirod/internal/miro"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mirod: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mirod",
	Short: "MCP server for Miro whiteboard operations",
	Long: `mirod is an MCP server exposing Miro whiteboard operations as tools:
OAuth authentication, board metadata, shape create/update/delete, and
grouping/ungrouping.

It speaks MCP over stdio and is meant to be launched by an MCP host
(Claude Code, Claude Desktop, or any other MCP client).`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mirod by Fyrsmith Labs\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.config/mirod/config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// runServe starts the MCP server and blocks until the host disconnects or a
// shutdown signal arrives.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("starting mirod",
		zap.String("version", version),
		zap.String("api_base_url", cfg.Miro.APIBaseURL),
		zap.Bool("token_persistence", cfg.Miro.TokenFile != ""))

	session, err := auth.NewSession(cfg.Miro, logger.Named("auth"))
	if err != nil {
		return fmt.Errorf("failed to create credential session: %w", err)
	}

	client := miro.NewClient(cfg.Miro, session, logger.Named("miro"))

	server, err := mcp.NewServer(&mcp.Config{
		Name:    "mirod",
		Version: version,
		Logger:  logger.Named("mcp"),
	}, session, client)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("mirod shutdown complete")
	return nil
}
