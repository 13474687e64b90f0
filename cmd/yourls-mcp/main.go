// yourls-mcp — MCP server for a YOURLS URL shortener
//
// Usage:
//
//	yourls-mcp serve              # MCP over stdio (for MCP clients)
//	yourls-mcp serve --http :8090 # MCP over HTTP/SSE
//	yourls-mcp shorten <url>      # one-shot shorten from the terminal
//	yourls-mcp version            # show version
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RobinCoderZhao/yourls-mcp/internal/config"
	"github.com/RobinCoderZhao/yourls-mcp/internal/tools"
	"github.com/RobinCoderZhao/yourls-mcp/internal/yourls"
	"github.com/RobinCoderZhao/yourls-mcp/pkg/mcpserver"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "yourls-mcp",
		Short: "MCP server exposing a YOURLS URL shortener as tools",
		Long: "yourls-mcp connects MCP clients to a YOURLS instance: shortening, expanding, " +
			"stats, and the plugin-backed operations with core-action fallbacks when a plugin " +
			"is not installed.",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./config.yaml, ~/.config/yourls-mcp/config.yaml)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(shortenCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	var httpAddr string
	var authToken string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio by default, HTTP/SSE with --http)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if httpAddr == "" {
				httpAddr = cfg.Server.HTTPAddr
			}
			if authToken == "" {
				authToken = cfg.Server.AuthToken
			}
			return runServe(cfg, httpAddr, authToken)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "serve MCP over HTTP/SSE on this address instead of stdio")
	cmd.Flags().StringVar(&authToken, "auth-token", "", "bearer token required on HTTP requests")
	return cmd
}

func runServe(cfg config.Config, httpAddr, authToken string) error {
	// Stdout carries the protocol in stdio mode; all logging goes to stderr.
	logger := newLogger(cfg.Server.Debug)
	slog.SetDefault(logger)

	client, err := yourls.New(cfg.ClientConfig())
	if err != nil {
		return err
	}

	srv := mcpserver.New("yourls-mcp", version)
	srv.SetLogger(logger)
	srv.Use(mcpserver.RecoveryMiddleware())
	srv.Use(mcpserver.LoggingMiddleware(logger))
	srv.RegisterTools(tools.All(client)...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if httpAddr != "" {
		logger.Info("starting MCP server", "transport", "http", "addr", httpAddr, "yourls", cfg.YOURLS.APIURL)
		return srv.RunHTTP(ctx, httpAddr, authToken)
	}
	logger.Info("starting MCP server", "transport", "stdio", "yourls", cfg.YOURLS.APIURL)
	return srv.RunStdio(ctx)
}

func shortenCmd(configPath *string) *cobra.Command {
	var keyword string
	var title string

	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Shorten one URL from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cfg.Server.Debug))

			client, err := yourls.New(cfg.ClientConfig())
			if err != nil {
				return err
			}

			res, err := client.Shorten(cmd.Context(), args[0], keyword, title, false)
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(res, "", "  ")
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "custom keyword")
	cmd.Flags().StringVarP(&title, "title", "t", "", "link title")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("yourls-mcp %s\n", version)
		},
	}
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
