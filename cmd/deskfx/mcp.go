package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/deskfx/internal/ipc"
	"github.com/1broseidon/deskfx/internal/mcp"
	"github.com/1broseidon/deskfx/internal/runtimepath"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("mcp requires a subcommand: serve")
		},
	}
	serve := &cobra.Command{
		Use:     "serve",
		Short:   "Start the MCP server (stdio transport)",
		Long:    "Start the MCP server on stdio. Tools answer from the running daemon over its IPC socket.",
		Example: "  claude mcp add deskfx -- deskfx mcp serve",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := opts.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			// stdout carries the protocol.
			logger := opts.logger(res.Config, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer(ipc.NewClient(), logger, runtimepath.SnapshotPath)
			if err := server.Run(ctx); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
	cmd.AddCommand(serve)
	return cmd
}
