// Copyright 2026 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serve

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tombee/tfcmcp/internal/commands/shared"
	"github.com/tombee/tfcmcp/internal/config"
	internallog "github.com/tombee/tfcmcp/internal/log"
	"github.com/tombee/tfcmcp/internal/mcp/server"
	"github.com/tombee/tfcmcp/internal/tfc"
)

// NewCommand creates the serve command
func NewCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Terraform Cloud MCP server",
		Long: `Start the Terraform Cloud MCP (Model Context Protocol) server.

The server runs in stdio mode, which is suitable for integration with
AI assistants via their MCP configuration.

Configuration example for Claude Code (~/.config/claude/config.json):
  {
    "mcpServers": {
      "terraform-cloud": {
        "command": "tfcmcp",
        "args": ["serve"],
        "env": {"TFC_TOKEN": "your-token"}
      }
    }
  }

Environment variables:
  TFC_TOKEN              Terraform Cloud API token
  TFC_ADDRESS            API base URL (default: https://app.terraform.io)
  ENABLE_DELETE_TOOLS    Register destructive tools ("true" to enable)
  TFCMCP_FILTER_POLICIES Path to a YAML file overriding response filters

Destructive tools (deletes) are not registered unless ENABLE_DELETE_TOOLS
is set: assistants cannot call what is not registered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on (empty to disable)")

	return cmd
}

func runServe(metricsAddr string) error {
	logger := internallog.New(internallog.FromEnv())

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	client := tfc.New(tfc.Config{
		Address: cfg.Address,
		Token:   cfg.Token,
		Logger:  logger,
	})

	versionStr, _, _ := shared.GetVersion()

	srv, err := server.NewServer(server.ServerConfig{
		Name:              "tfcmcp",
		Version:           versionStr,
		Client:            client,
		Filters:           cfg.Filters,
		EnableDeleteTools: cfg.EnableDeleteTools,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			// stdio carries the protocol; metrics failures only log.
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Warn("metrics server stopped", "error", err.Error())
			}
		}()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	// Run blocks until stdin closes or a signal arrives; ServeStdio
	// handles SIGTERM/SIGINT itself.
	return srv.Run()
}
