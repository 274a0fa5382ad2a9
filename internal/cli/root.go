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

// Package cli wires the root Cobra command for tfcmcp.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/tfcmcp/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for tfcmcp
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tfcmcp",
		Short: "tfcmcp - Terraform Cloud MCP server",
		Long: `tfcmcp exposes the Terraform Cloud API as MCP (Model Context Protocol)
tools for AI assistants: workspaces, runs, plans, applies, state, and
variables, with responses filtered to what an assistant actually needs.

Run 'tfcmcp serve' to start the stdio server. Authentication uses the
TFC_TOKEN environment variable; TFC_ADDRESS points at a Terraform
Enterprise install when not using app.terraform.io.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	json := shared.RegisterFlagPointers()
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")

	return cmd
}
