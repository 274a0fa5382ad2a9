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

package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/tfcmcp/internal/filter"
	"github.com/tombee/tfcmcp/internal/tfc"
	"github.com/tombee/tfcmcp/internal/tfc/jsonapi"
)

var workspaceAttrs = map[string]string{
	"name":                           "name",
	"description":                    "description",
	"execution_mode":                 "execution-mode",
	"agent_pool_id":                  "agent-pool-id",
	"assessments_enabled":            "assessments-enabled",
	"auto_apply":                     "auto-apply",
	"auto_apply_run_trigger":         "auto-apply-run-trigger",
	"auto_destroy_at":                "auto-destroy-at",
	"auto_destroy_activity_duration": "auto-destroy-activity-duration",
	"file_triggers_enabled":          "file-triggers-enabled",
	"working_directory":              "working-directory",
	"speculative_enabled":            "speculative-enabled",
	"terraform_version":              "terraform-version",
	"global_remote_state":            "global-remote-state",
	"allow_destroy_plan":             "allow-destroy-plan",
	"queue_all_runs":                 "queue-all-runs",
	"source_name":                    "source-name",
	"source_url":                     "source-url",
	"trigger_prefixes":               "trigger-prefixes",
	"trigger_patterns":               "trigger-patterns",
	"vcs_repo":                       "vcs-repo",
	"tags_regex":                     "tags-regex",
}

func workspaceSettingsProps() map[string]any {
	return map[string]any{
		"description":                    prop("string", "Human-readable description"),
		"execution_mode":                 prop("string", "Execution mode: remote, local or agent"),
		"agent_pool_id":                  prop("string", "Agent pool ID, required for agent execution mode"),
		"assessments_enabled":            prop("boolean", "Enable health assessments"),
		"auto_apply":                     prop("boolean", "Automatically apply successful plans"),
		"auto_apply_run_trigger":         prop("boolean", "Automatically apply runs triggered by other workspaces"),
		"auto_destroy_at":                prop("string", "Timestamp to destroy all resources at"),
		"auto_destroy_activity_duration": prop("string", "How long to wait before auto-destroying (e.g. 14d, 24h)"),
		"file_triggers_enabled":          prop("boolean", "Trigger runs when tracked files change"),
		"working_directory":              prop("string", "Directory Terraform executes in"),
		"speculative_enabled":            prop("boolean", "Allow speculative plans"),
		"terraform_version":              prop("string", "Terraform version to run (e.g. 1.9.0)"),
		"global_remote_state":            prop("boolean", "Allow all workspaces in the organization to read this state"),
		"allow_destroy_plan":             prop("boolean", "Allow destroy plans"),
		"queue_all_runs":                 prop("boolean", "Queue runs immediately instead of waiting for a confirmation"),
		"source_name":                    prop("string", "Friendly name of the workspace source"),
		"source_url":                     prop("string", "URL of the workspace source"),
		"trigger_prefixes":               listProp("Path prefixes that trigger runs"),
		"trigger_patterns":               listProp("Glob patterns that trigger runs"),
		"vcs_repo": map[string]any{
			"type":        "object",
			"description": "VCS repository settings: branch, identifier, ingress-submodules, oauth-token-id, github-app-installation-id, tags-regex",
		},
	}
}

func (s *Server) registerWorkspaceTools() {
	s.addTool(mcp.Tool{
		Name:        "list_workspaces",
		Description: "List workspaces in an organization with pagination and substring search.",
		InputSchema: schema(map[string]any{
			"organization": prop("string", "The organization name"),
			"page_number":  prop("number", "Page number to fetch (default: 1)"),
			"page_size":    prop("number", "Number of results per page (default: 20, max: 100)"),
			"search":       prop("string", "Substring to match against workspace names"),
		}, "organization"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size")).
			Set("search", args.str("search"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "organizations/" + org + "/workspaces",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_workspace_details",
		Description: "Get details for a workspace, identified either by workspace ID or by organization and workspace name.",
		InputSchema: schema(map[string]any{
			"workspace_id":   prop("string", "The workspace ID (format: ws-xxxxxxxx); mutually exclusive with organization + workspace_name"),
			"organization":   prop("string", "The organization name, used with workspace_name"),
			"workspace_name": prop("string", "The workspace name, used with organization"),
		}),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		path, err := workspacePath(args)
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: path})
	})

	s.addTool(mcp.Tool{
		Name:        "create_workspace",
		Description: "Create a new workspace in an organization.",
		InputSchema: schema(mergeProps(map[string]any{
			"organization": prop("string", "The organization name"),
			"name":         prop("string", "The workspace name"),
		}, workspaceSettingsProps()), "organization", "name"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		if _, err := args.requireStr("name"); err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "organizations/" + org + "/workspaces",
			Body:   jsonapi.NewPayload("workspaces", args.attrs(workspaceAttrs)),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_workspace",
		Description: "Update an existing workspace's settings. Only supplied attributes change.",
		InputSchema: schema(mergeProps(map[string]any{
			"organization":   prop("string", "The organization name"),
			"workspace_name": prop("string", "The workspace to update"),
			"name":           prop("string", "New workspace name"),
		}, workspaceSettingsProps()), "organization", "workspace_name"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		name, err := args.requireStr("workspace_name")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "organizations/" + org + "/workspaces/" + name,
			Body:   jsonapi.NewPayload("workspaces", args.attrs(workspaceAttrs)),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "lock_workspace",
		Description: "Lock a workspace to prevent new runs from starting.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			"reason":       prop("string", "Optional reason for the lock"),
		}, "workspace_id"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		var body any
		if reason := args.str("reason"); reason != "" {
			body = map[string]any{"reason": reason}
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "workspaces/" + id + "/actions/lock",
			Body:   body,
		})
	})

	s.addTool(mcp.Tool{
		Name:        "unlock_workspace",
		Description: "Unlock a workspace locked by the current user.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, "workspace_id"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "POST", Path: "workspaces/" + id + "/actions/unlock"})
	})

	s.addTool(mcp.Tool{
		Name:        "force_unlock_workspace",
		Description: "Force unlock a workspace regardless of who holds the lock. Use with caution.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, "workspace_id"),
	}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "POST", Path: "workspaces/" + id + "/actions/force-unlock"})
	})

	s.addTool(mcp.Tool{
		Name:        "get_data_retention_policy",
		Description: "Get the data retention policy for a workspace.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, "workspace_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "workspaces/" + id + "/relationships/data-retention-policy",
		})
	})

	s.addTool(mcp.Tool{
		Name:        "set_data_retention_policy",
		Description: "Set a data retention policy on a workspace, deleting state and run data older than the given number of days.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			"days":         prop("number", "Number of days to retain data"),
		}, "workspace_id", "days"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "workspaces/" + id + "/relationships/data-retention-policy",
			Body: jsonapi.NewPayload("data-retention-policy", map[string]any{
				"days": args.intArg("days"),
			}),
		})
	})

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_workspace",
			Description: "Delete a workspace and everything it contains. This cannot be undone.",
			InputSchema: schema(map[string]any{
				"organization":   prop("string", "The organization name"),
				"workspace_name": prop("string", "The workspace to delete"),
			}, "organization", "workspace_name"),
		}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			org, err := args.requireStr("organization")
			if err != nil {
				return nil, err
			}
			name, err := args.requireStr("workspace_name")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{
				Method: "DELETE",
				Path:   "organizations/" + org + "/workspaces/" + name,
			})
		})

		s.addTool(mcp.Tool{
			Name:        "safe_delete_workspace",
			Description: "Delete a workspace only if it is not managing any resources.",
			InputSchema: schema(map[string]any{
				"organization":   prop("string", "The organization name"),
				"workspace_name": prop("string", "The workspace to delete"),
			}, "organization", "workspace_name"),
		}, filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			org, err := args.requireStr("organization")
			if err != nil {
				return nil, err
			}
			name, err := args.requireStr("workspace_name")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{
				Method: "POST",
				Path:   "organizations/" + org + "/workspaces/" + name + "/actions/safe-delete",
			})
		})

		s.addTool(mcp.Tool{
			Name:        "delete_data_retention_policy",
			Description: "Remove the data retention policy from a workspace.",
			InputSchema: schema(map[string]any{
				"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			}, "workspace_id"),
		}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			id, err := args.requireStr("workspace_id")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{
				Method: "DELETE",
				Path:   "workspaces/" + id + "/relationships/data-retention-policy",
			})
		})
	}
}

// workspacePath resolves the two accepted ways of naming a workspace:
// by ID, or by organization plus workspace name.
func workspacePath(args arguments) (string, error) {
	if id := args.str("workspace_id"); id != "" {
		return "workspaces/" + id, nil
	}
	org := args.str("organization")
	name := args.str("workspace_name")
	if org == "" || name == "" {
		return "", &tfc.Error{
			Kind:    tfc.KindValidation,
			Message: "either workspace_id or both organization and workspace_name are required",
		}
	}
	return "organizations/" + org + "/workspaces/" + name, nil
}

// mergeProps overlays extra schema properties onto base.
func mergeProps(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
