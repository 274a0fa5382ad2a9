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

var runAttrs = map[string]string{
	"message":           "message",
	"is_destroy":        "is-destroy",
	"auto_apply":        "auto-apply",
	"refresh":           "refresh",
	"refresh_only":      "refresh-only",
	"plan_only":         "plan-only",
	"allow_empty_apply": "allow-empty-apply",
	"target_addrs":      "target-addrs",
	"replace_addrs":     "replace-addrs",
	"terraform_version": "terraform-version",
	"save_plan":         "save-plan",
	"debugging_mode":    "debugging-mode",
}

// runListQuery builds the filter/search parameters shared by both run
// listing endpoints.
func runListQuery(args arguments) *jsonapi.Query {
	return jsonapi.NewQuery().
		Page(args.intArg("page_number"), args.intArg("page_size")).
		Filter("operation", args.str("filter_operation")).
		Filter("status", args.str("filter_status")).
		Filter("source", args.str("filter_source")).
		Filter("status_group", args.str("filter_status_group")).
		Filter("timeframe", args.str("filter_timeframe")).
		Filter("agent_pool_names", args.str("filter_agent_pool_names")).
		Search("user", args.str("search_user")).
		Search("commit", args.str("search_commit")).
		Search("basic", args.str("search_basic"))
}

func runListProps() map[string]any {
	return map[string]any{
		"page_number":             prop("number", "Page number to fetch (default: 1)"),
		"page_size":               prop("number", "Number of results per page (default: 20)"),
		"filter_operation":        prop("string", "Filter by operation type"),
		"filter_status":           prop("string", "Filter by run status"),
		"filter_source":           prop("string", "Filter by run source"),
		"filter_status_group":     prop("string", "Filter by status group"),
		"filter_timeframe":        prop("string", "Filter by timeframe"),
		"filter_agent_pool_names": prop("string", "Filter by agent pool names"),
		"search_user":             prop("string", "Search by VCS username"),
		"search_commit":           prop("string", "Search by commit SHA"),
		"search_basic":            prop("string", "Search across run ID, message, commit SHA and username"),
	}
}

func (s *Server) registerRunTools() {
	s.addTool(mcp.Tool{
		Name:        "create_run",
		Description: "Create a new run in a workspace: a single plan-and-apply execution queued per the workspace's settings.",
		InputSchema: schema(map[string]any{
			"workspace_id":             prop("string", "The workspace ID to run in (format: ws-xxxxxxxx)"),
			"message":                  prop("string", "Description of the run's purpose"),
			"is_destroy":               prop("boolean", "Destroy all resources managed by the workspace"),
			"auto_apply":               prop("boolean", "Auto-apply after a successful plan"),
			"refresh":                  prop("boolean", "Refresh state before planning"),
			"refresh_only":             prop("boolean", "Only refresh state, plan no changes"),
			"plan_only":                prop("boolean", "Create a speculative plan that cannot be applied"),
			"allow_empty_apply":        prop("boolean", "Allow applying when there are no changes"),
			"target_addrs":             listProp("Resource addresses to target"),
			"replace_addrs":            listProp("Resource addresses to force replacement of"),
			"terraform_version":        prop("string", "Terraform version for this run (plan-only runs)"),
			"save_plan":                prop("boolean", "Save the plan for later execution"),
			"debugging_mode":           prop("boolean", "Enable extended debug logging"),
			"configuration_version_id": prop("string", "Configuration version to run (format: cv-xxxxxxxx)"),
			"variables": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"key":   map[string]any{"type": "string"},
						"value": map[string]any{"type": "string"},
					},
					"required": []string{"key", "value"},
				},
				"description": "Run-specific variables overriding workspace variables",
			},
		}, "workspace_id"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		workspaceID, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		attrs := args.attrs(runAttrs)
		if vars := args.objList("variables"); len(vars) > 0 {
			runVars := make([]map[string]any, 0, len(vars))
			for _, v := range vars {
				runVars = append(runVars, map[string]any{"key": v["key"], "value": v["value"]})
			}
			attrs["variables"] = runVars
		}
		payload := jsonapi.NewPayload("runs", attrs).
			WithRelationship("workspace", "workspaces", workspaceID)
		if cvID := args.str("configuration_version_id"); cvID != "" {
			payload.WithRelationship("configuration-version", "configuration-versions", cvID)
		}
		return s.client.Do(ctx, &tfc.Request{Method: "POST", Path: "runs", Body: payload})
	})

	s.addTool(mcp.Tool{
		Name:        "list_runs_in_workspace",
		Description: "List run history for a workspace with status, source and operation filters.",
		InputSchema: schema(mergeProps(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, runListProps()), "workspace_id"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "workspaces/" + id + "/runs",
			Query:  runListQuery(args).Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "list_runs_in_organization",
		Description: "List runs across all workspaces in an organization, for auditing and monitoring deployments.",
		InputSchema: schema(mergeProps(map[string]any{
			"organization":           prop("string", "The organization name"),
			"filter_workspace_names": prop("string", "Filter by workspace names"),
		}, runListProps()), "organization"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		query := runListQuery(args).
			Filter("workspace_names", args.str("filter_workspace_names"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "organizations/" + org + "/runs",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_run_details",
		Description: "Get details for a run, including status, plan summary and related resources.",
		InputSchema: schema(map[string]any{
			"run_id": prop("string", "The run ID (format: run-xxxxxxxx)"),
		}, "run_id"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("run_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "runs/" + id})
	})

	s.addRunAction("apply_run", "apply",
		"Apply a run that finished planning and is waiting for confirmation.")
	s.addRunAction("discard_run", "discard",
		"Discard a run without applying its changes, unlocking the workspace.")
	s.addRunAction("cancel_run", "cancel",
		"Gracefully stop a run that is currently planning or applying.")
	s.addRunAction("force_cancel_run", "force-cancel",
		"Immediately terminate a run that did not respond to a normal cancel. Last resort.")

	s.addTool(mcp.Tool{
		Name:        "force_execute_run",
		Description: "Promote a queued run to execute now by canceling the runs ahead of it.",
		InputSchema: schema(map[string]any{
			"run_id": prop("string", "The run ID (format: run-xxxxxxxx)"),
		}, "run_id"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("run_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "POST", Path: "runs/" + id + "/actions/force-execute"})
	})
}

// addRunAction registers one of the run lifecycle actions that share the
// same shape: POST runs/{id}/actions/{action} with an optional comment.
func (s *Server) addRunAction(toolName, action, description string) {
	s.addTool(mcp.Tool{
		Name:        toolName,
		Description: description,
		InputSchema: schema(map[string]any{
			"run_id":  prop("string", "The run ID (format: run-xxxxxxxx)"),
			"comment": prop("string", "Optional comment explaining the action"),
		}, "run_id"),
	}, filter.TagRun, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("run_id")
		if err != nil {
			return nil, err
		}
		var body any
		if comment := args.str("comment"); comment != "" {
			body = map[string]any{"comment": comment}
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "runs/" + id + "/actions/" + action,
			Body:   body,
		})
	})
}
