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
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/tfcmcp/internal/filter"
	"github.com/tombee/tfcmcp/internal/tfc"
	"github.com/tombee/tfcmcp/internal/tfc/jsonapi"
)

var projectAttrs = map[string]string{
	"name":                           "name",
	"description":                    "description",
	"auto_destroy_activity_duration": "auto-destroy-activity-duration",
}

// tagBindingList converts {key, value} argument objects into JSON:API
// tag-binding resource objects.
func tagBindingList(bindings []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, map[string]any{
			"type": "tag-bindings",
			"attributes": map[string]any{
				"key":   b["key"],
				"value": b["value"],
			},
		})
	}
	return out
}

var tagBindingProp = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key":   map[string]any{"type": "string"},
			"value": map[string]any{"type": "string"},
		},
		"required": []string{"key", "value"},
	},
	"description": "Tag key-value pairs to bind",
}

func (s *Server) registerProjectTools() {
	s.addTool(mcp.Tool{
		Name:        "list_projects",
		Description: "List projects in an organization with pagination, name search and permission filters.",
		InputSchema: schema(map[string]any{
			"organization":                        prop("string", "The organization name"),
			"page_number":                         prop("number", "Page number to fetch (default: 1)"),
			"page_size":                           prop("number", "Number of results per page (default: 20, max: 100)"),
			"q":                                   prop("string", "Search query matching project names"),
			"filter_names":                        prop("string", "Comma-separated list of project names to match exactly"),
			"filter_permissions_update":           prop("boolean", "Only projects the user can update"),
			"filter_permissions_create_workspace": prop("boolean", "Only projects the user can create workspaces in"),
			"sort":                                prop("string", "Sort order: name or -name"),
		}, "organization"),
	}, filter.TagProject, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size")).
			Set("q", args.str("q")).
			Filter("names", args.str("filter_names")).
			Set("sort", args.str("sort"))
		if _, ok := args["filter_permissions_update"]; ok {
			query.Filter("permissions[update]", strconv.FormatBool(args.boolArg("filter_permissions_update")))
		}
		if _, ok := args["filter_permissions_create_workspace"]; ok {
			query.Filter("permissions[create-workspace]", strconv.FormatBool(args.boolArg("filter_permissions_create_workspace")))
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "organizations/" + org + "/projects",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_project_details",
		Description: "Get details for a project, including its configuration, tag bindings and workspace count.",
		InputSchema: schema(map[string]any{
			"project_id": prop("string", "The project ID (format: prj-xxxxxxxx)"),
		}, "project_id"),
	}, filter.TagProject, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("project_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "projects/" + id})
	})

	s.addTool(mcp.Tool{
		Name:        "create_project",
		Description: "Create a new project in an organization to group workspaces.",
		InputSchema: schema(map[string]any{
			"organization":                   prop("string", "The organization name"),
			"name":                           prop("string", "The project name"),
			"description":                    prop("string", "Human-readable description"),
			"auto_destroy_activity_duration": prop("string", "How long each workspace waits before auto-destroying (e.g. 14d, 24h)"),
			"tag_bindings":                   tagBindingProp,
		}, "organization", "name"),
	}, filter.TagProject, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		if _, err := args.requireStr("name"); err != nil {
			return nil, err
		}
		payload := jsonapi.NewPayload("projects", args.attrs(projectAttrs))
		if bindings := args.objList("tag_bindings"); len(bindings) > 0 {
			payload.WithRelationshipData("tag-bindings", tagBindingList(bindings))
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "organizations/" + org + "/projects",
			Body:   payload,
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_project",
		Description: "Update a project's settings. Only supplied attributes change.",
		InputSchema: schema(map[string]any{
			"project_id":                     prop("string", "The project ID (format: prj-xxxxxxxx)"),
			"name":                           prop("string", "New project name"),
			"description":                    prop("string", "Human-readable description"),
			"auto_destroy_activity_duration": prop("string", "How long each workspace waits before auto-destroying (e.g. 14d, 24h)"),
			"tag_bindings":                   tagBindingProp,
		}, "project_id"),
	}, filter.TagProject, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("project_id")
		if err != nil {
			return nil, err
		}
		payload := jsonapi.NewPayload("projects", args.attrs(projectAttrs))
		if bindings := args.objList("tag_bindings"); len(bindings) > 0 {
			payload.WithRelationshipData("tag-bindings", tagBindingList(bindings))
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "projects/" + id,
			Body:   payload,
		})
	})

	s.addTool(mcp.Tool{
		Name:        "list_project_tag_bindings",
		Description: "List the tags bound to a project. Workspaces in the project inherit them.",
		InputSchema: schema(map[string]any{
			"project_id": prop("string", "The project ID (format: prj-xxxxxxxx)"),
		}, "project_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("project_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "projects/" + id + "/tag-bindings"})
	})

	s.addTool(mcp.Tool{
		Name:        "add_update_project_tag_bindings",
		Description: "Add or update tag bindings on a project. Existing tags are not removed.",
		InputSchema: schema(map[string]any{
			"project_id":   prop("string", "The project ID (format: prj-xxxxxxxx)"),
			"tag_bindings": tagBindingProp,
		}, "project_id", "tag_bindings"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("project_id")
		if err != nil {
			return nil, err
		}
		bindings := args.objList("tag_bindings")
		if len(bindings) == 0 {
			return nil, &tfc.Error{Kind: tfc.KindValidation, Message: "tag_bindings is required"}
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "projects/" + id + "/tag-bindings",
			Body:   map[string]any{"data": tagBindingList(bindings)},
		})
	})

	s.addTool(mcp.Tool{
		Name:        "move_workspaces_to_project",
		Description: "Move one or more workspaces into a project. Requires move permission on both source and destination projects.",
		InputSchema: schema(map[string]any{
			"project_id":    prop("string", "The destination project ID (format: prj-xxxxxxxx)"),
			"workspace_ids": listProp("Workspace IDs to move (format: ws-xxxxxxxx)"),
		}, "project_id", "workspace_ids"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("project_id")
		if err != nil {
			return nil, err
		}
		ids := args.strList("workspace_ids")
		if len(ids) == 0 {
			return nil, &tfc.Error{Kind: tfc.KindValidation, Message: "workspace_ids is required"}
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "projects/" + id + "/relationships/workspaces",
			Body:   jsonapi.RelationshipList("workspaces", ids),
		})
	})

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_project",
			Description: "Delete a project. Fails if the project still contains workspaces or stacks.",
			InputSchema: schema(map[string]any{
				"project_id": prop("string", "The project ID (format: prj-xxxxxxxx)"),
			}, "project_id"),
		}, filter.TagProject, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			id, err := args.requireStr("project_id")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{Method: "DELETE", Path: "projects/" + id})
		})
	}
}
