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

var variableAttrs = map[string]string{
	"key":         "key",
	"value":       "value",
	"description": "description",
	"category":    "category",
	"hcl":         "hcl",
	"sensitive":   "sensitive",
}

var variableSetAttrs = map[string]string{
	"name":        "name",
	"description": "description",
	"global":      "global",
	"priority":    "priority",
}

func variableProps() map[string]any {
	return map[string]any{
		"value":       prop("string", "Variable value"),
		"description": prop("string", "Description of the variable"),
		"hcl":         prop("boolean", "Whether the value is HCL code (terraform variables only)"),
		"sensitive":   prop("boolean", "Whether the value is sensitive and hidden from output"),
	}
}

func (s *Server) registerVariableTools() {
	s.registerWorkspaceVariableTools()
	s.registerVariableSetTools()
	s.registerVariableSetVariableTools()
}

func (s *Server) registerWorkspaceVariableTools() {
	s.addTool(mcp.Tool{
		Name:        "list_workspace_variables",
		Description: "List all Terraform and environment variables configured for a workspace.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, "workspace_id"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "workspaces/" + id + "/vars"})
	})

	s.addTool(mcp.Tool{
		Name:        "create_workspace_variable",
		Description: "Create a Terraform or environment variable in a workspace.",
		InputSchema: schema(mergeProps(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			"key":          prop("string", "The variable name"),
			"category":     prop("string", "Variable category: terraform or env"),
		}, variableProps()), "workspace_id", "key", "category"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		if _, err := args.requireStr("key"); err != nil {
			return nil, err
		}
		if _, err := args.requireStr("category"); err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "workspaces/" + id + "/vars",
			Body:   jsonapi.NewPayload("vars", args.attrs(variableAttrs)),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_workspace_variable",
		Description: "Update a workspace variable. Only supplied attributes change.",
		InputSchema: schema(mergeProps(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			"variable_id":  prop("string", "The variable ID (format: var-xxxxxxxx)"),
			"key":          prop("string", "New variable name"),
			"category":     prop("string", "Variable category: terraform or env"),
		}, variableProps()), "workspace_id", "variable_id"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		workspaceID, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		variableID, err := args.requireStr("variable_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "workspaces/" + workspaceID + "/vars/" + variableID,
			Body:   jsonapi.NewPayload("vars", args.attrs(variableAttrs)),
		})
	})

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_workspace_variable",
			Description: "Permanently remove a variable from a workspace. This cannot be undone.",
			InputSchema: schema(map[string]any{
				"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
				"variable_id":  prop("string", "The variable ID (format: var-xxxxxxxx)"),
			}, "workspace_id", "variable_id"),
		}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			workspaceID, err := args.requireStr("workspace_id")
			if err != nil {
				return nil, err
			}
			variableID, err := args.requireStr("variable_id")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{
				Method: "DELETE",
				Path:   "workspaces/" + workspaceID + "/vars/" + variableID,
			})
		})
	}
}

func (s *Server) registerVariableSetTools() {
	s.addTool(mcp.Tool{
		Name:        "list_variable_sets",
		Description: "List variable sets in an organization. Variable sets reuse variables across workspaces.",
		InputSchema: schema(map[string]any{
			"organization": prop("string", "The organization name"),
			"page_number":  prop("number", "Page number to fetch (default: 1)"),
			"page_size":    prop("number", "Number of results per page (default: 20, max: 100)"),
		}, "organization"),
	}, filter.TagVariableSet, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "organizations/" + org + "/varsets",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_variable_set",
		Description: "Get details for a variable set, including its variables and workspace assignments.",
		InputSchema: schema(map[string]any{
			"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
		}, "varset_id"),
	}, filter.TagVariableSet, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "varsets/" + id})
	})

	s.addTool(mcp.Tool{
		Name:        "create_variable_set",
		Description: "Create a variable set in an organization for sharing variables across workspaces and projects.",
		InputSchema: schema(map[string]any{
			"organization": prop("string", "The organization name"),
			"name":         prop("string", "The variable set name"),
			"description":  prop("string", "Description of the variable set"),
			"global":       prop("boolean", "Apply to all workspaces in the organization"),
			"priority":     prop("boolean", "Take priority over workspace variables"),
		}, "organization", "name"),
	}, filter.TagVariableSet, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		if _, err := args.requireStr("name"); err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "organizations/" + org + "/varsets",
			Body:   jsonapi.NewPayload("varsets", args.attrs(variableSetAttrs)),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_variable_set",
		Description: "Update a variable set's settings. Only supplied attributes change.",
		InputSchema: schema(map[string]any{
			"varset_id":   prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
			"name":        prop("string", "New variable set name"),
			"description": prop("string", "Description of the variable set"),
			"global":      prop("boolean", "Apply to all workspaces in the organization"),
			"priority":    prop("boolean", "Take priority over workspace variables"),
		}, "varset_id"),
	}, filter.TagVariableSet, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "varsets/" + id,
			Body:   jsonapi.NewPayload("varsets", args.attrs(variableSetAttrs)),
		})
	})

	s.addVarsetAssignment("assign_variable_set_to_workspaces", "POST", "workspaces",
		"Assign a variable set to one or more workspaces, making its variables available there.")
	s.addVarsetAssignment("unassign_variable_set_from_workspaces", "DELETE", "workspaces",
		"Remove a variable set from one or more workspaces.")
	s.addVarsetAssignment("assign_variable_set_to_projects", "POST", "projects",
		"Assign a variable set to one or more projects, covering all their workspaces.")
	s.addVarsetAssignment("unassign_variable_set_from_projects", "DELETE", "projects",
		"Remove a variable set from one or more projects.")

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_variable_set",
			Description: "Permanently delete a variable set and all its variables, unassigning it everywhere. This cannot be undone.",
			InputSchema: schema(map[string]any{
				"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
			}, "varset_id"),
		}, filter.TagVariableSet, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			id, err := args.requireStr("varset_id")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{Method: "DELETE", Path: "varsets/" + id})
		})
	}
}

// addVarsetAssignment registers one of the four assignment tools, which
// differ only in HTTP method and target resource type.
func (s *Server) addVarsetAssignment(toolName, method, resource, description string) {
	argName := resource[:len(resource)-1] + "_ids" // workspace_ids, project_ids
	s.addTool(mcp.Tool{
		Name:        toolName,
		Description: description,
		InputSchema: schema(map[string]any{
			"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
			argName:     listProp("IDs of the " + resource + " to target"),
		}, "varset_id", argName),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		ids := args.strList(argName)
		if len(ids) == 0 {
			return nil, &tfc.Error{Kind: tfc.KindValidation, Message: argName + " is required"}
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: method,
			Path:   "varsets/" + id + "/relationships/" + resource,
			Body:   jsonapi.RelationshipList(resource, ids),
		})
	})
}

func (s *Server) registerVariableSetVariableTools() {
	s.addTool(mcp.Tool{
		Name:        "list_variables_in_variable_set",
		Description: "List all variables that belong to a variable set.",
		InputSchema: schema(map[string]any{
			"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
		}, "varset_id"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "varsets/" + id + "/relationships/vars"})
	})

	s.addTool(mcp.Tool{
		Name:        "create_variable_in_variable_set",
		Description: "Create a Terraform or environment variable inside a variable set.",
		InputSchema: schema(mergeProps(map[string]any{
			"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
			"key":       prop("string", "The variable name"),
			"category":  prop("string", "Variable category: terraform or env"),
		}, variableProps()), "varset_id", "key", "category"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		if _, err := args.requireStr("key"); err != nil {
			return nil, err
		}
		if _, err := args.requireStr("category"); err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "varsets/" + id + "/relationships/vars",
			Body:   jsonapi.NewPayload("vars", args.attrs(variableAttrs)),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_variable_in_variable_set",
		Description: "Update a variable inside a variable set. Only supplied attributes change.",
		InputSchema: schema(mergeProps(map[string]any{
			"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
			"var_id":    prop("string", "The variable ID (format: var-xxxxxxxx)"),
			"key":       prop("string", "New variable name"),
			"category":  prop("string", "Variable category: terraform or env"),
		}, variableProps()), "varset_id", "var_id"),
	}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		varsetID, err := args.requireStr("varset_id")
		if err != nil {
			return nil, err
		}
		varID, err := args.requireStr("var_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "varsets/" + varsetID + "/relationships/vars/" + varID,
			Body:   jsonapi.NewPayload("vars", args.attrs(variableAttrs)),
		})
	})

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_variable_from_variable_set",
			Description: "Permanently remove a variable from a variable set. This cannot be undone.",
			InputSchema: schema(map[string]any{
				"varset_id": prop("string", "The variable set ID (format: varset-xxxxxxxx)"),
				"var_id":    prop("string", "The variable ID (format: var-xxxxxxxx)"),
			}, "varset_id", "var_id"),
		}, filter.TagVariable, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			varsetID, err := args.requireStr("varset_id")
			if err != nil {
				return nil, err
			}
			varID, err := args.requireStr("var_id")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{
				Method: "DELETE",
				Path:   "varsets/" + varsetID + "/relationships/vars/" + varID,
			})
		})
	}
}
