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

// organizationAttrs maps optional organization tool arguments to their
// JSON:API attribute names.
var organizationAttrs = map[string]string{
	"email":                               "email",
	"collaborator_auth_policy":            "collaborator-auth-policy",
	"session_timeout":                     "session-timeout",
	"session_remember":                    "session-remember",
	"cost_estimation_enabled":             "cost-estimation-enabled",
	"default_execution_mode":              "default-execution-mode",
	"aggregated_commit_status_enabled":    "aggregated-commit-status-enabled",
	"speculative_plan_management_enabled": "speculative-plan-management-enabled",
	"assessments_enforced":                "assessments-enforced",
	"allow_force_delete_workspaces":       "allow-force-delete-workspaces",
	"default_agent_pool_id":               "default-agent-pool-id",
}

func (s *Server) registerOrganizationTools() {
	s.addTool(mcp.Tool{
		Name:        "list_organizations",
		Description: "List organizations the current account has access to, with pagination and name/email search.",
		InputSchema: schema(map[string]any{
			"page_number": prop("number", "Page number to fetch (default: 1)"),
			"page_size":   prop("number", "Number of results per page (default: 20)"),
			"query":       prop("string", "Search query matching both name and email"),
			"query_email": prop("string", "Search query matching email only"),
			"query_name":  prop("string", "Search query matching name only"),
		}),
	}, filter.TagOrganization, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size")).
			Set("q", args.str("query")).
			Q("email", args.str("query_email")).
			Q("name", args.str("query_name"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "organizations",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_organization_details",
		Description: "Get details for an organization, including settings, contact email and configuration defaults.",
		InputSchema: schema(map[string]any{
			"organization": prop("string", "The organization name"),
		}, "organization"),
	}, filter.TagOrganization, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "organizations/" + org})
	})

	s.addTool(mcp.Tool{
		Name:        "get_organization_entitlements",
		Description: "Show the entitlement set for an organization: available features and limits for its subscription tier.",
		InputSchema: schema(map[string]any{
			"organization": prop("string", "The organization name"),
		}, "organization"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "organizations/" + org + "/entitlement-set"})
	})

	s.addTool(mcp.Tool{
		Name:        "create_organization",
		Description: "Create a new organization with the given name and admin email.",
		InputSchema: schema(map[string]any{
			"name":                                prop("string", "The organization name"),
			"email":                               prop("string", "Admin email address"),
			"collaborator_auth_policy":            prop("string", "Authentication policy: password or two_factor_mandatory"),
			"session_timeout":                     prop("number", "Session timeout after inactivity, in minutes"),
			"session_remember":                    prop("number", "Session total expiration time, in minutes"),
			"cost_estimation_enabled":             prop("boolean", "Enable cost estimation for workspaces"),
			"default_execution_mode":              prop("string", "Default workspace execution mode: remote, local or agent"),
			"aggregated_commit_status_enabled":    prop("boolean", "Aggregate VCS status updates"),
			"speculative_plan_management_enabled": prop("boolean", "Auto-cancel unused speculative plans"),
			"assessments_enforced":                prop("boolean", "Enforce health assessments for all workspaces"),
			"allow_force_delete_workspaces":       prop("boolean", "Allow deleting workspaces that still manage resources"),
			"default_agent_pool_id":               prop("string", "Default agent pool ID, required for agent execution mode"),
		}, "name", "email"),
	}, filter.TagOrganization, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		name, err := args.requireStr("name")
		if err != nil {
			return nil, err
		}
		email, err := args.requireStr("email")
		if err != nil {
			return nil, err
		}
		attrs := args.attrs(organizationAttrs)
		attrs["name"] = name
		attrs["email"] = email
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "organizations",
			Body:   jsonapi.NewPayload("organizations", attrs),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "update_organization",
		Description: "Update an existing organization's settings. Only supplied attributes change.",
		InputSchema: schema(map[string]any{
			"organization":                        prop("string", "The organization name"),
			"email":                               prop("string", "Admin email address"),
			"collaborator_auth_policy":            prop("string", "Authentication policy: password or two_factor_mandatory"),
			"session_timeout":                     prop("number", "Session timeout after inactivity, in minutes"),
			"session_remember":                    prop("number", "Session total expiration time, in minutes"),
			"cost_estimation_enabled":             prop("boolean", "Enable cost estimation for workspaces"),
			"default_execution_mode":              prop("string", "Default workspace execution mode: remote, local or agent"),
			"aggregated_commit_status_enabled":    prop("boolean", "Aggregate VCS status updates"),
			"speculative_plan_management_enabled": prop("boolean", "Auto-cancel unused speculative plans"),
			"assessments_enforced":                prop("boolean", "Enforce health assessments for all workspaces"),
			"allow_force_delete_workspaces":       prop("boolean", "Allow deleting workspaces that still manage resources"),
		}, "organization"),
	}, filter.TagOrganization, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "PATCH",
			Path:   "organizations/" + org,
			Body:   jsonapi.NewPayload("organizations", args.attrs(organizationAttrs)),
		})
	})

	if s.enableDeleteTools {
		s.addTool(mcp.Tool{
			Name:        "delete_organization",
			Description: "Permanently delete an organization and everything in it. This cannot be undone.",
			InputSchema: schema(map[string]any{
				"organization": prop("string", "The organization name"),
			}, "organization"),
		}, filter.TagOrganization, func(ctx context.Context, args arguments) (*tfc.Response, error) {
			org, err := args.requireStr("organization")
			if err != nil {
				return nil, err
			}
			return s.client.Do(ctx, &tfc.Request{Method: "DELETE", Path: "organizations/" + org})
		})
	}
}
