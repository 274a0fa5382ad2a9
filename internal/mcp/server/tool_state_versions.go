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

var stateVersionAttrs = map[string]string{
	"state":              "state",
	"lineage":            "lineage",
	"json_state":         "json-state",
	"json_state_outputs": "json-state-outputs",
}

func (s *Server) registerStateVersionTools() {
	s.addTool(mcp.Tool{
		Name:        "list_state_versions",
		Description: "List state versions in a workspace with pagination and status filtering.",
		InputSchema: schema(map[string]any{
			"organization":   prop("string", "The organization that owns the workspace"),
			"workspace_name": prop("string", "The workspace to list state versions from"),
			"page_number":    prop("number", "Page number to fetch (default: 1)"),
			"page_size":      prop("number", "Number of results per page (default: 20, max: 100)"),
			"filter_status":  prop("string", "Filter by status: pending, finalized or discarded"),
		}, "organization", "workspace_name"),
	}, filter.TagStateVersion, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		org, err := args.requireStr("organization")
		if err != nil {
			return nil, err
		}
		name, err := args.requireStr("workspace_name")
		if err != nil {
			return nil, err
		}
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size")).
			Filter("organization[name]", org).
			Filter("workspace[name]", name).
			Filter("status", args.str("filter_status"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "state-versions",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_current_state_version",
		Description: "Get the current state version for a workspace: the input state for the next run.",
		InputSchema: schema(map[string]any{
			"workspace_id": prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
		}, "workspace_id"),
	}, filter.TagStateVersion, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "workspaces/" + id + "/current-state-version"})
	})

	s.addTool(mcp.Tool{
		Name:        "get_state_version",
		Description: "Get details for a state version, including status, download URLs and resource metadata.",
		InputSchema: schema(map[string]any{
			"state_version_id": prop("string", "The state version ID (format: sv-xxxxxxxx)"),
		}, "state_version_id"),
	}, filter.TagStateVersion, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("state_version_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "state-versions/" + id})
	})

	s.addTool(mcp.Tool{
		Name:        "create_state_version",
		Description: "Create a state version and set it current for a workspace. The workspace must be locked by the caller. Useful for migrating state into a new workspace.",
		InputSchema: schema(map[string]any{
			"workspace_id":       prop("string", "The workspace ID (format: ws-xxxxxxxx)"),
			"serial":             prop("number", "The serial number of this state instance"),
			"md5":                prop("string", "MD5 hash of the raw state version"),
			"state":              prop("string", "Base64-encoded raw state file"),
			"lineage":            prop("string", "Lineage of the state version"),
			"json_state":         prop("string", "Base64-encoded JSON state"),
			"json_state_outputs": prop("string", "Base64-encoded JSON state outputs"),
			"run_id":             prop("string", "Run to associate with the state version (format: run-xxxxxxxx)"),
		}, "workspace_id", "serial", "md5"),
	}, filter.TagStateVersion, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		workspaceID, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		md5, err := args.requireStr("md5")
		if err != nil {
			return nil, err
		}
		attrs := args.attrs(stateVersionAttrs)
		attrs["serial"] = args.intArg("serial")
		attrs["md5"] = md5
		payload := jsonapi.NewPayload("state-versions", attrs)
		if runID := args.str("run_id"); runID != "" {
			payload.WithRelationship("run", "runs", runID)
		}
		return s.client.Do(ctx, &tfc.Request{
			Method: "POST",
			Path:   "workspaces/" + workspaceID + "/state-versions",
			Body:   payload,
		})
	})

	s.addTool(mcp.Tool{
		Name:        "download_state_file",
		Description: "Download the raw or JSON-formatted state file for a state version, fetched from its hosted download URL.",
		InputSchema: schema(map[string]any{
			"state_version_id": prop("string", "The state version ID (format: sv-xxxxxxxx)"),
			"json_format":      prop("boolean", "Download the JSON-formatted state instead of the raw state"),
		}, "state_version_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("state_version_id")
		if err != nil {
			return nil, err
		}
		details, err := s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "state-versions/" + id})
		if err != nil {
			return nil, err
		}
		urlAttr := "hosted-state-download-url"
		if args.boolArg("json_format") {
			urlAttr = "hosted-json-state-download-url"
		}
		downloadURL, ok := attributeString(details.JSON, urlAttr)
		if !ok {
			msg := "state download URL not available for this state version"
			if args.boolArg("json_format") {
				msg = "JSON state download URL not available; the state may predate Terraform 1.3"
			}
			return nil, &tfc.Error{Kind: tfc.KindNotFound, Message: msg}
		}
		return s.client.DoExternal(ctx, downloadURL, true)
	})
}
