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

func (s *Server) registerStateVersionOutputTools() {
	s.addTool(mcp.Tool{
		Name:        "list_state_version_outputs",
		Description: "List the outputs of a state version, including names, values and sensitivity.",
		InputSchema: schema(map[string]any{
			"state_version_id": prop("string", "The state version ID (format: sv-xxxxxxxx)"),
			"page_number":      prop("number", "Page number to fetch (default: 1)"),
			"page_size":        prop("number", "Number of results per page (default: 20, max: 100)"),
		}, "state_version_id"),
	}, filter.TagStateVersionOutput, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("state_version_id")
		if err != nil {
			return nil, err
		}
		query := jsonapi.NewQuery().
			Page(args.intArg("page_number"), args.intArg("page_size"))
		return s.client.Do(ctx, &tfc.Request{
			Method: "GET",
			Path:   "state-versions/" + id + "/outputs",
			Query:  query.Values(),
		})
	})

	s.addTool(mcp.Tool{
		Name:        "get_state_version_output",
		Description: "Get details for a state version output, including name, value, type and sensitivity.",
		InputSchema: schema(map[string]any{
			"state_version_output_id": prop("string", "The state version output ID (format: wsout-xxxxxxxx)"),
		}, "state_version_output_id"),
	}, filter.TagStateVersionOutput, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("state_version_output_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "state-version-outputs/" + id})
	})
}
