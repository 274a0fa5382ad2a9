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
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/tfcmcp/internal/filter"
	"github.com/tombee/tfcmcp/internal/tfc"
)

func (s *Server) registerApplyTools() {
	s.addTool(mcp.Tool{
		Name:        "get_apply_details",
		Description: "Get details for an apply, including status, timestamps and resource change counts.",
		InputSchema: schema(map[string]any{
			"apply_id": prop("string", "The apply ID (format: apply-xxxxxxxx)"),
		}, "apply_id"),
	}, filter.TagApply, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("apply_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "applies/" + id})
	})

	s.addTool(mcp.Tool{
		Name:        "get_apply_logs",
		Description: "Get the raw log output of an apply operation, fetched from the apply's log-read-url.",
		InputSchema: schema(map[string]any{
			"apply_id": prop("string", "The apply ID (format: apply-xxxxxxxx)"),
		}, "apply_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("apply_id")
		if err != nil {
			return nil, err
		}
		details, err := s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "applies/" + id})
		if err != nil {
			return nil, err
		}
		logURL, ok := attributeString(details.JSON, "log-read-url")
		if !ok {
			return nil, &tfc.Error{
				Kind:    tfc.KindNotFound,
				Message: fmt.Sprintf("no log URL available for apply %s", id),
			}
		}
		return s.client.DoExternal(ctx, logURL, true)
	})

	s.addTool(mcp.Tool{
		Name:        "get_errored_state",
		Description: "Get the state data from a failed state upload during an apply, for recovery. The content is served from a pre-signed URL.",
		InputSchema: schema(map[string]any{
			"apply_id": prop("string", "The apply ID with the failed state upload (format: apply-xxxxxxxx)"),
		}, "apply_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("apply_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "applies/" + id + "/errored-state"})
	})
}
