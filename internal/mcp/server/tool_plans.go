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

func (s *Server) registerPlanTools() {
	s.addTool(mcp.Tool{
		Name:        "get_plan_details",
		Description: "Get details for a plan, including status, timestamps and resource change counts.",
		InputSchema: schema(map[string]any{
			"plan_id": prop("string", "The plan ID (format: plan-xxxxxxxx)"),
		}, "plan_id"),
	}, filter.TagPlan, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("plan_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "plans/" + id})
	})

	s.addTool(mcp.Tool{
		Name:        "get_plan_json_output",
		Description: "Get the machine-readable JSON execution plan for a plan. The content is served from a pre-signed URL.",
		InputSchema: schema(map[string]any{
			"plan_id": prop("string", "The plan ID (format: plan-xxxxxxxx)"),
		}, "plan_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("plan_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "plans/" + id + "/json-output"})
	})

	s.addTool(mcp.Tool{
		Name:        "get_run_plan_json_output",
		Description: "Get the JSON execution plan for a run's current plan. The content is served from a pre-signed URL.",
		InputSchema: schema(map[string]any{
			"run_id": prop("string", "The run ID (format: run-xxxxxxxx)"),
		}, "run_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("run_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "runs/" + id + "/plan/json-output"})
	})

	s.addTool(mcp.Tool{
		Name:        "get_plan_logs",
		Description: "Get the raw log output of a plan operation, fetched from the plan's log-read-url.",
		InputSchema: schema(map[string]any{
			"plan_id": prop("string", "The plan ID (format: plan-xxxxxxxx)"),
		}, "plan_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("plan_id")
		if err != nil {
			return nil, err
		}
		details, err := s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "plans/" + id})
		if err != nil {
			return nil, err
		}
		logURL, ok := attributeString(details.JSON, "log-read-url")
		if !ok {
			return nil, &tfc.Error{
				Kind:    tfc.KindNotFound,
				Message: fmt.Sprintf("no log URL available for plan %s", id),
			}
		}
		return s.client.DoExternal(ctx, logURL, true)
	})
}

// attributeString extracts data.attributes.<name> from a decoded JSON:API
// body. Returns false when the path is absent or not a non-empty string.
func attributeString(body any, name string) (string, bool) {
	root, ok := body.(map[string]any)
	if !ok {
		return "", false
	}
	data, ok := root["data"].(map[string]any)
	if !ok {
		return "", false
	}
	attrs, ok := data["attributes"].(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := attrs[name].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
