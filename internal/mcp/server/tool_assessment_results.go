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
)

func (s *Server) registerAssessmentResultTools() {
	s.addTool(mcp.Tool{
		Name:        "get_assessment_result_details",
		Description: "Get details for a health assessment result, including status and drift detection information.",
		InputSchema: schema(map[string]any{
			"assessment_result_id": prop("string", "The assessment result ID (format: asmtres-xxxxxxxx)"),
		}, "assessment_result_id"),
	}, filter.TagAssessmentResult, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("assessment_result_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "assessment-results/" + id})
	})

	// The three output endpoints require workspace admin access and serve
	// their content from pre-signed URLs.
	s.addAssessmentOutput("get_assessment_json_output", "json-output",
		"Get the machine-readable JSON plan produced by an assessment.")
	s.addAssessmentOutput("get_assessment_json_schema", "json-schema",
		"Get the provider schema file used during an assessment.")
	s.addAssessmentOutput("get_assessment_log_output", "log-output",
		"Get the raw log output of an assessment operation.")
}

func (s *Server) addAssessmentOutput(toolName, endpoint, description string) {
	s.addTool(mcp.Tool{
		Name:        toolName,
		Description: description + " Requires workspace admin access; not available to organization tokens.",
		InputSchema: schema(map[string]any{
			"assessment_result_id": prop("string", "The assessment result ID (format: asmtres-xxxxxxxx)"),
		}, "assessment_result_id"),
	}, filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("assessment_result_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{
			Method:  "GET",
			Path:    "assessment-results/" + id + "/" + endpoint,
			RawText: true,
		})
	})
}
