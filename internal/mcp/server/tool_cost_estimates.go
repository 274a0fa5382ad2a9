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

func (s *Server) registerCostEstimateTools() {
	// There is no list endpoint for cost estimates; the ID comes from a
	// run's relationships.cost-estimate property.
	s.addTool(mcp.Tool{
		Name:        "get_cost_estimate_details",
		Description: "Get details for a cost estimate, including status, resource counts and monthly cost projections. Find the ID in a run's relationships.cost-estimate property.",
		InputSchema: schema(map[string]any{
			"cost_estimate_id": prop("string", "The cost estimate ID (format: ce-xxxxxxxx)"),
		}, "cost_estimate_id"),
	}, filter.TagCostEstimate, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("cost_estimate_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "cost-estimates/" + id})
	})
}
