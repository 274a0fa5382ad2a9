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

func (s *Server) registerAccountTools() {
	s.addTool(mcp.Tool{
		Name:        "get_account_details",
		Description: "Get details for the account associated with the configured API token, including user ID, username and email address.",
		InputSchema: schema(map[string]any{}),
	}, filter.TagAccount, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "account/details"})
	})
}
