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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	internallog "github.com/tombee/tfcmcp/internal/log"
	"github.com/tombee/tfcmcp/internal/tfc"
)

// toolFunc is the shape every tool operation takes: arguments in, one
// transport outcome out. Tools never build caller-facing errors themselves.
type toolFunc func(ctx context.Context, args arguments) (*tfc.Response, error)

// handle wraps a tool operation with the single outcome-to-caller
// translation point. Successes are filtered by resource type and returned
// as JSON text; 204 outcomes become a fixed success sentinel so callers
// never branch on payload absence; failures become a uniform structured
// error object. No other layer catches or reclassifies errors.
func (s *Server) handle(toolName, resourceType string, fn toolFunc) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := toArguments(request.Params.Arguments)
		if !ok {
			return errorResponse("Invalid arguments format"), nil
		}

		s.logger.Debug("executing tool", internallog.ToolKey, toolName)

		resp, err := fn(ctx, args)
		if err != nil {
			s.logger.Warn("tool failed",
				internallog.ToolKey, toolName,
				internallog.KindKey, errorKind(err),
			)
			return errorResponse(callerError(err)), nil
		}

		if resp.NoContent() {
			return jsonResponse(map[string]any{
				"status":      "success",
				"status_code": 204,
			})
		}

		// Raw-text outcomes (log streams, state files) bypass filtering.
		if resp.JSON == nil && resp.Text != "" {
			return textResponse(resp.Text), nil
		}

		return jsonResponse(s.filters.Apply(resourceType, resp.JSON))
	}
}

// callerError renders the uniform failure payload:
// {"error": <kind>, "message": <detail>, "status_code": <n>}. Every kind
// in the taxonomy survives the translation; nothing is swallowed.
func callerError(err error) string {
	obj := map[string]any{
		"error":   string(tfc.KindServer),
		"message": err.Error(),
	}

	var apiErr *tfc.Error
	if errors.As(err, &apiErr) {
		obj["error"] = string(apiErr.Kind)
		obj["message"] = apiErr.Message
		if apiErr.StatusCode != 0 {
			obj["status_code"] = apiErr.StatusCode
		}
		if apiErr.Details != nil {
			obj["details"] = apiErr.Details
		}
	}

	data, marshalErr := json.Marshal(obj)
	if marshalErr != nil {
		return fmt.Sprintf(`{"error":"server_error","message":%q}`, err.Error())
	}
	return string(data)
}

func errorKind(err error) string {
	var apiErr *tfc.Error
	if errors.As(err, &apiErr) {
		return string(apiErr.Kind)
	}
	return string(tfc.KindServer)
}

func jsonResponse(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorResponse(fmt.Sprintf("Failed to encode response: %v", err)), nil
	}
	return textResponse(string(data)), nil
}

// arguments wraps the raw tool arguments with typed accessors.
type arguments map[string]any

func toArguments(raw any) (arguments, bool) {
	if raw == nil {
		return arguments{}, true
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	return arguments(m), true
}

// str returns a string argument, or "" when absent.
func (a arguments) str(key string) string {
	v, _ := a[key].(string)
	return v
}

// requireStr returns a string argument or a validation failure the
// classifier renders for the caller.
func (a arguments) requireStr(key string) (string, error) {
	v, ok := a[key].(string)
	if !ok || v == "" {
		return "", &tfc.Error{
			Kind:    tfc.KindValidation,
			Message: fmt.Sprintf("%s is required", key),
		}
	}
	return v, nil
}

// boolArg returns a boolean argument, or false when absent.
func (a arguments) boolArg(key string) bool {
	v, _ := a[key].(bool)
	return v
}

// intArg returns an integer argument, tolerating the float64 the JSON
// decoder produces. Zero when absent.
func (a arguments) intArg(key string) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// strList returns a string-array argument, or nil when absent.
func (a arguments) strList(key string) []string {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// objList returns an object-array argument, or nil when absent.
func (a arguments) objList(key string) []map[string]any {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// attrs collects the optional attribute arguments present in args into a
// JSON:API attribute map, renaming snake_case argument names to the
// API's kebab-case fields.
func (a arguments) attrs(names map[string]string) map[string]any {
	out := make(map[string]any)
	for argName, fieldName := range names {
		if v, ok := a[argName]; ok && v != nil {
			out[fieldName] = v
		}
	}
	return out
}
