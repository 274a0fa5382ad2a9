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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/tfcmcp/internal/filter"
	"github.com/tombee/tfcmcp/internal/tfc"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "test_tool",
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestHandle_SuccessIsFiltered(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(`{
			"data": {
				"id": "ws-abc123",
				"type": "workspaces",
				"attributes": {
					"name": "prod",
					"terraform-version": "1.9.0",
					"apply-duration-average": 12000
				}
			},
			"links": {"self": "/api/v2/workspaces/ws-abc123"}
		}`))
	}))
	defer ts.Close()
	s := newTestServer(t, ts, false)

	handler := s.handle("test_tool", filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "workspaces/ws-abc123"})
	})
	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["id"] != "ws-abc123" {
		t.Errorf("id dropped by filter")
	}
	attrs := data["attributes"].(map[string]any)
	if attrs["name"] != "prod" {
		t.Errorf("name dropped by filter")
	}
	if attrs["terraform-version"] != "1.9.0" {
		t.Errorf("terraform-version dropped by filter")
	}
	if _, ok := attrs["apply-duration-average"]; ok {
		t.Errorf("apply-duration-average survived the workspace filter")
	}
	if _, ok := body["links"]; ok {
		t.Errorf("top-level links survived the filter")
	}
}

func TestHandle_NoContentSentinel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()
	s := newTestServer(t, ts, false)

	handler := s.handle("test_tool", filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		return s.client.Do(ctx, &tfc.Request{Method: "DELETE", Path: "projects/prj-1"})
	})
	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if body["status"] != "success" {
		t.Errorf("status = %v, want success", body["status"])
	}
	if body["status_code"] != float64(204) {
		t.Errorf("status_code = %v, want 204", body["status_code"])
	}
}

func TestHandle_RawTextBypassesFilter(t *testing.T) {
	logContent := "Terraform v1.9.0\nPlan: 2 to add, 0 to change, 0 to destroy.\n"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(logContent))
	}))
	defer ts.Close()
	s := newTestServer(t, ts, false)

	handler := s.handle("test_tool", filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "plans/plan-1/logs", RawText: true})
	})
	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := resultText(t, result); got != logContent {
		t.Errorf("raw text altered: %q", got)
	}
}

func TestHandle_ErrorObjectShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"title":"not found","detail":"Workspace not found"}]}`))
	}))
	defer ts.Close()
	s := newTestServer(t, ts, false)

	handler := s.handle("test_tool", filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "workspaces/ws-missing"})
	})
	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("error payload is not JSON: %v", err)
	}
	if body["error"] != "not_found" {
		t.Errorf("error = %v, want not_found", body["error"])
	}
	if body["message"] != "Workspace not found" {
		t.Errorf("message = %v, want remote detail verbatim", body["message"])
	}
	if body["status_code"] != float64(404) {
		t.Errorf("status_code = %v, want 404", body["status_code"])
	}
}

func TestHandle_ValidationErrorFromArguments(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for missing arguments")
	}))
	defer ts.Close()
	s := newTestServer(t, ts, false)

	handler := s.handle("test_tool", filter.TagWorkspace, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		id, err := args.requireStr("workspace_id")
		if err != nil {
			return nil, err
		}
		return s.client.Do(ctx, &tfc.Request{Method: "GET", Path: "workspaces/" + id})
	})
	result, err := handler(context.Background(), callRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("error payload is not JSON: %v", err)
	}
	if body["error"] != "validation_error" {
		t.Errorf("error = %v, want validation_error", body["error"])
	}
	if !strings.Contains(body["message"].(string), "workspace_id") {
		t.Errorf("message %q does not name the missing argument", body["message"])
	}
}

func TestHandle_InvalidArgumentsFormat(t *testing.T) {
	s := newTestServerNoHTTP(t)

	handler := s.handle("test_tool", filter.TagGeneric, func(ctx context.Context, args arguments) (*tfc.Response, error) {
		t.Error("tool function should not run")
		return nil, nil
	})
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "test_tool", Arguments: "not a map"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	if got := resultText(t, result); got != "Invalid arguments format" {
		t.Errorf("message = %q", got)
	}
}

func newTestServerNoHTTP(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(ServerConfig{
		Client:  tfc.New(tfc.Config{Token: "t", Logger: discardLogger()}),
		Filters: testRegistry(t),
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestArguments_Accessors(t *testing.T) {
	args := arguments{
		"name":    "prod",
		"count":   float64(3),
		"enabled": true,
		"ids":     []any{"ws-1", "ws-2"},
		"objs":    []any{map[string]any{"key": "env"}},
	}

	if got := args.str("name"); got != "prod" {
		t.Errorf("str = %q", got)
	}
	if got := args.str("missing"); got != "" {
		t.Errorf("str(missing) = %q", got)
	}
	if got := args.intArg("count"); got != 3 {
		t.Errorf("intArg = %d", got)
	}
	if got := args.intArg("missing"); got != 0 {
		t.Errorf("intArg(missing) = %d", got)
	}
	if !args.boolArg("enabled") {
		t.Error("boolArg = false")
	}
	if got := args.strList("ids"); len(got) != 2 || got[0] != "ws-1" {
		t.Errorf("strList = %v", got)
	}
	if got := args.objList("objs"); len(got) != 1 || got[0]["key"] != "env" {
		t.Errorf("objList = %v", got)
	}

	if _, err := args.requireStr("name"); err != nil {
		t.Errorf("requireStr(name): %v", err)
	}
	_, err := args.requireStr("missing")
	if err == nil {
		t.Fatal("requireStr(missing) should fail")
	}
	var apiErr *tfc.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != tfc.KindValidation {
		t.Errorf("requireStr error is not a validation error: %v", err)
	}
}

func TestArguments_Attrs(t *testing.T) {
	args := arguments{
		"auto_apply":        true,
		"terraform_version": "1.9.0",
		"unrelated":         "x",
	}
	attrs := args.attrs(map[string]string{
		"auto_apply":        "auto-apply",
		"terraform_version": "terraform-version",
		"description":       "description",
	})
	if attrs["auto-apply"] != true {
		t.Errorf("auto-apply = %v", attrs["auto-apply"])
	}
	if attrs["terraform-version"] != "1.9.0" {
		t.Errorf("terraform-version = %v", attrs["terraform-version"])
	}
	if _, ok := attrs["description"]; ok {
		t.Error("absent argument mapped into attributes")
	}
	if _, ok := attrs["unrelated"]; ok {
		t.Error("unmapped argument leaked into attributes")
	}
}

func TestWorkspacePath(t *testing.T) {
	tests := []struct {
		name    string
		args    arguments
		want    string
		wantErr bool
	}{
		{"by id", arguments{"workspace_id": "ws-1"}, "workspaces/ws-1", false},
		{"by org and name", arguments{"organization": "acme", "workspace_name": "prod"}, "organizations/acme/workspaces/prod", false},
		{"id wins", arguments{"workspace_id": "ws-1", "organization": "acme", "workspace_name": "prod"}, "workspaces/ws-1", false},
		{"missing name", arguments{"organization": "acme"}, "", true},
		{"empty", arguments{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workspacePath(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("workspacePath: %v", err)
			}
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}
