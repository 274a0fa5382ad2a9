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
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/tombee/tfcmcp/internal/filter"
	"github.com/tombee/tfcmcp/internal/tfc"
)

func testRegistry(t *testing.T) *filter.Registry {
	t.Helper()
	registry, err := filter.NewRegistry(filter.Defaults())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return registry
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, ts *httptest.Server, enableDelete bool) *Server {
	t.Helper()
	client := tfc.New(tfc.Config{
		Address: ts.URL,
		Token:   "test-token",
		Logger:  discardLogger(),
	})
	s, err := NewServer(ServerConfig{
		Name:              "tfcmcp-test",
		Version:           "test",
		Client:            client,
		Filters:           testRegistry(t),
		EnableDeleteTools: enableDelete,
		Logger:            discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestNewServer_RequiresClient(t *testing.T) {
	_, err := NewServer(ServerConfig{Filters: testRegistry(t), Logger: discardLogger()})
	if err == nil {
		t.Fatal("expected error for missing client")
	}
}

func TestNewServer_RequiresFilters(t *testing.T) {
	client := tfc.New(tfc.Config{Token: "t", Logger: discardLogger()})
	_, err := NewServer(ServerConfig{Client: client, Logger: discardLogger()})
	if err == nil {
		t.Fatal("expected error for missing filter registry")
	}
}

func TestNewServer_Defaults(t *testing.T) {
	client := tfc.New(tfc.Config{Token: "t", Logger: discardLogger()})
	s, err := NewServer(ServerConfig{
		Client:  client,
		Filters: testRegistry(t),
		Logger:  discardLogger(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if s.name != "tfcmcp" {
		t.Errorf("default name = %q, want tfcmcp", s.name)
	}
	if s.version != "dev" {
		t.Errorf("default version = %q, want dev", s.version)
	}
}

func registeredTools(s *Server) map[string]bool {
	names := make(map[string]bool, len(s.toolNames))
	for _, name := range s.toolNames {
		names[name] = true
	}
	return names
}

func TestRegisterTools_CoreCatalog(t *testing.T) {
	ts := httptest.NewServer(nil)
	defer ts.Close()
	s := newTestServer(t, ts, false)

	names := registeredTools(s)
	expected := []string{
		"get_account_details",
		"list_organizations",
		"get_organization_details",
		"get_organization_entitlements",
		"create_organization",
		"update_organization",
		"list_projects",
		"get_project_details",
		"create_project",
		"update_project",
		"list_project_tag_bindings",
		"add_update_project_tag_bindings",
		"move_workspaces_to_project",
		"list_workspaces",
		"get_workspace_details",
		"create_workspace",
		"update_workspace",
		"lock_workspace",
		"unlock_workspace",
		"force_unlock_workspace",
		"get_data_retention_policy",
		"set_data_retention_policy",
		"create_run",
		"list_runs_in_workspace",
		"list_runs_in_organization",
		"get_run_details",
		"apply_run",
		"discard_run",
		"cancel_run",
		"force_cancel_run",
		"force_execute_run",
		"get_plan_details",
		"get_plan_json_output",
		"get_run_plan_json_output",
		"get_plan_logs",
		"get_apply_details",
		"get_apply_logs",
		"get_errored_state",
		"get_cost_estimate_details",
		"get_assessment_result_details",
		"get_assessment_json_output",
		"get_assessment_json_schema",
		"get_assessment_log_output",
		"list_state_versions",
		"get_current_state_version",
		"get_state_version",
		"create_state_version",
		"download_state_file",
		"list_state_version_outputs",
		"get_state_version_output",
		"list_workspace_variables",
		"create_workspace_variable",
		"update_workspace_variable",
		"list_variable_sets",
		"get_variable_set",
		"create_variable_set",
		"update_variable_set",
		"assign_variable_set_to_workspaces",
		"unassign_variable_set_from_workspaces",
		"assign_variable_set_to_projects",
		"unassign_variable_set_from_projects",
		"list_variables_in_variable_set",
		"create_variable_in_variable_set",
		"update_variable_in_variable_set",
	}
	for _, name := range expected {
		if !names[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestRegisterTools_DeleteToolsGatedOff(t *testing.T) {
	ts := httptest.NewServer(nil)
	defer ts.Close()
	s := newTestServer(t, ts, false)

	names := registeredTools(s)
	destructive := []string{
		"delete_organization",
		"delete_project",
		"delete_workspace",
		"safe_delete_workspace",
		"delete_data_retention_policy",
		"delete_workspace_variable",
		"delete_variable_set",
		"delete_variable_from_variable_set",
	}
	for _, name := range destructive {
		if names[name] {
			t.Errorf("destructive tool %s registered without opt-in", name)
		}
	}
}

func TestRegisterTools_DeleteToolsGatedOn(t *testing.T) {
	ts := httptest.NewServer(nil)
	defer ts.Close()
	s := newTestServer(t, ts, true)

	names := registeredTools(s)
	destructive := []string{
		"delete_organization",
		"delete_project",
		"delete_workspace",
		"safe_delete_workspace",
		"delete_data_retention_policy",
		"delete_workspace_variable",
		"delete_variable_set",
		"delete_variable_from_variable_set",
	}
	for _, name := range destructive {
		if !names[name] {
			t.Errorf("destructive tool %s not registered with opt-in", name)
		}
	}
}

func TestRegisterTools_NoDuplicateNames(t *testing.T) {
	ts := httptest.NewServer(nil)
	defer ts.Close()
	s := newTestServer(t, ts, true)

	seen := make(map[string]bool)
	for _, name := range s.toolNames {
		if seen[name] {
			t.Errorf("tool %s registered twice", name)
		}
		seen[name] = true
	}
}
