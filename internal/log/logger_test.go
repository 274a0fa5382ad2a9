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

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"unknown defaults to info", "bogus", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(&Config{Level: tt.level, Output: &bytes.Buffer{}})
			if logger == nil {
				t.Fatal("New returned nil logger")
			}
			if !logger.Enabled(context.Background(), tt.expected) {
				t.Errorf("logger not enabled for level %v", tt.expected)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})

	logger.Info("request complete", MethodKey, "GET", PathKey, "workspaces/ws-abc123", StatusKey, 200)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry[MethodKey] != "GET" {
		t.Errorf("expected method field GET, got %v", entry[MethodKey])
	}
	if entry[PathKey] != "workspaces/ws-abc123" {
		t.Errorf("expected path field, got %v", entry[PathKey])
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Format: FormatText, Output: &buf})

	logger.Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text format output, got %q", buf.String())
	}
}

func TestNew_NilConfig(t *testing.T) {
	if New(nil) == nil {
		t.Fatal("New(nil) should return a default logger")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: "info", Output: &buf})

	WithComponent(logger, "transport").Info("test")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry["component"] != "transport" {
		t.Errorf("expected component=transport, got %v", entry["component"])
	}
}

func TestFromEnv_Debug(t *testing.T) {
	t.Setenv("TFCMCP_DEBUG", "1")

	cfg := FromEnv()
	if cfg.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Level)
	}
	if !cfg.AddSource {
		t.Error("expected AddSource to be enabled")
	}
}

func TestFromEnv_LevelPrecedence(t *testing.T) {
	t.Setenv("TFCMCP_DEBUG", "")
	t.Setenv("TFCMCP_LOG_LEVEL", "warn")
	t.Setenv("LOG_LEVEL", "error")

	cfg := FromEnv()
	if cfg.Level != "warn" {
		t.Errorf("TFCMCP_LOG_LEVEL should take precedence, got %q", cfg.Level)
	}
}

func TestFromEnv_Format(t *testing.T) {
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg := FromEnv()
	if cfg.Format != FormatText {
		t.Errorf("expected text format, got %q", cfg.Format)
	}
}
