// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/tombee/tfcmcp/internal/filter"
)

// Config holds process-wide configuration. It is established once at
// startup and never mutated; concurrent readers need no locking.
type Config struct {
	// Token is the Terraform Cloud API token. May be empty: the first
	// call that needs it fails with an authentication error instead.
	Token string

	// Address is the Terraform Cloud/Enterprise base URL.
	Address string

	// EnableDeleteTools registers destructive tools (workspace,
	// organization, project, variable set deletion). Off by default.
	EnableDeleteTools bool

	// Filters is the compiled response-filter registry: built-in policies
	// plus any overrides from the policy file.
	Filters *filter.Registry
}

// FromEnv builds configuration from environment variables:
//   - TFC_TOKEN: API token
//   - TFC_ADDRESS: base URL (default: https://app.terraform.io)
//   - ENABLE_DELETE_TOOLS: true/1/yes/on to register destructive tools
//   - TFCMCP_FILTER_POLICIES: path to a YAML filter-policy override file
//
// An invalid filter policy set is a fatal configuration error surfaced
// here, never deferred to first use.
func FromEnv() (*Config, error) {
	policies := filter.Defaults()
	if path := os.Getenv("TFCMCP_FILTER_POLICIES"); path != "" {
		overrides, err := filter.LoadFile(path)
		if err != nil {
			return nil, err
		}
		policies = filter.Merge(policies, overrides)
	}

	registry, err := filter.NewRegistry(policies)
	if err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}

	return &Config{
		Token:             os.Getenv("TFC_TOKEN"),
		Address:           os.Getenv("TFC_ADDRESS"),
		EnableDeleteTools: envBool("ENABLE_DELETE_TOOLS"),
		Filters:           registry,
	}, nil
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
