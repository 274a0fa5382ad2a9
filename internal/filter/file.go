package filter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads per-tag policy overrides from a YAML file:
//
//	workspace:
//	  drop:
//	    - data.attributes.vcs-repo
//	  always_keep:
//	    - data.attributes.created-at
//	  nested:
//	    project: project
//
// An override replaces the built-in policy for its tag entirely; validation
// still happens when the merged set is compiled into a Registry.
func LoadFile(path string) (map[string]Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter policy file: %w", err)
	}

	var policies map[string]Policy
	if err := yaml.Unmarshal(data, &policies); err != nil {
		return nil, fmt.Errorf("parse filter policy file %s: %w", path, err)
	}
	return policies, nil
}
