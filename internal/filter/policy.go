// Package filter reduces API response payloads according to per-resource
// field policies, guaranteeing audit-critical fields are never dropped.
package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Policy describes how responses tagged with one resource type are reduced.
//
// Entries in AlwaysKeep and Drop are either dot-paths relative to the body
// root (e.g. "data.attributes.created-at") or bare field names. A bare name
// matches that key at any depth; a dot-path matches exactly. Array elements
// do not extend the path, so "data.attributes.name" addresses the field in
// both single-resource and list bodies.
type Policy struct {
	// AlwaysKeep lists fields the filter must never remove, regardless of
	// Drop. A dotted entry also protects its ancestors: a dropped
	// container that a keep path traverses is pruned to the kept fields
	// instead of removed wholesale.
	AlwaysKeep []string `yaml:"always_keep"`

	// Drop lists fields to remove.
	Drop []string `yaml:"drop"`

	// Nested maps a JSON key to another resource-type tag. The container
	// under that key is filtered with the mapped type's own policy,
	// starting a fresh path, and is never dropped wholesale.
	Nested map[string]string `yaml:"nested"`
}

// compiled is the lookup form of a Policy.
type compiled struct {
	keepPaths map[string]struct{}
	keepNames map[string]struct{}
	// keepPrefixes holds every proper ancestor of a dotted keep path, so
	// dropping a container never discards a kept descendant.
	keepPrefixes map[string]struct{}
	dropPaths    map[string]struct{}
	dropNames    map[string]struct{}
	nested       map[string]string
}

// Registry is the process-wide table of filter policies. It is validated
// and built once at startup and read-only afterward; concurrent reads need
// no synchronization.
type Registry struct {
	policies map[string]compiled
}

// NewRegistry compiles and validates a policy set. An overlap between a
// policy's always_keep and drop sets is a configuration error: the caller
// should treat it as fatal at startup, not deferred to first use.
func NewRegistry(policies map[string]Policy) (*Registry, error) {
	compiledSet := make(map[string]compiled, len(policies))
	for tag, p := range policies {
		c, err := compilePolicy(p)
		if err != nil {
			return nil, fmt.Errorf("filter policy for %q: %w", tag, err)
		}
		compiledSet[tag] = c
	}
	return &Registry{policies: compiledSet}, nil
}

func compilePolicy(p Policy) (compiled, error) {
	c := compiled{
		keepPaths:    make(map[string]struct{}),
		keepNames:    make(map[string]struct{}),
		keepPrefixes: make(map[string]struct{}),
		dropPaths:    make(map[string]struct{}),
		dropNames:    make(map[string]struct{}),
		nested:       p.Nested,
	}

	keepSet := make(map[string]struct{}, len(p.AlwaysKeep))
	for _, entry := range p.AlwaysKeep {
		keepSet[entry] = struct{}{}
		if strings.Contains(entry, ".") {
			c.keepPaths[entry] = struct{}{}
			parts := strings.Split(entry, ".")
			for i := 1; i < len(parts); i++ {
				c.keepPrefixes[strings.Join(parts[:i], ".")] = struct{}{}
			}
		} else {
			c.keepNames[entry] = struct{}{}
		}
	}

	var overlap []string
	for _, entry := range p.Drop {
		if _, ok := keepSet[entry]; ok {
			overlap = append(overlap, entry)
			continue
		}
		if strings.Contains(entry, ".") {
			c.dropPaths[entry] = struct{}{}
		} else {
			c.dropNames[entry] = struct{}{}
		}
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return compiled{}, fmt.Errorf("always_keep and drop overlap on %s", strings.Join(overlap, ", "))
	}

	return c, nil
}

// Merge layers override policies over a base set. An override replaces the
// whole policy for its tag.
func Merge(base, overrides map[string]Policy) map[string]Policy {
	merged := make(map[string]Policy, len(base)+len(overrides))
	for tag, p := range base {
		merged[tag] = p
	}
	for tag, p := range overrides {
		merged[tag] = p
	}
	return merged
}
