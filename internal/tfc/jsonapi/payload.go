// Package jsonapi builds JSON:API request payloads and query parameters
// for the Terraform Cloud API.
package jsonapi

import (
	"fmt"
	"net/url"
)

// Payload is a JSON:API request body: {"data": {"type": ..., "attributes": ...}}.
type Payload map[string]any

// NewPayload creates a JSON:API payload for the given resource type.
// Nil-valued attributes are omitted so partial updates only send the
// fields the caller set.
func NewPayload(resourceType string, attributes map[string]any) Payload {
	attrs := make(map[string]any, len(attributes))
	for k, v := range attributes {
		if v == nil {
			continue
		}
		attrs[k] = v
	}
	return Payload{
		"data": map[string]any{
			"type":       resourceType,
			"attributes": attrs,
		},
	}
}

// WithID sets the resource ID on the payload, required for some PATCH
// endpoints.
func (p Payload) WithID(id string) Payload {
	p["data"].(map[string]any)["id"] = id
	return p
}

// WithRelationship adds a to-one relationship to the payload.
func (p Payload) WithRelationship(name, resourceType, id string) Payload {
	data := p["data"].(map[string]any)
	rels, ok := data["relationships"].(map[string]any)
	if !ok {
		rels = make(map[string]any)
		data["relationships"] = rels
	}
	rels[name] = map[string]any{
		"data": map[string]any{"type": resourceType, "id": id},
	}
	return p
}

// WithRelationshipData adds a relationship with a caller-built data value,
// for relationships that are not simple to-one references.
func (p Payload) WithRelationshipData(name string, data any) Payload {
	d := p["data"].(map[string]any)
	rels, ok := d["relationships"].(map[string]any)
	if !ok {
		rels = make(map[string]any)
		d["relationships"] = rels
	}
	rels[name] = map[string]any{"data": data}
	return p
}

// RelationshipList builds the body for relationship collection endpoints
// (e.g. assigning a variable set to workspaces):
// {"data": [{"type": ..., "id": ...}, ...]}.
func RelationshipList(resourceType string, ids []string) map[string]any {
	refs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, map[string]any{"type": resourceType, "id": id})
	}
	return map[string]any{"data": refs}
}

// Query incrementally builds API query parameters using the conventions
// the API expects: page[number], filter[name], search[name], q[name].
type Query struct {
	values url.Values
}

// NewQuery creates an empty query builder.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Page sets pagination parameters. Zero values are omitted.
func (q *Query) Page(number, size int) *Query {
	if number > 0 {
		q.values.Set("page[number]", fmt.Sprintf("%d", number))
	}
	if size > 0 {
		q.values.Set("page[size]", fmt.Sprintf("%d", size))
	}
	return q
}

// Filter sets a filter[name] parameter. Empty values are omitted.
func (q *Query) Filter(name, value string) *Query {
	if value != "" {
		q.values.Set(fmt.Sprintf("filter[%s]", name), value)
	}
	return q
}

// Search sets a search[name] parameter. Empty values are omitted.
func (q *Query) Search(name, value string) *Query {
	if value != "" {
		q.values.Set(fmt.Sprintf("search[%s]", name), value)
	}
	return q
}

// Q sets a q[name] fuzzy-search parameter. Empty values are omitted.
func (q *Query) Q(name, value string) *Query {
	if value != "" {
		q.values.Set(fmt.Sprintf("q[%s]", name), value)
	}
	return q
}

// Set sets a raw parameter (e.g. "q", "sort"). Empty values are omitted.
func (q *Query) Set(name, value string) *Query {
	if value != "" {
		q.values.Set(name, value)
	}
	return q
}

// Values returns the accumulated parameters, or nil when none were set.
func (q *Query) Values() url.Values {
	if len(q.values) == 0 {
		return nil
	}
	return q.values
}
