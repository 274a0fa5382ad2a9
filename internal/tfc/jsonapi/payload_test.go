package jsonapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	p := NewPayload("workspaces", map[string]any{
		"name":              "prod",
		"terraform-version": "1.7.0",
		"description":       nil, // unset fields are omitted
	})

	data, ok := p["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "workspaces", data["type"])

	attrs := data["attributes"].(map[string]any)
	assert.Equal(t, "prod", attrs["name"])
	assert.Equal(t, "1.7.0", attrs["terraform-version"])
	_, present := attrs["description"]
	assert.False(t, present, "nil attributes must be omitted")
}

func TestPayload_WithRelationship(t *testing.T) {
	p := NewPayload("runs", map[string]any{"message": "triggered by agent"}).
		WithRelationship("workspace", "workspaces", "ws-abc123")

	data := p["data"].(map[string]any)
	rels := data["relationships"].(map[string]any)
	ws := rels["workspace"].(map[string]any)["data"].(map[string]any)
	assert.Equal(t, "workspaces", ws["type"])
	assert.Equal(t, "ws-abc123", ws["id"])

	// A second relationship lands in the same map.
	p.WithRelationship("configuration-version", "configuration-versions", "cv-x")
	assert.Len(t, data["relationships"], 2)
}

func TestPayload_WithID(t *testing.T) {
	p := NewPayload("vars", map[string]any{"key": "region"}).WithID("var-123")
	data := p["data"].(map[string]any)
	assert.Equal(t, "var-123", data["id"])
}

func TestRelationshipList(t *testing.T) {
	body := RelationshipList("workspaces", []string{"ws-1", "ws-2"})
	refs := body["data"].([]map[string]any)
	require.Len(t, refs, 2)
	assert.Equal(t, "ws-1", refs[0]["id"])
	assert.Equal(t, "workspaces", refs[1]["type"])
}

func TestQuery(t *testing.T) {
	v := NewQuery().
		Page(2, 20).
		Filter("workspace-name", "prod").
		Search("name", "api").
		Q("email", "ops@example.com").
		Set("sort", "-created-at").
		Values()

	assert.Equal(t, "2", v.Get("page[number]"))
	assert.Equal(t, "20", v.Get("page[size]"))
	assert.Equal(t, "prod", v.Get("filter[workspace-name]"))
	assert.Equal(t, "api", v.Get("search[name]"))
	assert.Equal(t, "ops@example.com", v.Get("q[email]"))
	assert.Equal(t, "-created-at", v.Get("sort"))
}

func TestQuery_OmitsEmpty(t *testing.T) {
	assert.Nil(t, NewQuery().Page(0, 0).Filter("name", "").Values())
}
