package tfc

import (
	"net/url"
)

// Request describes a single API call. It is built by the calling tool,
// consumed once by Client.Do, and never mutated by the transport.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, DELETE).
	Method string

	// Path is the API path relative to the v2 base URL, without a leading
	// slash (e.g. "workspaces/ws-abc123").
	Path string

	// Query holds query parameters. May be nil.
	Query url.Values

	// Body is the JSON request body for POST/PATCH calls. Marshaled by the
	// transport; may be nil.
	Body any

	// RawText requests the response body be returned as unparsed text.
	// Used for endpoints that serve log streams or state files rather
	// than JSON. The flag survives redirect resolution, since redirect
	// targets are typically raw content.
	RawText bool
}

// Response is the successful outcome of one API call.
type Response struct {
	// StatusCode is the HTTP status code (2xx).
	StatusCode int

	// JSON is the decoded response body. Nil for 204 responses and for
	// raw-text responses.
	JSON any

	// Text is the raw response body when the request set RawText.
	Text string
}

// NoContent reports whether the response was a 204 with no body.
func (r *Response) NoContent() bool {
	return r.StatusCode == 204
}
