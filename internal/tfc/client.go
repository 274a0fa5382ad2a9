// Package tfc implements the Terraform Cloud API transport: request
// execution, authenticated-redirect resolution, and error classification.
//
// The package is the single place transport and parse failures are caught
// and converted into the closed Kind taxonomy. Callers above it only ever
// see *Error values, never raw net/http errors.
package tfc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	internallog "github.com/tombee/tfcmcp/internal/log"
)

const (
	// DefaultAddress is the Terraform Cloud endpoint used when no address
	// is configured. Terraform Enterprise installs override it.
	DefaultAddress = "https://app.terraform.io"

	// apiBasePath is the v2 API prefix appended to the address.
	apiBasePath = "/api/v2/"

	// contentTypeJSONAPI is the media type the API speaks.
	contentTypeJSONAPI = "application/vnd.api+json"

	defaultTimeout = 30 * time.Second
)

// Config configures the API client.
type Config struct {
	// Address is the Terraform Cloud/Enterprise base URL without the API
	// path (default: https://app.terraform.io).
	Address string

	// Token is the bearer credential. May be empty: the absence is not
	// fatal at construction and surfaces as an authentication error on
	// the first call.
	Token string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// Logger receives method/path/status logs. Defaults to the
	// environment-configured logger.
	Logger *slog.Logger
}

// Client issues requests against the Terraform Cloud API. It holds no
// mutable state after construction, so any number of concurrent calls may
// share one Client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// bareClient issues redirect follow-ups. It shares the transport but
	// never carries the credential.
	bareClient *http.Client
	logger     *slog.Logger
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	address := strings.TrimSuffix(cfg.Address, "/")
	if address == "" {
		address = DefaultAddress
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = internallog.New(internallog.FromEnv())
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	// Redirects are handled by resolveRedirect, not net/http: the default
	// policy would forward the Authorization header to the pre-signed
	// storage host.
	noFollow := func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		baseURL: address + apiBasePath,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: noFollow,
		},
		bareClient: &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: noFollow,
		},
		logger: internallog.WithComponent(logger, "transport"),
	}
}

// Do executes one API request and returns its outcome. The returned error,
// when non-nil, is always a *Error carrying exactly one Kind. There is no
// retry: a failure surfaces immediately and the caller decides what to do.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	logger := internallog.WithRequestID(c.logger, uuid.New().String())

	resp, err := c.execute(ctx, req, logger)

	observeRequest(req.Method, resp, err, time.Since(start))
	c.logOutcome(logger, req, resp, err, time.Since(start))

	return resp, err
}

// DoExternal fetches a pre-signed URL obtained from a prior API response
// (log-read-url, hosted-state-download-url). The URL embeds its own
// authorization, so no credential is sent. Redirects are resolved the
// same way as for API paths.
func (c *Client) DoExternal(ctx context.Context, rawURL string, rawText bool) (*Response, error) {
	start := time.Now()
	logger := internallog.WithRequestID(c.logger, uuid.New().String())

	// The URL's query string is its authorization; log only the
	// scheme/host/path portion.
	req := &Request{Method: "GET", Path: redactQuery(rawURL), RawText: rawText}
	resp, err := c.executeExternal(ctx, rawURL, req, logger)

	observeRequest(req.Method, resp, err, time.Since(start))
	c.logOutcome(logger, req, resp, err, time.Since(start))

	return resp, err
}

func (c *Client) executeExternal(ctx context.Context, rawURL string, req *Request, logger *slog.Logger) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, rawURL, nil)
	if err != nil {
		return nil, &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("failed to build request: %s", err.Error()),
			Cause:   err,
		}
	}
	if req.RawText {
		httpReq.Header.Set("Accept", "text/plain, application/json")
	}

	httpResp, err := c.bareClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	if isRedirect(httpResp.StatusCode) {
		return c.resolveRedirect(ctx, req, httpResp, logger)
	}

	return decodeResponse(httpResp, req.RawText)
}

func (c *Client) execute(ctx context.Context, req *Request, logger *slog.Logger) (*Response, error) {
	if c.token == "" {
		return nil, &Error{
			Kind:    KindAuthentication,
			Message: "no API token configured; set the TFC_TOKEN environment variable",
		}
	}

	httpReq, err := c.buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("failed to build request: %s", err.Error()),
			Cause:   err,
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer httpResp.Body.Close()

	if isRedirect(httpResp.StatusCode) {
		return c.resolveRedirect(ctx, req, httpResp, logger)
	}

	return decodeResponse(httpResp, req.RawText)
}

// resolveRedirect re-issues a redirected request against the pre-signed
// target URL. The target embeds its own authorization in the query string,
// so the bearer credential is omitted: forwarding it is unnecessary and,
// when the target is a different host, leaks the token to a third party.
// At most one hop is followed; a second redirect is unexpected protocol
// behavior and classified as a server error.
func (c *Client) resolveRedirect(ctx context.Context, req *Request, redirect *http.Response, logger *slog.Logger) (*Response, error) {
	target := redirect.Header.Get("Location")
	if target == "" {
		return nil, &Error{
			Kind:       KindServer,
			StatusCode: redirect.StatusCode,
			Message:    fmt.Sprintf("redirect response (status %d) without a Location header", redirect.StatusCode),
		}
	}
	targetURL, err := url.Parse(target)
	if err != nil {
		return nil, &Error{
			Kind:       KindServer,
			StatusCode: redirect.StatusCode,
			Message:    "redirect response with an unparsable Location header",
			Cause:      err,
		}
	}

	logger.Debug("resolving redirect",
		internallog.MethodKey, req.Method,
		internallog.PathKey, req.Path,
		"target_host", targetURL.Host,
	)

	followReq, err := http.NewRequestWithContext(ctx, req.Method, targetURL.String(), nil)
	if err != nil {
		return nil, &Error{
			Kind:    KindServer,
			Message: fmt.Sprintf("failed to build redirect request: %s", err.Error()),
			Cause:   err,
		}
	}
	if req.RawText {
		followReq.Header.Set("Accept", "text/plain, application/json")
	}

	followResp, err := c.bareClient.Do(followReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer followResp.Body.Close()

	if isRedirect(followResp.StatusCode) {
		return nil, &Error{
			Kind:       KindServer,
			StatusCode: followResp.StatusCode,
			Message:    "redirect target returned another redirect",
		}
	}

	observeRedirect()
	return decodeResponse(followResp, req.RawText)
}

func (c *Client) buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	u := c.baseURL + strings.TrimPrefix(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSONAPI)
	}

	return httpReq, nil
}

// decodeResponse turns a raw HTTP response into a Response or a classified
// error. Status mapping: 204 is no-content success, other 2xx decode per
// the rawText flag, 401/404/4xx/5xx map to their kinds with the remote
// error detail carried verbatim.
func decodeResponse(httpResp *http.Response, rawText bool) (*Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("failed to read response body: %s", err.Error()),
			Cause:   err,
		}
	}

	status := httpResp.StatusCode
	switch {
	case status == 204:
		return &Response{StatusCode: status}, nil

	case status >= 200 && status < 300:
		if rawText {
			return &Response{StatusCode: status, Text: string(body)}, nil
		}
		if len(body) == 0 {
			return &Response{StatusCode: status}, nil
		}
		var decoded any
		if err := json.Unmarshal(body, &decoded); err != nil {
			// A 2xx that claims JSON but does not parse is an error,
			// never an empty payload.
			return nil, &Error{
				Kind:       KindDecode,
				StatusCode: status,
				Message:    fmt.Sprintf("response claimed JSON but failed to parse: %s", err.Error()),
				Cause:      err,
			}
		}
		return &Response{StatusCode: status, JSON: decoded}, nil

	default:
		return nil, statusError(status, body)
	}
}

// statusError builds the classified error for a non-2xx response, carrying
// the remote-supplied detail verbatim when the body is parseable JSON.
func statusError(status int, body []byte) *Error {
	apiErr := &Error{
		Kind:       classifyStatus(status),
		StatusCode: status,
		Message:    fmt.Sprintf("API request failed: %d", status),
	}

	var details struct {
		Errors []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if len(body) > 0 && json.Unmarshal(body, &details) == nil && len(details.Errors) > 0 {
		first := details.Errors[0]
		switch {
		case first.Detail != "":
			apiErr.Message = first.Detail
		case first.Title != "":
			apiErr.Message = first.Title
		}
	}

	var raw any
	if len(body) > 0 && json.Unmarshal(body, &raw) == nil {
		apiErr.Details = raw
	}

	return apiErr
}

// classifyTransportError maps net/http failures to KindNetwork. This is the
// single point such errors are caught; they never propagate past the
// transport.
func classifyTransportError(err error) *Error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &Error{Kind: KindNetwork, Message: "request timeout", Cause: err}
	}
	if urlErr, ok := err.(*url.Error); ok {
		return &Error{
			Kind:    KindNetwork,
			Message: fmt.Sprintf("connection error: %s", urlErr.Err.Error()),
			Cause:   err,
		}
	}
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("connection error: %s", err.Error()),
		Cause:   err,
	}
}

// redactQuery strips the query string from a URL for log output.
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

// logOutcome records method, path, and the resulting status or kind. The
// credential and request/response bodies are never logged.
func (c *Client) logOutcome(logger *slog.Logger, req *Request, resp *Response, err error, elapsed time.Duration) {
	if err != nil {
		kind := KindNetwork
		status := 0
		if apiErr, ok := err.(*Error); ok {
			kind = apiErr.Kind
			status = apiErr.StatusCode
		}
		logger.Warn("request failed",
			internallog.MethodKey, req.Method,
			internallog.PathKey, req.Path,
			internallog.StatusKey, status,
			internallog.KindKey, string(kind),
			internallog.DurationKey, elapsed.Milliseconds(),
		)
		return
	}
	logger.Debug("request complete",
		internallog.MethodKey, req.Method,
		internallog.PathKey, req.Path,
		internallog.StatusKey, resp.StatusCode,
		internallog.DurationKey, elapsed.Milliseconds(),
	)
}
