package basecamp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
	"github.com/gitbchq/gitbchq/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxResponseSize limits response body reads to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Content types sent by the client.
const (
	ContentTypeXML   = "application/xml"
	ContentTypeOctet = "application/octet-stream"
)

// Segment is one key/value pair of a route.
type Segment struct {
	Key   string
	Value string
}

// Seg builds a Segment, formatting value with fmt.Sprint.
func Seg(key string, value any) Segment {
	return Segment{Key: key, Value: fmt.Sprint(value)}
}

// Route joins segments as key/value/key/value with no leading or trailing
// separator. A segment with an empty value contributes only its key, so
// Route(Seg("projects", 1), Seg("posts", "")) is "projects/1/posts".
func Route(segments ...Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Key)
		b.WriteByte('/')
		b.WriteString(s.Value)
		b.WriteByte('/')
	}
	return strings.TrimRight(b.String(), "/")
}

// Response is a fully buffered HTTP response. The status code is not
// interpreted by the client; callers decide what counts as success.
type Response struct {
	StatusCode int
	Body       []byte
}

// Options configures a Client.
type Options struct {
	// BaseURL prefixes every route.
	BaseURL string

	// APIKey is the basic-auth user name; the password is empty.
	APIKey string

	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration

	// VerifyTLS turns TLS peer verification on.
	VerifyTLS bool

	// Transport replaces the default transport (optional, used by tests).
	Transport http.RoundTripper
}

// Client owns a single reusable connection to the Basecamp API.
//
// A Client is not safe for concurrent use: it serves one request at a time
// for a single caller. The connection is created lazily, released by Close
// and transparently recreated by the next request.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	timeout   time.Duration
	verifyTLS bool
	transport http.RoundTripper
	logger    logger.Logger

	// conn is nil until the first request and after Close
	conn *http.Client
}

// NewClient creates a Client. No connection is opened until the first request.
func NewClient(opts Options, logger logger.Logger) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, gitbchqErrors.Errorf("invalid base URL %q", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:   base,
		apiKey:    opts.APIKey,
		timeout:   timeout,
		verifyTLS: opts.VerifyTLS,
		transport: opts.Transport,
		logger:    logger,
	}, nil
}

// URL resolves route against the base URL.
func (c *Client) URL(route string) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + strings.TrimLeft(route, "/")
	u.RawPath = ""
	return u.String()
}

// ensureConnection returns the open connection or creates a new one.
func (c *Client) ensureConnection() *http.Client {
	if c.conn != nil {
		return c.conn
	}

	transport := c.transport
	if transport == nil {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !c.verifyTLS, //nolint:gosec
			},
		}
	}

	c.conn = &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
	}
	c.log("opened connection to %s", c.baseURL.Host)
	return c.conn
}

// Close releases the connection. The next request opens a new one.
func (c *Client) Close() {
	if c.conn == nil {
		return
	}
	c.conn.CloseIdleConnections()
	c.conn = nil
	c.log("closed connection to %s", c.baseURL.Host)
}

// Get issues a GET request on route.
func (c *Client) Get(ctx context.Context, route string) (*Response, error) {
	return c.do(ctx, http.MethodGet, route, ContentTypeXML, nil)
}

// Post issues a POST request on route with body sent as contentType.
func (c *Client) Post(ctx context.Context, route, contentType string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, route, contentType, body)
}

// Put issues a PUT request on route with body, which may be empty.
func (c *Client) Put(ctx context.Context, route string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPut, route, ContentTypeXML, body)
}

// do sends one request and buffers the whole response body.
func (c *Client) do(ctx context.Context, method, route, contentType string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(route), bytes.NewReader(body))
	if err != nil {
		return nil, gitbchqErrors.Wrapf(gitbchqErrors.ErrTransport, "creating %s %s: %v", method, route, err)
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Accept", ContentTypeXML)
	req.Header.Set("Content-Type", contentType)
	req.SetBasicAuth(c.apiKey, "")

	c.log("%s %s (%d bytes)", method, route, len(body))

	resp, err := c.ensureConnection().Do(req)
	if err != nil {
		return nil, gitbchqErrors.Errorf("%w: %s %s: %w", gitbchqErrors.ErrTransport, method, route, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Read maxResponseSize+1 to detect oversized responses
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, gitbchqErrors.Errorf("%w: reading %s %s: %w", gitbchqErrors.ErrTransport, method, route, err)
	}
	if len(respBody) > maxResponseSize {
		return nil, gitbchqErrors.Wrapf(gitbchqErrors.ErrMalformedResponse,
			"%s %s: response exceeds maximum size of %d bytes", method, route, maxResponseSize)
	}

	c.log("%s %s -> %d", method, route, resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func (c *Client) log(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Info(format, args...)
	}
}
