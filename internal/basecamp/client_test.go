package basecamp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitbchqErrors "github.com/gitbchq/gitbchq/internal/errors"
)

// recordedRequest is what the fake server saw.
type recordedRequest struct {
	Method      string
	Path        string
	Accept      string
	ContentType string
	Length      int64
	User        string
	Password    string
	Body        string
}

// fakeServer answers every request with the response registered for
// "METHOD /path" and records what it received.
type fakeServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []recordedRequest
	responses map[string]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeServer(t *testing.T, responses map[string]fakeResponse) *fakeServer {
	t.Helper()

	f := &fakeServer{responses: responses}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	user, password, _ := r.BasicAuth()

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		Accept:      r.Header.Get("Accept"),
		ContentType: r.Header.Get("Content-Type"),
		Length:      r.ContentLength,
		User:        user,
		Password:    password,
		Body:        string(body),
	})
	resp, ok := f.responses[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}

func (f *fakeServer) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{BaseURL: baseURL, APIKey: "secret-key"}, nil)
	require.NoError(t, err)
	return c
}

func TestRoute(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		segments []Segment
		want     string
	}{
		"Empty": {
			segments: nil,
			want:     "",
		},
		"SinglePair": {
			segments: []Segment{Seg("todo_items", 7)},
			want:     "todo_items/7",
		},
		"TrailingKeyOnly": {
			segments: []Segment{Seg("projects", 12), Seg("posts", "")},
			want:     "projects/12/posts",
		},
		"ManyPairs": {
			segments: []Segment{Seg("a", 1), Seg("b", 2), Seg("c", 3)},
			want:     "a/1/b/2/c/3",
		},
		"KeyOnly": {
			segments: []Segment{Seg("upload", "")},
			want:     "upload",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := Route(tc.segments...)
			assert.Equal(t, tc.want, got)
			assert.False(t, strings.HasPrefix(got, "/"))
			assert.False(t, strings.HasSuffix(got, "/"))
		})
	}
}

func TestRouteConcatenation(t *testing.T) {
	t.Parallel()

	left := []Segment{Seg("projects", 1)}
	right := []Segment{Seg("todo_lists", 2), Seg("todo_items", 3)}

	joined := Route(append(append([]Segment{}, left...), right...)...)
	assert.Equal(t, Route(left...)+"/"+Route(right...), joined)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		baseURL string
		wantErr bool
	}{
		"Valid":       {baseURL: "https://example.basecamphq.com"},
		"ValidPath":   {baseURL: "https://example.com/basecamp/"},
		"NoScheme":    {baseURL: "example.com", wantErr: true},
		"Empty":       {baseURL: "", wantErr: true},
		"Unparseable": {baseURL: "http://[::1", wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(Options{BaseURL: tc.baseURL}, nil)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultTimeout, c.timeout)
		})
	}
}

func TestClientURL(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		baseURL string
		route   string
		want    string
	}{
		"NoTrailingSlash": {
			baseURL: "https://example.com",
			route:   "projects/1/posts",
			want:    "https://example.com/projects/1/posts",
		},
		"TrailingSlash": {
			baseURL: "https://example.com/",
			route:   "projects/1/posts",
			want:    "https://example.com/projects/1/posts",
		},
		"BasePath": {
			baseURL: "https://example.com/bc",
			route:   "/upload",
			want:    "https://example.com/bc/upload",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c, err := NewClient(Options{BaseURL: tc.baseURL}, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.URL(tc.route))
		})
	}
}

func TestClientHeadersAndAuth(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, map[string]fakeResponse{
		"GET /projects/1/posts":          {status: http.StatusOK, body: "<posts/>"},
		"POST /upload":                   {status: http.StatusCreated, body: "<upload><id>x</id></upload>"},
		"PUT /todo_items/3/complete.xml": {status: http.StatusOK},
	})
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Get(ctx, "projects/1/posts")
	require.NoError(t, err)
	_, err = c.Post(ctx, "upload", ContentTypeOctet, []byte("patch"))
	require.NoError(t, err)
	_, err = c.Put(ctx, "todo_items/3/complete.xml", nil)
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, ContentTypeXML, r.Accept)
		assert.Equal(t, "secret-key", r.User)
		assert.Empty(t, r.Password)
	}

	assert.Equal(t, ContentTypeXML, reqs[0].ContentType)
	assert.Equal(t, ContentTypeOctet, reqs[1].ContentType)
	assert.Equal(t, int64(5), reqs[1].Length)
	assert.Equal(t, "patch", reqs[1].Body)
	assert.Equal(t, http.MethodPut, reqs[2].Method)
	assert.Empty(t, reqs[2].Body)
}

func TestClientDoesNotInterpretStatus(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, map[string]fakeResponse{
		"GET /broken": {status: http.StatusInternalServerError, body: "oops"},
	})
	c := newTestClient(t, srv.URL)

	resp, err := c.Get(context.Background(), "broken")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "oops", string(resp.Body))
}

func TestClientConnectionLifecycle(t *testing.T) {
	t.Parallel()

	srv := newFakeServer(t, map[string]fakeResponse{
		"GET /ping": {status: http.StatusOK, body: "<ok/>"},
	})
	c := newTestClient(t, srv.URL)
	assert.Nil(t, c.conn, "no connection before the first request")

	_, err := c.Get(context.Background(), "ping")
	require.NoError(t, err)
	first := c.conn
	require.NotNil(t, first)

	_, err = c.Get(context.Background(), "ping")
	require.NoError(t, err)
	assert.Same(t, first, c.conn, "connection is reused")

	c.Close()
	assert.Nil(t, c.conn)
	c.Close()

	_, err = c.Get(context.Background(), "ping")
	require.NoError(t, err)
	assert.NotNil(t, c.conn, "connection is recreated after Close")
	assert.Len(t, srv.Requests(), 3)
}

func TestClientTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Get(context.Background(), "projects/1/posts")
	require.Error(t, err)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrTransport))
}

func TestClientTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrTransport))
}

func TestClientTLSVerification(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	insecure, err := NewClient(Options{BaseURL: srv.URL}, nil)
	require.NoError(t, err)
	resp, err := insecure.Get(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	verifying, err := NewClient(Options{BaseURL: srv.URL, VerifyTLS: true}, nil)
	require.NoError(t, err)
	_, err = verifying.Get(context.Background(), "ping")
	require.Error(t, err)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrTransport))
}

func TestClientOversizedResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, io.LimitReader(zeroReader{}, maxResponseSize+10))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := c.Get(context.Background(), "huge")
	require.Error(t, err)
	assert.True(t, gitbchqErrors.Is(err, gitbchqErrors.ErrMalformedResponse))
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = '0'
	}
	return len(p), nil
}
