package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-inventory-cache/internal/logger"
)

type recorded struct {
	method string
	path   string
	header http.Header
	body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.calls = append(rec.calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			header: r.Header.Clone(),
			body:   string(body),
		})
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"", "   ", "localhost:5000", "/api"} {
		_, err := New(Config{BaseURL: base})
		assert.Error(t, err, "base %q", base)
	}

	c, err := New(Config{BaseURL: "http://localhost:5000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
}

func TestWithLogger_KeepsCallerComponentTag(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	core, logs := observer.New(zapcore.DebugLevel)
	base := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	c, err := New(Config{BaseURL: srv.URL}, WithLogger(base.With("component", "client")))
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/products", nil))

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	var tags []string
	for _, f := range entries[0].Context {
		if f.Key == "component" {
			tags = append(tags, f.String)
		}
	}
	assert.Equal(t, []string{"client"}, tags)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `[]`)
	c, err := New(Config{BaseURL: srv.URL}, WithTokenSource(StaticToken("abc")))
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, c.Get(context.Background(), "/products", &out))

	all := calls.all()
	require.Len(t, all, 1)
	call := all[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/products", call.path)
	assert.Equal(t, "Bearer abc", call.header.Get("Authorization"))
	assert.NotEmpty(t, call.header.Get(RequestIDHeader))
	assert.Empty(t, call.header.Get("Content-Type"))
}

func TestDo_NoTokenProceedsUnauthenticated(t *testing.T) {
	srv, calls := newServer(t, http.StatusOK, `[]`)
	c, err := New(Config{BaseURL: srv.URL}, WithTokenSource(TokenFunc(func() string { return "" })))
	require.NoError(t, err)

	require.NoError(t, c.Get(context.Background(), "products", nil))
	all := calls.all()
	require.Len(t, all, 1)
	assert.Empty(t, all[0].header.Get("Authorization"))
	assert.Equal(t, "/products", all[0].path)
}

func TestDo_SendsJSONBody(t *testing.T) {
	srv, calls := newServer(t, http.StatusCreated, `{"id":"c1","name":"Livros"}`)
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.Post(context.Background(), "/categories", map[string]string{"name": "Livros"}, &out))

	assert.Equal(t, "c1", out.ID)
	call := calls.all()[0]
	assert.Equal(t, "application/json", call.header.Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Livros"}`, call.body)
}

func TestDo_NoContent(t *testing.T) {
	srv, _ := newServer(t, http.StatusNoContent, "")
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out map[string]any
	assert.NoError(t, c.Do(context.Background(), http.MethodDelete, "/products/p1", nil, &out))
	assert.Nil(t, out)
}

func TestDo_HTTPError(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `{"message":"boom"}`)
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.Get(context.Background(), "/products", nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, `{"message":"boom"}`, httpErr.Body)
	assert.False(t, httpErr.IsNotFound())
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c, err := New(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Get(context.Background(), "/products", nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.Equal(t, "/products", netErr.Path)
}

func TestDo_CancelledContextIsNetworkError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[]`)
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Get(ctx, "/products", nil)
	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_DecodeError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `not json`)
	c, err := New(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	var out []json.RawMessage
	err = c.Get(context.Background(), "/products", &out)
	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
}
