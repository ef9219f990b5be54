// Test utilities for exercising vx commands against mock hub servers.
//
// The pieces:
//
//   - routeHandler: chainable HTTP handler mapping "METHOD /path" to responses
//   - setupTestEnvWithHandler: starts an httptest hub and points VXHUB_* at it
//   - captureStdout / captureStderr: output capture
//   - jsonResponse: canned JSON response handler
//
// A minimal command test:
//
//	handler := newRouteHandler().
//	    On("GET", "/support/tickets", jsonResponse(200, `{"status":"ok","tickets":[]}`))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"tickets", "list"}); err != nil {
//	        t.Fatalf("command failed: %v", err)
//	    }
//	})
package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// captureStdout executes fn and returns what it wrote to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// captureStderr executes fn and returns what it wrote to os.Stderr.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// setupTestEnvWithHandler starts a mock hub and sets the VXHUB_* environment so
// commands resolve credentials without touching the keyring:
//
//   - VXHUB_BASE_URL points at the test server
//   - VXHUB_HUB_ID / VXHUB_DEVICE_ID carry a fixed test identity
//   - VXHUB_ALLOW_PRIVATE permits the localhost test URL
//   - VXHUB_NO_CACHE keeps product listings off the filesystem
//
// Everything is restored by t.Setenv / t.Cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("VXHUB_BASE_URL", server.URL)
	t.Setenv("VXHUB_HUB_ID", "hub-1")
	t.Setenv("VXHUB_DEVICE_ID", "vx-test-device")
	t.Setenv("VXHUB_ALLOW_PRIVATE", "1")
	t.Setenv("VXHUB_NO_CACHE", "1")
	t.Setenv("VXHUB_OUTPUT", "text")

	return server
}

// jsonResponse returns a handler producing the given status and JSON body.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes requests by exact "METHOD PATH" match; anything else is
// a 404.
type routeHandler struct {
	routes map[string]http.HandlerFunc
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the method and path, returning the routeHandler
// for chaining.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	if handler, ok := rh.routes[key]; ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}
