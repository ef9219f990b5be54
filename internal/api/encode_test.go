package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func newBuiltRequest(url string) *builtRequest {
	return &builtRequest{method: http.MethodPost, url: url, header: make(http.Header)}
}

func TestEncodeParameters_JSONBody(t *testing.T) {
	br := newBuiltRequest("https://hub.example.com/device/register")

	err := encodeParameters(br, map[string]any{"udid": "d-1", "premium": true}, nil, EncodeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ct := br.header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var decoded map[string]any
	if err := json.Unmarshal(br.body, &decoded); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if decoded["udid"] != "d-1" {
		t.Errorf("body udid = %v, want d-1", decoded["udid"])
	}
}

func TestEncodeParameters_JSONWithQuery(t *testing.T) {
	br := newBuiltRequest("https://hub.example.com/path")

	err := encodeParameters(br, map[string]any{"a": 1}, map[string]string{"page": "2"}, EncodeJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(br.url, "page=2") {
		t.Errorf("url %q missing query parameter", br.url)
	}
	if br.body == nil {
		t.Error("body should be set in JSON mode")
	}
}

func TestEncodeParameters_URLMode(t *testing.T) {
	br := newBuiltRequest("https://itunes.apple.com/lookup")

	err := encodeParameters(br, map[string]any{"limit": 5}, map[string]string{"bundleId": "com.example.app"}, EncodeURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if br.body != nil {
		t.Error("URL mode must not set a body")
	}
	if ct := br.header.Get("Content-Type"); ct == "application/json" {
		t.Error("URL mode must not set a JSON content type")
	}
	if !strings.Contains(br.url, "bundleId=com.example.app") {
		t.Errorf("url %q missing bundleId", br.url)
	}
	if !strings.Contains(br.url, "limit=5") {
		t.Errorf("url %q missing body-derived parameter", br.url)
	}
}

func TestEncodeParameters_SerializationFailure(t *testing.T) {
	br := newBuiltRequest("https://hub.example.com/path")

	// Channels are not JSON-representable.
	err := encodeParameters(br, map[string]any{"bad": make(chan int)}, nil, EncodeJSON)
	if err == nil {
		t.Fatal("expected error for non-JSON-representable value")
	}
	if br.body != nil {
		t.Error("failed encode must not leave a partial body")
	}
}

func TestEncodeParameters_EmptyNoChange(t *testing.T) {
	br := newBuiltRequest("https://hub.example.com/path")

	if err := encodeParameters(br, nil, nil, EncodeURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.url != "https://hub.example.com/path" {
		t.Errorf("url changed with no parameters: %q", br.url)
	}
}
