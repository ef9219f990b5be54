package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRouter_CompletionExactlyOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	router := NewRouter(client)

	var completions atomic.Int32
	done := make(chan struct{})
	router.Send(GetProducts(), func(data []byte, resp *http.Response, err error) {
		completions.Add(1)
		close(done)
	})

	<-done
	// Allow any spurious duplicate delivery to surface.
	time.Sleep(20 * time.Millisecond)
	if got := completions.Load(); got != 1 {
		t.Errorf("completions = %d, want exactly 1", got)
	}
}

func TestRouter_CompletionExactlyOnceAfterRetries(t *testing.T) {
	client := newTestClient(t, "http://hub.test")
	ft := &failingTransport{}
	client.HTTP = &http.Client{Transport: ft}
	router := NewRouter(client)

	var completions atomic.Int32
	done := make(chan error, 1)
	router.Send(GetProducts(), func(data []byte, resp *http.Response, err error) {
		completions.Add(1)
		done <- err
	})

	err := <-done
	var connErr *ConnectivityError
	if !errors.As(err, &connErr) {
		t.Errorf("completion error = %v, want ConnectivityError", err)
	}
	if got := ft.attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}

	time.Sleep(20 * time.Millisecond)
	if got := completions.Load(); got != 1 {
		t.Errorf("completions = %d, want exactly 1", got)
	}
}

func TestRouter_BuildFailureCompletesAsync(t *testing.T) {
	client := newTestClient(t, "http://hub.test")
	ft := &failingTransport{}
	client.HTTP = &http.Client{Transport: ft}
	router := NewRouter(client)

	done := make(chan error, 1)
	router.Send(DeviceRegister(map[string]any{"bad": make(chan int)}), func(data []byte, resp *http.Response, err error) {
		if data != nil || resp != nil {
			t.Error("build failure should complete with nil data and response")
		}
		done <- err
	})

	if err := <-done; err == nil {
		t.Error("expected build error in completion")
	}
	if got := ft.attempts.Load(); got != 0 {
		t.Errorf("network attempts = %d, want 0 for a build failure", got)
	}
}

func TestRouter_CancelAbortsInFlight(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL)
	router := NewRouter(client)

	done := make(chan error, 1)
	router.Send(GetProducts(), func(data []byte, resp *http.Response, err error) {
		done <- err
	})

	time.Sleep(50 * time.Millisecond)
	router.Cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled request should complete with an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("completion did not fire after Cancel")
	}
}

func TestRouter_CancelWithNothingInFlight(t *testing.T) {
	client := newTestClient(t, "http://hub.test")
	router := NewRouter(client)

	// Must be a harmless no-op.
	router.Cancel()
	router.Cancel()
}

func TestRouter_SerializedCompletions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	router := NewRouter(client)

	var active atomic.Int32
	var overlapped atomic.Bool
	done := make(chan struct{}, 10)

	for i := 0; i < 10; i++ {
		router.Send(GetProducts(), func(data []byte, resp *http.Response, err error) {
			if active.Add(1) > 1 {
				overlapped.Store(true)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
			done <- struct{}{}
		})
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if overlapped.Load() {
		t.Error("completions overlapped; delivery must be serialized per Router")
	}
}
