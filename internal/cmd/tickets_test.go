package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketsList_Table(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/support/tickets", jsonResponse(200, `{
			"status": "ok",
			"tickets": [
				{"id": 1, "category": "billing", "status": "open", "last_message": "hello", "unseen": true},
				{"id": "2", "category": "general", "status": "closed"}
			]
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"tickets", "list"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "billing") || !strings.Contains(output, "general") {
		t.Errorf("expected both categories in output, got:\n%s", output)
	}
	if !strings.Contains(output, "ID") || !strings.Contains(output, "CATEGORY") {
		t.Errorf("expected table header, got:\n%s", output)
	}
	// string ticket IDs normalize to numbers
	if !strings.Contains(output, "2") {
		t.Errorf("expected ticket 2 in output, got:\n%s", output)
	}
}

func TestTicketsList_Empty(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/support/tickets", jsonResponse(200, `{"status": "ok", "tickets": []}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"tickets", "list"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "No tickets") {
		t.Errorf("expected empty message on stderr, got:\n%s", output)
	}
}

func TestTicketsCreate_SendsCategoryAndMessage(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/support/tickets", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "ok", "ticket": {"id": 9, "category": "billing"}}`))
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"tickets", "create", "--category", "billing", "my", "app", "charged", "twice"})
		require.NoError(t, err)
	})

	assert.Equal(t, "billing", received["category"])
	assert.Equal(t, "my app charged twice", received["message"])
	assert.Contains(t, output, "Created ticket 9")
}

func TestTicketsCreate_RejectsEmptyMessage(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_ = captureStderr(t, func() {
		err := Execute(context.Background(), []string{"tickets", "create", "--category", "billing", "   "})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ticket message is required")
	})
}

func TestTicketsMessages_SingleTicket(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/support/tickets/7", jsonResponse(200, `{
			"status": "ok",
			"messages": [
				{"id": 1, "message": "hi there", "from_device": true},
				{"id": 2, "message": "how can we help?", "from_device": false}
			]
		}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"tickets", "messages", "7"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "[you] hi there") {
		t.Errorf("expected device message prefix, got:\n%s", output)
	}
	if !strings.Contains(output, "[hub] how can we help?") {
		t.Errorf("expected hub message prefix, got:\n%s", output)
	}
}

func TestTicketsMessages_AllFetchesEveryTicket(t *testing.T) {
	var fetches atomic.Int32
	handler := newRouteHandler().
		On("GET", "/support/tickets", jsonResponse(200, `{
			"status": "ok",
			"tickets": [{"id": 1, "category": "a"}, {"id": 2, "category": "b"}, {"id": 3, "category": "c"}]
		}`))
	for _, id := range []string{"1", "2", "3"} {
		id := id
		handler.On("GET", "/support/tickets/"+id, func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "ok", "messages": [{"id": 1, "message": "msg ` + id + `", "from_device": false}]}`))
		})
	}
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"tickets", "messages", "--all"})
		require.NoError(t, err)
	})

	assert.Equal(t, int32(3), fetches.Load())
	// Output is ordered by ticket ID regardless of fetch completion order.
	i1 := strings.Index(output, "ticket 1")
	i2 := strings.Index(output, "ticket 2")
	i3 := strings.Index(output, "ticket 3")
	require.True(t, i1 >= 0 && i2 >= 0 && i3 >= 0, "all tickets present:\n%s", output)
	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
}

func TestTicketsMessages_AllConflictsWithID(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	_ = captureStderr(t, func() {
		err := Execute(context.Background(), []string{"tickets", "messages", "7", "--all"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either a TICKET_ID or --all")
	})

	_ = captureStderr(t, func() {
		err := Execute(context.Background(), []string{"tickets", "messages"})
		require.Error(t, err)
	})
}

func TestTicketsSend(t *testing.T) {
	var received map[string]any
	handler := newRouteHandler().
		On("POST", "/support/tickets/7/messages", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&received)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status": "ok"}`))
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		err := Execute(context.Background(), []string{"tickets", "send", "7", "thanks,", "fixed", "now"})
		require.NoError(t, err)
	})

	assert.Equal(t, "thanks, fixed now", received["message"])
	assert.Contains(t, output, "Message sent: ok")
}

func TestTicketsUnseen(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/support/unseen", jsonResponse(200, `{"status": "ok", "unseen": true, "count": 2}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"tickets", "unseen"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "Unseen replies: 2") {
		t.Errorf("expected unseen count, got:\n%s", output)
	}
}

func TestTicketsUnseen_None(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/support/unseen", jsonResponse(200, `{"status": "ok", "unseen": false}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"tickets", "unseen"}); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if !strings.Contains(output, "No unseen replies") {
		t.Errorf("expected no-unseen message, got:\n%s", output)
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://hub.example.com", "wss://hub.example.com"},
		{"http://localhost:3000", "ws://localhost:3000"},
		{"wss://already.example.com", "wss://already.example.com"},
	}
	for _, tt := range tests {
		if got := websocketURL(tt.in); got != tt.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("truncate should pass short strings through, got %q", got)
	}
	long := strings.Repeat("x", 100)
	got := truncate(long, 60)
	if len([]rune(got)) != 60 {
		t.Errorf("truncated length = %d, want 60", len([]rune(got)))
	}
	if got := truncate("line\nbreak", 60); got != "line break" {
		t.Errorf("truncate should flatten newlines, got %q", got)
	}
}
