package api

import (
	"context"
	"encoding/json"
	"log/slog"
)

// call is the shared pipeline behind every operation method: execute, then
// classify, then decode. Transport failures surface as ConnectivityError,
// delivered error responses as *APIError with the typed error shape decoded
// best-effort, and malformed success payloads as *DecodeError. Parametrized
// by the operation's success shape so the classify/decode/complete sequence
// exists exactly once.
func call[T any](ctx context.Context, c *Client, ep Endpoint) (*T, error) {
	data, resp, err := c.Do(ctx, ep)
	if err != nil {
		slog.Warn("request not delivered", "operation", string(ep.op), "error", err)
		return nil, err
	}

	status := classify(resp.StatusCode)
	if status != StatusSuccess {
		apiErr := newAPIError(resp.StatusCode, data, resp.Header)
		if status == StatusFailed {
			slog.Error("request failed", "operation", string(ep.op), "reason", status.String(), "status", resp.StatusCode)
		} else {
			slog.Warn("request rejected", "operation", string(ep.op), "reason", status.String(), "status", resp.StatusCode)
		}
		return nil, apiErr
	}

	if len(data) == 0 {
		slog.Warn("empty response body", "operation", string(ep.op))
		return nil, ErrNoData
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("response decode failed", "operation", string(ep.op), "error", err)
		return nil, &DecodeError{Op: ep.op, Err: err}
	}
	return &value, nil
}
