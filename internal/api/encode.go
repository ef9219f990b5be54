package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// builtRequest is a fully-formed request ready for dispatch. Keeping the body
// as bytes lets the retry loop create a fresh reader per attempt.
type builtRequest struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// encodeParameters applies body and query parameters to the request under the
// given encoding mode. JSON mode serializes body params as a JSON object and
// sets the JSON content type; URL mode merges body and query params into the
// query string and never sets a JSON content type. A serialization failure
// returns an error and leaves no partial body behind.
func encodeParameters(br *builtRequest, body map[string]any, query map[string]string, mode Encoding) error {
	switch mode {
	case EncodeJSON:
		if len(body) > 0 {
			encoded, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to encode request body: %w", err)
			}
			br.body = encoded
			br.header.Set("Content-Type", "application/json")
		}
		if len(query) > 0 {
			if err := appendQuery(br, nil, query); err != nil {
				return err
			}
		}
		return nil
	case EncodeURL:
		return appendQuery(br, body, query)
	default:
		return fmt.Errorf("unknown parameter encoding %d", mode)
	}
}

// appendQuery merges body and query parameters into the URL's query string.
func appendQuery(br *builtRequest, body map[string]any, query map[string]string) error {
	if len(body) == 0 && len(query) == 0 {
		return nil
	}

	parsed, err := url.Parse(br.url)
	if err != nil {
		return fmt.Errorf("invalid request URL %q: %w", br.url, err)
	}

	values := parsed.Query()
	for key, value := range body {
		values.Set(key, fmt.Sprint(value))
	}
	for key, value := range query {
		values.Set(key, value)
	}
	parsed.RawQuery = values.Encode()
	br.url = parsed.String()
	return nil
}
