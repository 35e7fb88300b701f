package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Do sends req and returns the body of a 2xx response. Anything else becomes an *Error.
func Do(client *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, Transport(provider, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transport(provider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, FromStatus(provider, resp.StatusCode, body)
	}

	return body, nil
}

// PostJSON marshals payload and posts it to url with the given bearer token.
func PostJSON(ctx context.Context, client *http.Client, provider, url, token string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return Do(client, provider, req)
}

// ExtractJSONObject returns the outermost {...} span of a model reply, dropping
// markdown fences and any chatter around it.
func ExtractJSONObject(content string) (string, bool) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(content, "}")
	if end == -1 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
