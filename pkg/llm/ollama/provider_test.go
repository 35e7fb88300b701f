package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/pkg/llm"
)

func TestOllamaProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 600, req.Options.NumPredict)

		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"{\"care\":{}}"},"done":true}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(server.URL, "llama3", time.Second)
	reply, err := p.Generate(context.Background(), "care for a fern", llm.WithMaxTokens(600))

	require.NoError(t, err)
	assert.Equal(t, `{"care":{}}`, reply)
}
