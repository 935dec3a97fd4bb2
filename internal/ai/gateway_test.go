package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testParams = SamplingParams{Temperature: 0.7, MaxLength: 1000}

func TestGatewayHuggingFace(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "object body", status: http.StatusOK, body: `{"generated_text":"Hello there"}`, want: "Hello there"},
		{name: "array body", status: http.StatusOK, body: `[{"generated_text":"From a list"}]`, want: "From a list"},
		{name: "missing field", status: http.StatusOK, body: `{"other":"x"}`, want: FallbackReply},
		{name: "blank text", status: http.StatusOK, body: `{"generated_text":"   "}`, want: FallbackReply},
		{name: "padded text kept verbatim", status: http.StatusOK, body: `{"generated_text":"  indented\n  code\n"}`, want: "  indented\n  code\n"},
		{name: "upstream error", status: http.StatusServiceUnavailable, body: `{"error":"loading"}`, want: FallbackReply},
		{name: "garbage", status: http.StatusOK, body: `not json`, want: FallbackReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &got)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			gw := NewGateway(NewHuggingFaceBackend(server.URL, "", testParams), time.Second, zap.NewNop())
			assert.Equal(t, tt.want, gw.Complete(context.Background(), "Hi"))

			require.NotNil(t, got)
			assert.Equal(t, "Hi", got["inputs"])
			params, ok := got["parameters"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, float64(1000), params["max_length"])
			assert.Equal(t, true, params["do_sample"])
		})
	}
}

func TestGatewayUnreachableUsesFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gw := NewGateway(NewHuggingFaceBackend(url, "", testParams), time.Second, nil)
	assert.Equal(t, FallbackReply, gw.Complete(context.Background(), "Hi"))
}

func TestGatewayNilBackend(t *testing.T) {
	gw := NewGateway(nil, 0, nil)
	assert.Equal(t, FallbackReply, gw.Complete(context.Background(), "Hi"))
}

func TestOpenAIBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"compatible reply"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	backend := NewBackend("openai", server.URL+"/v1", "key", "m", testParams)
	assert.Equal(t, "openai", backend.Name())

	gw := NewGateway(backend, time.Second, zap.NewNop())
	assert.Equal(t, "compatible reply", gw.Complete(context.Background(), "Hi"))
}
