package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wms-ops-agent/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatWithTools_ParsesToolCalls(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{
				"message": {
					"content": "",
					"tool_calls": [{"id": "call_1", "type": "function", "function": {"name": "search_items", "arguments": "{\"query\":\"10042\"}"}}]
				},
				"finish_reason": "tool_calls"
			}]
		}`))
	}))
	defer srv.Close()

	p := NewGatewayProvider("secret", srv.URL, "test-model")
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "be careful"},
		{Role: llm.RoleUser, Content: "find 10042"},
	}
	tools := []llm.ToolSchema{{Name: "search_items", Description: "search", Parameters: map[string]interface{}{"type": "object"}}}

	resp, err := p.ChatWithTools(context.Background(), history, tools)
	require.NoError(t, err)

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "call_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "search_items", resp.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"10042"}`, resp.ToolCalls[0].Arguments)
	assert.Equal(t, "tool_calls", resp.FinishReason)

	assert.Equal(t, "test-model", captured.Model)
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "function", captured.Tools[0].Type)
	assert.Equal(t, "search_items", captured.Tools[0].Function.Name)
	assert.Len(t, captured.Messages, 2)
}

func TestChatWithTools_SendsToolTranscript(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"done"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewGatewayProvider("", srv.URL, "m")
	history := []llm.Message{
		{Role: llm.RoleAssistant, ToolCalls: []llm.ToolCall{{ID: "c1", Name: "get_item_details", Arguments: `{"item_id":"x"}`}}},
		{Role: llm.RoleTool, ToolCallID: "c1", Name: "get_item_details", Content: `{"ok":true}`},
	}

	resp, err := p.ChatWithTools(context.Background(), history, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Content)
	assert.Empty(t, resp.ToolCalls)

	require.Len(t, captured.Messages, 2)
	require.Len(t, captured.Messages[0].ToolCalls, 1)
	assert.Equal(t, "c1", captured.Messages[0].ToolCalls[0].ID)
	assert.Equal(t, "c1", captured.Messages[1].ToolCallID)
	assert.Nil(t, captured.Tools)
}

func TestChatWithTools_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrRateLimited)
			},
		},
		{
			name:   "payment required",
			status: http.StatusPaymentRequired,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrPaymentRequired)
			},
		},
		{
			name:   "upstream failure",
			status: http.StatusBadGateway,
			check: func(t *testing.T, err error) {
				var upstream *llm.UpstreamError
				require.True(t, errors.As(err, &upstream))
				assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			defer srv.Close()

			_, err := NewGatewayProvider("", srv.URL, "m").ChatWithTools(context.Background(), nil, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestChat_EmptyChoicesIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewGatewayProvider("", srv.URL, "m").Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	var upstream *llm.UpstreamError
	assert.True(t, errors.As(err, &upstream))
}
