package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/pkg/serverutils"
	"wms-ops-agent/pkg/agent/orchestrator"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-secret"

type stubService struct {
	reply string
	err   error
	scope tools.Scope
}

func (s *stubService) Chat(_ context.Context, scope tools.Scope, _ *dto.OpsAgentChatRequest) (*dto.OpsAgentChatResponse, error) {
	s.scope = scope
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OpsAgentChatResponse{Reply: s.reply, SessionId: uuid.New(), Rounds: 1}, nil
}

func newApp(svc *stubService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewOpsAgentController(svc, testSecret).RegisterRoutes(app.Group("/api"))
	return app
}

func chatRequest(t *testing.T, path string, tenant uuid.UUID, token string) *http.Request {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"message": "where is 45678?", "tenant_id": tenant})
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func token(t *testing.T, userId, tenantId uuid.UUID, name string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   userId.String(),
		"tenant_id": tenantId.String(),
		"name":      name,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestChat_StreamsReply(t *testing.T) {
	svc := &stubService{reply: "Shipment SHP-2024-45678 [abc] is pending at dock 3."}
	app := newApp(svc)

	resp, err := app.Test(chatRequest(t, "/api/ops-agent/v1/chat", uuid.New(), ""), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	frames := strings.Split(strings.TrimSpace(string(raw)), "\n\n")
	require.True(t, len(frames) >= 3)
	assert.Equal(t, "data: [DONE]", frames[len(frames)-1])

	var rebuilt strings.Builder
	for _, frame := range frames[:len(frames)-1] {
		var chunk dto.OpsAgentStreamChunk
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &chunk))
		rebuilt.WriteString(chunk.Choices[0].Delta.Content)
	}
	assert.Equal(t, svc.reply, rebuilt.String())
	assert.Equal(t, tools.UnknownActor, svc.scope.Actor())
}

func TestChat_JSONWhenStreamDisabled(t *testing.T) {
	svc := &stubService{reply: "Done."}
	app := newApp(svc)
	userId, tenantId := uuid.New(), uuid.New()

	resp, err := app.Test(chatRequest(t, "/api/ops-agent/v1/chat?stream=false", tenantId, token(t, userId, tenantId, "Dana Ops")), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body serverutils.BaseResponse[dto.OpsAgentChatResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "Done.", body.Data.Reply)
	assert.Equal(t, "Dana Ops", svc.scope.Actor())
	assert.Equal(t, userId, svc.scope.UserId)
	assert.Equal(t, tenantId, svc.scope.TenantId)
}

func TestChat_Errors(t *testing.T) {
	tenantId := uuid.New()
	tests := []struct {
		name          string
		err           error
		token         string
		body          string
		wantStatus    int
		wantErrorType string
	}{
		{name: "rate limited", err: &orchestrator.EngineError{Round: 1, Err: llm.StatusError("gateway", 429, "")}, wantStatus: 429, wantErrorType: "rate_limited"},
		{name: "payment", err: &orchestrator.EngineError{Round: 2, Err: llm.StatusError("gateway", 402, "")}, wantStatus: 402, wantErrorType: "payment_required"},
		{name: "upstream", err: &orchestrator.EngineError{Round: 1, Err: llm.StatusError("gateway", 503, "down")}, wantStatus: 502, wantErrorType: "upstream_error"},
		{name: "session store", err: errors.New("load agent session: redis down"), wantStatus: 500},
		{name: "other tenant token", token: token(t, uuid.New(), uuid.New(), "Eve"), wantStatus: 403},
		{name: "missing message", body: `{"tenant_id":"` + tenantId.String() + `"}`, wantStatus: 400},
		{name: "malformed body", body: `{`, wantStatus: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(&stubService{reply: "x", err: tt.err})
			req := chatRequest(t, "/api/ops-agent/v1/chat", tenantId, tt.token)
			if tt.body != "" {
				req = httptest.NewRequest("POST", "/api/ops-agent/v1/chat", strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body serverutils.BaseResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantErrorType, body.ErrorType)
		})
	}
}

func TestSplitReplyChunks(t *testing.T) {
	assert.Equal(t, []string{""}, splitReplyChunks("", 4))
	assert.Equal(t, []string{"abcd", "ef"}, splitReplyChunks("abcdef", 4))
	assert.Equal(t, []string{"día", "s"}, splitReplyChunks("días", 3))
}
