package serverutils

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func scopeApp() *fiber.App {
	app := fiber.New()
	app.Use(ScopeMiddleware(secret))
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		scope := ScopeFrom(ctx)
		if scope == nil {
			return ctx.JSON(SuccessResponse("anonymous", fiber.Map{}))
		}
		return ctx.JSON(SuccessResponse("known", fiber.Map{
			"user_id":   scope.UserId.String(),
			"tenant_id": scope.TenantId.String(),
			"name":      scope.Name,
		}))
	})
	return app
}

func TestScopeMiddleware(t *testing.T) {
	userId := uuid.New()
	tenantId := uuid.New()
	valid := jwt.MapClaims{
		"user_id":   userId.String(),
		"tenant_id": tenantId.String(),
		"name":      "Dana Ops",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}

	tests := []struct {
		name        string
		header      string
		wantMessage string
		wantName    string
	}{
		{name: "no header", header: "", wantMessage: "anonymous"},
		{name: "not bearer", header: "Basic abc", wantMessage: "anonymous"},
		{name: "garbage token", header: "Bearer not-a-jwt", wantMessage: "anonymous"},
		{name: "wrong secret", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), valid), wantMessage: "anonymous"},
		{name: "expired", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
			"user_id": userId.String(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}), wantMessage: "anonymous"},
		{name: "no user id", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"name": "x"}), wantMessage: "anonymous"},
		{name: "valid", header: "Bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), valid), wantMessage: "known", wantName: "Dana Ops"},
		{name: "lowercase scheme", header: "bearer " + sign(t, jwt.SigningMethodHS256, []byte(secret), valid), wantMessage: "known", wantName: "Dana Ops"},
	}

	app := scopeApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)

			var body BaseResponse[map[string]string]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantName, body.Data["name"])
			if tt.wantName != "" {
				assert.Equal(t, tenantId.String(), body.Data["tenant_id"])
			}
		})
	}
}

type sampleRequest struct {
	Message string `json:"message" validate:"required,max=5"`
	Kind    string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestErrorHandlerAndValidation(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Post("/check", func(ctx *fiber.Ctx) error {
		var req sampleRequest
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		if err := ValidateRequest(req); err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", req))
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return assert.AnError
	})

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantCode    int
		wantMessage string
	}{
		{name: "valid", method: "POST", path: "/check", body: `{"message":"hi"}`, wantCode: 200, wantMessage: "ok"},
		{name: "missing", method: "POST", path: "/check", body: `{}`, wantCode: 400, wantMessage: "Message is required"},
		{name: "too long and bad enum", method: "POST", path: "/check", body: `{"message":"toolong","kind":"c"}`, wantCode: 400, wantMessage: "Message must be at most 5; Kind must be one of [a b]"},
		{name: "plain error", method: "GET", path: "/boom", wantCode: 500, wantMessage: assert.AnError.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			var body BaseResponse[any]
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, tt.wantCode == 200, body.Success)
		})
	}
}
