package controller

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/pkg/serverutils"
	"wms-ops-agent/internal/service"
	"wms-ops-agent/pkg/agent/metrics"
	"wms-ops-agent/pkg/agent/orchestrator"
	"wms-ops-agent/pkg/agent/tools"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// streamChunkRunes is the size of one SSE delta.
const streamChunkRunes = 24

type IOpsAgentController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type opsAgentController struct {
	service   service.IOpsAgentService
	jwtSecret string
}

func NewOpsAgentController(service service.IOpsAgentService, jwtSecret string) IOpsAgentController {
	return &opsAgentController{service: service, jwtSecret: jwtSecret}
}

func (c *opsAgentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ops-agent/v1")
	h.Use(serverutils.ScopeMiddleware(c.jwtSecret))
	h.Post("/chat", c.Chat)
}

func (c *opsAgentController) Chat(ctx *fiber.Ctx) error {
	var req dto.OpsAgentChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	scope := tools.Scope{TenantId: req.TenantId}
	if claims := serverutils.ScopeFrom(ctx); claims != nil {
		if claims.TenantId != uuid.Nil && claims.TenantId != req.TenantId {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "token is not valid for this tenant"))
		}
		scope.UserId = claims.UserId
		scope.UserName = claims.Name
		if scope.UserName == "" {
			scope.UserName = claims.UserId.String()
		}
	}

	res, err := c.service.Chat(ctx.UserContext(), scope, &req)
	if err != nil {
		return engineErrorResponse(ctx, err)
	}

	if ctx.Query("stream") == "false" {
		return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
	}
	return streamReply(ctx, res)
}

// engineErrorResponse gives engine failures their own statuses; anything
// else goes to the error handler.
func engineErrorResponse(ctx *fiber.Ctx, err error) error {
	var engineErr *orchestrator.EngineError
	if !errors.As(err, &engineErr) {
		return err
	}

	status := fiber.StatusBadGateway
	message := "The reasoning engine failed. Please try again."
	kind := metrics.ErrorKind(err)
	switch kind {
	case metrics.KindRateLimited:
		status = fiber.StatusTooManyRequests
		message = "Rate limits exceeded, please try again later."
	case metrics.KindPaymentRequired:
		status = fiber.StatusPaymentRequired
		message = "AI credits are exhausted. Please add funds to continue."
	case metrics.KindCanceled:
		kind = metrics.KindUpstream
	}
	return ctx.Status(status).JSON(serverutils.TypedErrorResponse(status, kind, message))
}

func streamReply(ctx *fiber.Ctx, res *dto.OpsAgentChatResponse) error {
	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")
	ctx.Set("X-Session-Id", res.SessionId.String())

	chunks := splitReplyChunks(res.Reply, streamChunkRunes)
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for _, chunk := range chunks {
			payload, err := json.Marshal(dto.OpsAgentStreamChunk{
				Choices: []dto.OpsAgentStreamChoice{{Delta: dto.OpsAgentStreamDelta{Content: chunk}}},
			})
			if err != nil {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			// a flush error means the client went away
			if err := w.Flush(); err != nil {
				return
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		_ = w.Flush()
	})
	return nil
}

func splitReplyChunks(text string, size int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return []string{""}
	}
	out := make([]string, 0, (len(runes)+size-1)/size)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}
