package dto

import (
	"time"

	"github.com/google/uuid"
)

type OpsAgentHistoryMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content"`
}

type OpsAgentUIContext struct {
	CurrentRoute       string   `json:"current_route,omitempty" validate:"max=500"`
	SelectedItemIds    []string `json:"selected_item_ids,omitempty" validate:"max=500"`
	SelectedShipmentId string   `json:"selected_shipment_id,omitempty"`
}

type OpsAgentChatRequest struct {
	Message             string                   `json:"message" validate:"required,max=4000"`
	TenantId            uuid.UUID                `json:"tenant_id" validate:"required"`
	UIContext           *OpsAgentUIContext       `json:"ui_context,omitempty"`
	ConversationHistory []OpsAgentHistoryMessage `json:"conversation_history,omitempty" validate:"max=200,dive"`
}

type OpsAgentToolCall struct {
	Name       string `json:"name"`
	Outcome    string `json:"outcome"`
	DurationMs int64  `json:"duration_ms"`
}

type OpsAgentChatResponse struct {
	Reply                 string             `json:"reply"`
	SessionId             uuid.UUID          `json:"session_id"`
	Rounds                int                `json:"rounds"`
	ToolCalls             []OpsAgentToolCall `json:"tool_calls"`
	PendingDisambiguation bool               `json:"pending_disambiguation"`
	PendingDraft          string             `json:"pending_draft,omitempty"`
}

// OpsAgentStreamChunk is one SSE data frame, shaped like an OpenAI delta.
type OpsAgentStreamChunk struct {
	Choices []OpsAgentStreamChoice `json:"choices"`
}

type OpsAgentStreamChoice struct {
	Delta OpsAgentStreamDelta `json:"delta"`
}

type OpsAgentStreamDelta struct {
	Content string `json:"content"`
}

// AgentToolAuditMessage travels on the in-process audit topic.
type AgentToolAuditMessage struct {
	TenantId   uuid.UUID `json:"tenant_id"`
	UserId     uuid.UUID `json:"user_id"`
	SessionId  uuid.UUID `json:"session_id"`
	Actor      string    `json:"actor"`
	Tool       string    `json:"tool"`
	Arguments  string    `json:"arguments"`
	Ok         bool      `json:"ok"`
	Outcome    string    `json:"outcome"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}
