package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/pkg/events"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "chat", "events"}, names)
}

func TestChatCommand_RequiresFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"chat", "--tenant", uuid.NewString()})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestChatOptions_Scope(t *testing.T) {
	tenant, user := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		opts    ChatOptions
		wantErr string
	}{
		{"valid", ChatOptions{Tenant: tenant.String(), User: user.String(), Name: "Dana", Message: "hi"}, ""},
		{"bad tenant", ChatOptions{Tenant: "acme", User: user.String(), Message: "hi"}, "invalid --tenant"},
		{"bad user", ChatOptions{Tenant: tenant.String(), User: "42", Message: "hi"}, "invalid --user"},
		{"blank message", ChatOptions{Tenant: tenant.String(), User: user.String(), Message: "  "}, "must not be blank"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := tt.opts.scope()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenant, scope.TenantId)
			assert.Equal(t, user, scope.UserId)
			assert.Equal(t, "Dana", scope.Actor())
		})
	}
}

func TestPrintChat(t *testing.T) {
	var out bytes.Buffer
	printChat(&out, &dto.OpsAgentChatResponse{
		Reply:     "Which one did you mean?",
		SessionId: uuid.New(),
		Rounds:    2,
		ToolCalls: []dto.OpsAgentToolCall{
			{Name: "search_items", Outcome: "multiple_matches", DurationMs: 12},
		},
		PendingDisambiguation: true,
		PendingDraft:          "bulk_move",
	})

	text := out.String()
	assert.Contains(t, text, "search_items -> multiple_matches (12ms)")
	assert.Contains(t, text, "Which one did you mean?")
	assert.Contains(t, text, "2 round(s)")
	assert.Contains(t, text, "waiting for a choice")
	assert.Contains(t, text, "draft bulk_move waiting for confirmation")
}

func TestPrintEvent(t *testing.T) {
	var out bytes.Buffer
	event := events.BaseEvent{
		Type:       events.ItemMoved,
		Data:       map[string]interface{}{"item_code": "ITM-10001"},
		OccurredAt: time.Date(2026, 3, 2, 9, 30, 5, 0, time.UTC),
	}

	require.NoError(t, printEvent(&out, event))
	assert.Contains(t, out.String(), "09:30:05")
	assert.Contains(t, out.String(), "ITEM_MOVED")
	assert.Contains(t, out.String(), `{"item_code":"ITM-10001"}`)
}

func TestMigrate(t *testing.T) {
	db := testdb.New(t)

	n, err := Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, len(model.All()), n)
}

func TestSeed(t *testing.T) {
	db := testdb.New(t)
	tenantId := uuid.New()

	summary, err := Seed(context.Background(), db, tenantId)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
	assert.Equal(t, 8, summary.Items)
	assert.Equal(t, 5, summary.Locations)
	assert.Equal(t, 3, summary.Shipments)
	assert.Equal(t, 2, summary.Tasks)
	assert.Equal(t, 1, summary.Stocktakes)

	var shared int64
	require.NoError(t, db.Model(&model.Item{}).
		Where("tenant_id = ? AND item_code LIKE ?", tenantId, "%4567").
		Count(&shared).Error)
	assert.EqualValues(t, 2, shared)

	var allocated model.Item
	require.NoError(t, db.Where("tenant_id = ? AND item_code = ?", tenantId, "ITM-10006").First(&allocated).Error)
	assert.Equal(t, "allocated", allocated.Status)

	again, err := Seed(context.Background(), db, tenantId)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	var total int64
	require.NoError(t, db.Model(&model.Item{}).Where("tenant_id = ?", tenantId).Count(&total).Error)
	assert.EqualValues(t, 8, total)
}

func TestSeed_TenantsAreIndependent(t *testing.T) {
	db := testdb.New(t)

	_, err := Seed(context.Background(), db, uuid.New())
	require.NoError(t, err)
	second, err := Seed(context.Background(), db, uuid.New())
	require.NoError(t, err)
	assert.False(t, second.Skipped)
}
