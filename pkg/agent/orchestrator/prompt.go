package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/llm"
)

const instructions = `You are the operations assistant of a warehouse management system. You help warehouse staff find items, shipments, tasks, stocktakes, locations, accounts and claims, and you carry out operational work through the tools you are given.

Rules:
- Never guess an identifier. Look records up with the search and lookup tools; users type partial codes such as "45678" or "ITM-42".
- When a tool reports multiple_matches, list the candidates with their numbers and ask which one the user means. When the user answers with numbers, "all", or an entity type, call resolve_disambiguation.
- When a tool returns a warning, tell the user what it says and only retry with override_warnings=true if they ask you to proceed anyway.
- When a tool returns blocked=true, explain the blocking reason. Do not try to work around it.
- Bulk and destructive work always goes through a preview tool first. Show the summary and wait for an explicit yes before calling the execute tool with confirmed=true.
- Refer to records as CODE [uuid] exactly as the tools return them in "ref".
- Keep answers short and factual. If a tool fails, say what failed.`

// promptBuilder renders the system instruction of one turn.
type promptBuilder struct {
	scope tools.Scope
	ui    state.UIContext
	state state.SessionState
	now   time.Time
}

func (b *promptBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(instructions)
	prompt.WriteString("\n\n")

	b.writeActor(&prompt)
	b.writeUIContext(&prompt)
	b.writeDisambiguation(&prompt)
	b.writeDraft(&prompt)

	return strings.TrimRight(prompt.String(), "\n")
}

func (b *promptBuilder) writeActor(prompt *strings.Builder) {
	prompt.WriteString("<actor>\n")
	fmt.Fprintf(prompt, "User: %s\n", b.scope.Actor())
	fmt.Fprintf(prompt, "Current time: %s\n", b.now.UTC().Format(time.RFC3339))
	prompt.WriteString("</actor>\n\n")
}

// writeUIContext renders what the user is looking at. These are hints only.
func (b *promptBuilder) writeUIContext(prompt *strings.Builder) {
	ui := b.ui
	if ui.CurrentRoute == "" && len(ui.SelectedItemIds) == 0 && ui.SelectedShipmentId == "" {
		return
	}

	prompt.WriteString("<ui_context>\n")
	if ui.CurrentRoute != "" {
		fmt.Fprintf(prompt, "Current page: %s\n", ui.CurrentRoute)
	}
	if len(ui.SelectedItemIds) > 0 {
		fmt.Fprintf(prompt, "Selected items: %s\n", strings.Join(ui.SelectedItemIds, ", "))
	}
	if ui.SelectedShipmentId != "" {
		fmt.Fprintf(prompt, "Selected shipment: %s\n", ui.SelectedShipmentId)
	}
	prompt.WriteString("</ui_context>\n\n")
}

func (b *promptBuilder) writeDisambiguation(prompt *strings.Builder) {
	d := b.state.PendingDisambiguation
	if d == nil {
		return
	}

	prompt.WriteString("<pending_disambiguation>\n")
	fmt.Fprintf(prompt, "The user was asked to choose between these %s for %q", d.Type, d.OriginalQuery)
	if d.ActionContext != "" {
		fmt.Fprintf(prompt, " in order to %s", d.ActionContext)
	}
	prompt.WriteString(":\n")
	for _, c := range d.Candidates {
		if c.EntityType != "" {
			fmt.Fprintf(prompt, "%d. %s (%s)\n", c.Index, c.Label, c.EntityType)
			continue
		}
		fmt.Fprintf(prompt, "%d. %s\n", c.Index, c.Label)
	}
	prompt.WriteString("If the message answers this choice, call resolve_disambiguation.\n")
	prompt.WriteString("</pending_disambiguation>\n\n")
}

func (b *promptBuilder) writeDraft(prompt *strings.Builder) {
	d := b.state.PendingDraft
	if d == nil {
		return
	}

	prompt.WriteString("<pending_draft>\n")
	fmt.Fprintf(prompt, "A %s draft is waiting for confirmation: %s\n", d.Type, d.Summary)
	fmt.Fprintf(prompt, "If the user confirms, call %s with confirmed=true. If they decline, tell them nothing was changed.\n", executeToolFor(d.Type))
	prompt.WriteString("</pending_draft>\n\n")
}

func executeToolFor(t state.DraftType) string {
	switch t {
	case state.DraftBulkTasks:
		return "execute_bulk_tasks"
	case state.DraftBulkMove:
		return "execute_bulk_move"
	case state.DraftDisposal:
		return "execute_disposal"
	case state.DraftStocktakeClose:
		return "close_stocktake"
	}
	return "the matching execute tool"
}

// trimHistory keeps the last limit user and assistant messages with text.
func trimHistory(history []llm.Message, limit int) []llm.Message {
	kept := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if (m.Role != llm.RoleUser && m.Role != llm.RoleAssistant) || strings.TrimSpace(m.Content) == "" {
			continue
		}
		kept = append(kept, m)
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept
}
