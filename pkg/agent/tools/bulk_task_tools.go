package tools

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/pkg/agent/safety"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

type PreviewBulkTasksArgs struct {
	TaskType            string   `json:"task_type" validate:"required,oneof=inspection repair assembly receiving delivery other"`
	ItemIds             []string `json:"item_ids" validate:"max=500" desc:"Item ids or item codes"`
	ShipmentId          string   `json:"shipment_id" desc:"Create tasks for every item on this shipment"`
	GroupIntoSingleTask bool     `json:"group_into_single_task" desc:"One task covering all items. Ignored for inspections, which are always one per item."`
	Title               string   `json:"title" validate:"max=200"`
	Notes               string   `json:"notes" validate:"max=2000"`
}

// bulkTaskPlan is the stored payload of a bulk_tasks draft.
type bulkTaskPlan struct {
	TaskType string        `json:"task_type"`
	Title    string        `json:"title,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Grouped  bool          `json:"grouped"`
	ItemIds  []uuid.UUID   `json:"item_ids"`
	Groups   [][]uuid.UUID `json:"groups"`
}

// taskEligibility splits items into those that may receive a task of the
// given type and those that may not. Active outbound membership is only a
// warning.
func (e *Env) taskEligibility(ctx context.Context, taskType string, ids []uuid.UUID) ([]*entity.Item, []excludedItem, []string, error) {
	items, missing, err := e.itemsByID(ctx, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	excluded := missingItems(missing)

	checker := safety.NewChecker(e.UoW, e.Scope.TenantId)
	inspections, err := checker.Inspections(ctx, itemIDs(items))
	if err != nil {
		return nil, nil, nil, err
	}
	outbound, err := checker.ActiveOutbound(ctx, itemIDs(items))
	if err != nil {
		return nil, nil, nil, err
	}

	var eligible []*entity.Item
	var warnings []string
	for _, item := range items {
		insp := inspections[item.Id]
		switch {
		case gone(item):
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: item.Status, Reason: fmt.Sprintf("%s is %s", item.ItemCode, item.Status)})
			continue
		case taskType == entity.TaskTypeInspection && insp.OpenTask != "":
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: "open_inspection", Reason: fmt.Sprintf("%s already has open inspection %s", item.ItemCode, insp.OpenTask)})
			continue
		case taskType == entity.TaskTypeRepair && !insp.HasCompleted:
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: "missing_inspection", Reason: safety.RepairWarning(item, insp)})
			continue
		}
		if w := safety.OutboundWarning(taskType, item, outbound[item.Id]); w != "" {
			warnings = append(warnings, w)
		}
		eligible = append(eligible, item)
	}
	return eligible, excluded, warnings, nil
}

// taskGroups decides how items become tasks. Inspections are always one
// task per item.
func taskGroups(taskType string, grouped bool, ids []uuid.UUID) [][]uuid.UUID {
	if grouped && taskType != entity.TaskTypeInspection {
		return [][]uuid.UUID{ids}
	}
	groups := make([][]uuid.UUID, len(ids))
	for i, id := range ids {
		groups[i] = []uuid.UUID{id}
	}
	return groups
}

func previewBulkTasks(ctx context.Context, env *Env, args *PreviewBulkTasksArgs) Result {
	ids, res := env.requestedItems(ctx, args.ItemIds, args.ShipmentId)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}

	eligible, excluded, warnings, err := env.taskEligibility(ctx, args.TaskType, ids)
	if err != nil {
		return internalError("check task eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("none of the %d items can get a %s task", len(ids), args.TaskType)
		r.Data = env.withUnresolved(map[string]interface{}{"excluded": excluded})
		return r.withPatch(state.ClearDraft())
	}

	grouped := args.GroupIntoSingleTask && args.TaskType != entity.TaskTypeInspection
	plan := bulkTaskPlan{
		TaskType: args.TaskType,
		Title:    args.Title,
		Notes:    args.Notes,
		Grouped:  grouped,
		ItemIds:  itemIDs(eligible),
	}
	plan.Groups = taskGroups(plan.TaskType, plan.Grouped, plan.ItemIds)

	var summary string
	if grouped {
		summary = fmt.Sprintf("Create 1 %s task covering %d items: %s%s", args.TaskType, len(eligible), codesOf(eligible), excludedSuffix(excluded))
	} else {
		summary = fmt.Sprintf("Create %d %s tasks, one per item: %s%s", len(plan.Groups), args.TaskType, codesOf(eligible), excludedSuffix(excluded))
	}
	draft, err := state.NewDraft(state.DraftBulkTasks, summary, plan, env.Now)
	if err != nil {
		return internalError("build draft", err)
	}

	rows, err := env.itemRows(ctx, eligible)
	if err != nil {
		return internalError("load item details", err)
	}
	data := map[string]interface{}{
		"task_type":  args.TaskType,
		"task_count": len(plan.Groups),
		"item_count": len(eligible),
		"items":      rows,
		"excluded":   excluded,
		"summary":    summary,
	}
	if args.GroupIntoSingleTask && args.TaskType == entity.TaskTypeInspection {
		data["note"] = "inspections are always one task per item; grouping was ignored"
	}
	if len(warnings) > 0 {
		data["warnings"] = warnings
	}
	return previewed(draft, "execute_bulk_tasks", env.withUnresolved(data))
}

type failedTask struct {
	ItemIds []uuid.UUID `json:"item_ids"`
	Error   string      `json:"error"`
}

func executeBulkTasks(ctx context.Context, env *Env, args *ExecuteArgs) Result {
	draft, res := env.pendingDraft(state.DraftBulkTasks, "preview_bulk_tasks", args.Confirmed)
	if res != nil {
		return *res
	}
	var plan bulkTaskPlan
	if err := draft.Decode(&plan); err != nil {
		return fail("the pending draft is unreadable; preview again").withPatch(state.ClearDraft())
	}

	eligible, dropped, _, err := env.taskEligibility(ctx, plan.TaskType, plan.ItemIds)
	if err != nil {
		return internalError("re-check task eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("no item in the draft can get a %s task any more; nothing was created", plan.TaskType)
		r.Data = map[string]interface{}{"excluded": dropped}
		return r.withPatch(state.ClearDraft())
	}

	byId := make(map[uuid.UUID]*entity.Item, len(eligible))
	for _, item := range eligible {
		byId[item.Id] = item
	}

	var created []*entity.Task
	var failed []failedTask
	var errs *multierror.Error
	err = env.inTx(ctx, func() error {
		for _, group := range plan.Groups {
			var items []*entity.Item
			for _, id := range group {
				if item, ok := byId[id]; ok {
					items = append(items, item)
				}
			}
			if len(items) == 0 {
				continue
			}

			task := env.newTask(plan.TaskType, plan.Title, plan.Notes, items)
			if err := env.UoW.TaskRepository().Create(ctx, task, itemIDs(items)); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("task for %s: %w", codesOf(items), err))
				failed = append(failed, failedTask{ItemIds: itemIDs(items), Error: err.Error()})
				continue
			}
			created = append(created, task)
		}
		if len(created) == 0 {
			return errs.ErrorOrNil()
		}
		return nil
	})
	if err != nil {
		return internalError("create tasks", err)
	}
	if errs.ErrorOrNil() != nil {
		env.Logger.Warn("TOOLS", "Bulk task creation partially failed", map[string]interface{}{
			"failed": len(failed),
			"error":  errs.Error(),
		})
	}

	for _, task := range created {
		env.publish(ctx, events.TaskCreated, map[string]interface{}{
			"task_id":     task.Id.String(),
			"task_number": task.TaskNumber,
			"task_type":   task.TaskType,
		})
	}

	data := map[string]interface{}{
		"created_count": len(created),
		"tasks":         taskRows(created),
	}
	if len(dropped) > 0 {
		data["no_longer_eligible"] = dropped
	}
	if len(failed) > 0 {
		data["failed"] = failed
	}
	return ok(fmt.Sprintf("created %d %s tasks", len(created), plan.TaskType), data).withPatch(state.ClearDraft())
}
