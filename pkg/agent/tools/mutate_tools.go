package tools

import (
	"context"
	"fmt"
	"strings"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/pkg/agent/safety"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
)

// gone reports items that have left the warehouse for good.
func gone(item *entity.Item) bool {
	return item.Status == entity.ItemStatusDisposed || item.Status == entity.ItemStatusReleased
}

func defaultTitle(taskType string, items []*entity.Item) string {
	name := strings.ToUpper(taskType[:1]) + taskType[1:]
	if len(items) == 1 {
		return fmt.Sprintf("%s: %s", name, items[0].ItemCode)
	}
	return fmt.Sprintf("%s: %d items", name, len(items))
}

// newTask builds a task for the items; the repository allocates the number.
func (e *Env) newTask(taskType, title, notes string, items []*entity.Item) *entity.Task {
	if title == "" {
		title = defaultTitle(taskType, items)
	}
	task := &entity.Task{
		TenantId:  e.Scope.TenantId,
		TaskType:  taskType,
		Status:    entity.TaskStatusPending,
		Title:     title,
		Notes:     notes,
		CreatedBy: e.Scope.UserId,
		CreatedAt: e.Now,
	}
	if len(items) > 0 {
		task.AccountId = items[0].AccountId
	}
	return task
}

// create_task

type CreateTaskArgs struct {
	TaskType         string `json:"task_type" validate:"required,oneof=inspection repair assembly receiving delivery other"`
	ItemId           string `json:"item_id" validate:"required" desc:"Item id or item code"`
	Title            string `json:"title" validate:"max=200"`
	Notes            string `json:"notes" validate:"max=2000"`
	OverrideWarnings bool   `json:"override_warnings" desc:"Set only after the user has seen the warnings and asked to proceed anyway"`
}

func createTask(ctx context.Context, env *Env, args *CreateTaskArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}
	if gone(item) {
		return fail("%s is %s; tasks cannot be created for it", ref(item.ItemCode, item.Id), item.Status)
	}

	checker := safety.NewChecker(env.UoW, env.Scope.TenantId)
	inspections, err := checker.Inspections(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check inspections", err)
	}
	outbound, err := checker.ActiveOutbound(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check outbound shipments", err)
	}

	var warnings []string
	insp := inspections[item.Id]
	switch args.TaskType {
	case entity.TaskTypeRepair:
		if w := safety.RepairWarning(item, insp); w != "" {
			warnings = append(warnings, w)
		}
	case entity.TaskTypeInspection:
		if insp.OpenTask != "" {
			warnings = append(warnings, fmt.Sprintf("%s already has open inspection %s", item.ItemCode, insp.OpenTask))
		}
	}
	if w := safety.OutboundWarning(args.TaskType, item, outbound[item.Id]); w != "" {
		warnings = append(warnings, w)
	}

	if len(warnings) > 0 && !args.OverrideWarnings {
		return warn(strings.Join(warnings, "; "),
			"no task was created; tell the user about the warning and call create_task again with override_warnings=true only if they want to proceed",
			map[string]interface{}{
				"item":      ref(item.ItemCode, item.Id),
				"task_type": args.TaskType,
				"warnings":  warnings,
			})
	}

	task := env.newTask(args.TaskType, args.Title, args.Notes, []*entity.Item{item})
	if err := env.UoW.TaskRepository().Create(ctx, task, []uuid.UUID{item.Id}); err != nil {
		return internalError("create task", err)
	}

	env.publish(ctx, events.TaskCreated, map[string]interface{}{
		"task_id":     task.Id.String(),
		"task_number": task.TaskNumber,
		"task_type":   task.TaskType,
		"item_ids":    []string{item.Id.String()},
	})

	data := map[string]interface{}{
		"task": newTaskRow(task),
		"item": ref(item.ItemCode, item.Id),
	}
	if len(warnings) > 0 {
		data["overridden_warnings"] = warnings
	}
	return ok(fmt.Sprintf("created %s task %s for %s", task.TaskType, ref(task.TaskNumber, task.Id), item.ItemCode), data)
}

// move_item

type MoveItemArgs struct {
	ItemId       string `json:"item_id" validate:"required" desc:"Item id or item code"`
	ToLocationId string `json:"to_location_id" validate:"required" desc:"Destination location id or code"`
	Reason       string `json:"reason" validate:"max=500"`
}

func (e *Env) loadLocation(ctx context.Context, value string) (*entity.Location, *Result) {
	id, res := parseRef("location", value, "search_locations")
	if res != nil {
		return nil, res
	}
	location, err := e.UoW.LocationRepository().FindOne(ctx, e.tenant(), specification.ByID{ID: id})
	if err != nil {
		r := internalError("load location", err)
		return nil, &r
	}
	if location == nil {
		r := fail("location %s was not found", value)
		return nil, &r
	}
	if !location.IsActive {
		r := fail("location %s is inactive; choose another location", location.Code)
		return nil, &r
	}
	return location, nil
}

func moveItem(ctx context.Context, env *Env, args *MoveItemArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}
	to, res := env.loadLocation(ctx, args.ToLocationId)
	if res != nil {
		return *res
	}
	if gone(item) {
		return fail("%s is %s and cannot be moved", ref(item.ItemCode, item.Id), item.Status)
	}
	if item.LocationId != nil && *item.LocationId == to.Id {
		return fail("%s is already at %s", item.ItemCode, to.Code)
	}

	frozen, err := safety.NewChecker(env.UoW, env.Scope.TenantId).FrozenBy(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check stocktake freeze", err)
	}
	if block := safety.MoveBlock(item, frozen[item.Id]); block != nil {
		data := map[string]interface{}{
			"item": ref(item.ItemCode, item.Id),
			"code": block.Code,
		}
		if s := frozen[item.Id]; s != nil {
			data["stocktake"] = ref(s.StocktakeNumber, s.Id)
		}
		return blocked(block.Reason, data)
	}

	movement := &entity.ItemMovement{
		TenantId:       env.Scope.TenantId,
		ItemId:         item.Id,
		FromLocationId: item.LocationId,
		ToLocationId:   to.Id,
		MovedBy:        env.Scope.UserId,
		MovedByName:    env.Scope.Actor(),
		Reason:         args.Reason,
		CreatedAt:      env.Now,
	}
	err = env.inTx(ctx, func() error {
		if err := env.UoW.ItemRepository().UpdateLocation(ctx, env.Scope.TenantId, []uuid.UUID{item.Id}, to.Id); err != nil {
			return err
		}
		return env.UoW.ItemMovementRepository().Create(ctx, movement)
	})
	if err != nil {
		return internalError("move item", err)
	}

	env.publish(ctx, events.ItemMoved, map[string]interface{}{
		"item_ids":       []string{item.Id.String()},
		"to_location_id": to.Id.String(),
		"to_location":    to.Code,
	})
	return ok(fmt.Sprintf("moved %s to %s", ref(item.ItemCode, item.Id), to.Code), map[string]interface{}{
		"item":        ref(item.ItemCode, item.Id),
		"to_location": ref(to.Code, to.Id),
	})
}

// add_item_note

type AddItemNoteArgs struct {
	ItemId string `json:"item_id" validate:"required" desc:"Item id or item code"`
	Note   string `json:"note" validate:"required,max=2000"`
}

func addItemNote(ctx context.Context, env *Env, args *AddItemNoteArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}
	note := strings.TrimSpace(args.Note)
	if note == "" {
		return fail("note is empty")
	}

	n := &entity.ItemNote{
		TenantId:      env.Scope.TenantId,
		ItemId:        item.Id,
		Note:          note,
		CreatedBy:     env.Scope.UserId,
		CreatedByName: env.Scope.Actor(),
		CreatedAt:     env.Now,
	}
	if err := env.UoW.ItemNoteRepository().Create(ctx, n); err != nil {
		return internalError("add note", err)
	}

	env.publish(ctx, events.ItemNoteAdded, map[string]interface{}{
		"item_id": item.Id.String(),
		"note_id": n.Id.String(),
	})
	return ok(fmt.Sprintf("added a note to %s", ref(item.ItemCode, item.Id)), map[string]interface{}{
		"item":    ref(item.ItemCode, item.Id),
		"note_id": n.Id,
	})
}
