package tools

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type TaskStatsArgs struct {
	TaskType string `json:"task_type" validate:"omitempty,oneof=inspection repair assembly receiving delivery other"`
	Days     int    `json:"days" validate:"omitempty,min=1,max=365" desc:"Window for created and completed counts, default 30"`
}

type taskStats struct {
	WindowDays        int                         `json:"window_days"`
	ByType            map[string]map[string]int64 `json:"by_type"`
	ByStatus          map[string]int64            `json:"by_status"`
	CreatedInWindow   int64                       `json:"created_in_window"`
	CompletedInWindow int64                       `json:"completed_in_window"`
	OpenTotal         int64                       `json:"open_total"`
}

// getTaskStats counts tasks created in the window by type and status, plus
// completions in the window regardless of when the task was created.
func getTaskStats(ctx context.Context, env *Env, args *TaskStatsArgs) Result {
	days := args.Days
	if days == 0 {
		days = 30
	}
	since := env.Now.AddDate(0, 0, -days)

	specs := []specification.Specification{env.tenant()}
	if args.TaskType != "" {
		specs = append(specs, specification.Filter("task_type", args.TaskType))
	}

	grouped, err := env.UoW.TaskRepository().CountGrouped(ctx, append(specs, specification.CreatedSince{Since: since})...)
	if err != nil {
		return internalError("count tasks", err)
	}

	stats := taskStats{
		WindowDays: days,
		ByType:     map[string]map[string]int64{},
		ByStatus:   map[string]int64{},
	}
	for _, g := range grouped {
		if stats.ByType[g.TaskType] == nil {
			stats.ByType[g.TaskType] = map[string]int64{}
		}
		stats.ByType[g.TaskType][g.Status] += g.Count
		stats.ByStatus[g.Status] += g.Count
		stats.CreatedInWindow += g.Count
	}

	stats.CompletedInWindow, err = env.UoW.TaskRepository().Count(ctx, append(specs,
		specification.ByStatus{Statuses: []string{entity.TaskStatusCompleted}},
		specification.OnOrAfter{Field: "completed_at", Time: since},
	)...)
	if err != nil {
		return internalError("count completed tasks", err)
	}

	stats.OpenTotal, err = env.UoW.TaskRepository().Count(ctx, append(specs,
		specification.ByStatus{Statuses: entity.OpenTaskStatuses},
	)...)
	if err != nil {
		return internalError("count open tasks", err)
	}

	return ok(fmt.Sprintf("task statistics for the last %d days", days), stats)
}
