package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
)

// TaskCount is one (type, status) bucket of a grouped task count.
type TaskCount struct {
	TaskType string
	Status   string
	Count    int64
}

type TaskRepository interface {
	// Create inserts the task and one task_items row per item id.
	Create(ctx context.Context, task *entity.Task, itemIds []uuid.UUID) error
	Update(ctx context.Context, task *entity.Task) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountGrouped(ctx context.Context, specs ...specification.Specification) ([]TaskCount, error)
	FindTaskItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.TaskItem, error)
	FindTaskItemsByTaskIDs(ctx context.Context, tenantId uuid.UUID, taskIds []uuid.UUID) ([]*entity.TaskItem, error)
	NextTaskNumber(ctx context.Context, tenantId uuid.UUID) (string, error)
}
