package implementation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/mapper"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	taskNumberPrefix   = "TSK-"
	taskNumberAttempts = 3
)

type TaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewTaskRepository(db *gorm.DB) contract.TaskRepository {
	return &TaskRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *TaskRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// Create allocates a task number when none is set. A concurrent writer taking
// the same number trips the (tenant_id, task_number) unique index; the insert
// then retries with a fresh number inside its own savepoint.
func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entity.Task, itemIds []uuid.UUID) error {
	allocate := task.TaskNumber == ""

	var lastErr error
	for attempt := 0; attempt < taskNumberAttempts; attempt++ {
		if allocate {
			number, err := r.NextTaskNumber(ctx, task.TenantId)
			if err != nil {
				return err
			}
			task.TaskNumber = number
		}

		lastErr = r.insert(ctx, task, itemIds)
		if lastErr == nil {
			return nil
		}
		if !allocate || !IsUniqueViolation(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("allocate task number: %w", lastErr)
}

func (r *TaskRepositoryImpl) insert(ctx context.Context, task *entity.Task, itemIds []uuid.UUID) error {
	if task.Id == uuid.Nil {
		task.Id = uuid.New()
	}
	m := r.mapper.TaskToModel(task)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		for _, itemId := range itemIds {
			link := &model.TaskItem{
				Id:       uuid.New(),
				TenantId: task.TenantId,
				TaskId:   m.Id,
				ItemId:   itemId,
			}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		task.Id = uuid.Nil
		return err
	}
	*task = *r.mapper.TaskToEntity(m)
	return nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entity.Task) error {
	m := r.mapper.TaskToModel(task)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.TaskToEntity(m)
	return nil
}

func (r *TaskRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Task, error) {
	var m model.Task
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TaskToEntity(&m), nil
}

func (r *TaskRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Task, error) {
	var models []*model.Task
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TasksToEntities(models), nil
}

func (r *TaskRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Task{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TaskRepositoryImpl) CountGrouped(ctx context.Context, specs ...specification.Specification) ([]contract.TaskCount, error) {
	var rows []contract.TaskCount
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Task{}), specs...)
	err := query.
		Select("task_type, status, COUNT(*) AS count").
		Group("task_type, status").
		Order("task_type ASC, status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TaskRepositoryImpl) FindTaskItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.TaskItem, error) {
	if len(itemIds) == 0 {
		return []*entity.TaskItem{}, nil
	}
	var models []*model.TaskItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id IN ?", tenantId, itemIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.TaskItemsToEntities(models), nil
}

func (r *TaskRepositoryImpl) FindTaskItemsByTaskIDs(ctx context.Context, tenantId uuid.UUID, taskIds []uuid.UUID) ([]*entity.TaskItem, error) {
	if len(taskIds) == 0 {
		return []*entity.TaskItem{}, nil
	}
	var models []*model.TaskItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND task_id IN ?", tenantId, taskIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.TaskItemsToEntities(models), nil
}

// NextTaskNumber returns TSK-nnnnn, one past the highest number in the tenant.
func (r *TaskRepositoryImpl) NextTaskNumber(ctx context.Context, tenantId uuid.UUID) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("tenant_id = ? AND task_number LIKE ?", tenantId, taskNumberPrefix+"%").
		Pluck("task_number", &numbers).Error
	if err != nil {
		return "", err
	}

	highest := 0
	for _, number := range numbers {
		n, err := strconv.Atoi(strings.TrimPrefix(number, taskNumberPrefix))
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%05d", taskNumberPrefix, highest+1), nil
}
