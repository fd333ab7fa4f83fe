package sqlite

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"gorm.io/gorm"
)

// SQLiteTaskStore implements store.TaskStore with gorm.
type SQLiteTaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteTaskStore creates a task store on db.
func NewSQLiteTaskStore(db *gorm.DB, logger *slog.Logger) *SQLiteTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*SQLiteTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *SQLiteTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	rec := toRecord(task)
	rec.ID = 0
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", task.OwnerID))
		return store.NewStoreError("task", "create", "insert failed", mapError(err))
	}

	task.ID = rec.ID
	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", task.OwnerID))
	return nil
}

// Get implements store.TaskStore.Get.
func (s *SQLiteTaskStore) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	var rec taskRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "query failed", mapError(err))
	}
	return rec.toDomain(), nil
}

// Find implements store.TaskStore.Find. The count and the page are read in
// one transaction.
func (s *SQLiteTaskStore) Find(
	ctx context.Context,
	ownerID int64,
	q store.TaskQuery,
) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	orderBy, err := store.OrderByClause(q.OrderOrDefault())
	if err != nil {
		return nil, 0, err
	}

	scoped := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Model(&taskRecord{}).Where("owner_id = ?", ownerID)
		if q.Filter.Priority != nil {
			tx = tx.Where("priority = ?", *q.Filter.Priority)
		}
		if q.Filter.IsDone != nil {
			tx = tx.Where("is_done = ?", *q.Filter.IsDone)
		}
		return tx
	}

	var (
		total   int64
		records []taskRecord
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx).Count(&total).Error; err != nil {
			return err
		}

		page := scoped(tx).Order(orderBy)
		if q.Limit > 0 {
			page = page.Limit(q.Limit)
		}
		if q.Offset > 0 {
			page = page.Offset(q.Offset)
		}
		return page.Find(&records).Error
	})
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, 0, store.NewStoreError("task", "find", "query failed", mapError(err))
	}

	tasks := make([]*domain.Task, 0, len(records))
	for i := range records {
		tasks = append(tasks, records[i].toDomain())
	}
	return tasks, int(total), nil
}

// Update implements store.TaskStore.Update.
func (s *SQLiteTaskStore) Update(ctx context.Context, ownerID int64, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update", slog.String("error", err.Error()))
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND owner_id = ?", task.ID, ownerID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"priority":    task.Priority,
			"is_done":     task.IsDone,
			"updated_at":  task.UpdatedAt,
		})
	if err := result.Error; err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "update", "update failed", mapError(err))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *SQLiteTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&taskRecord{})
	if err := result.Error; err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "delete failed", mapError(err))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func toRecord(t *domain.Task) taskRecord {
	return taskRecord{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsDone:      t.IsDone,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (r *taskRecord) toDomain() *domain.Task {
	return &domain.Task{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		IsDone:      r.IsDone,
		CreatedAt:   domain.Timestamp(r.CreatedAt),
		UpdatedAt:   domain.Timestamp(r.UpdatedAt),
	}
}
