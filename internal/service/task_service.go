package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskListParams holds the raw listing query values. Empty strings mean the
// parameter was not supplied.
type TaskListParams struct {
	Priority string
	IsDone   string
	Page     string
	Size     string
}

// TaskPage is one page of a listing plus the number of matching tasks.
type TaskPage struct {
	Count int
	Tasks []*domain.Task
}

// TaskService provides the owner-scoped task operations.
type TaskService interface {
	// CreateTask validates c and stores a new task owned by ownerID.
	CreateTask(ctx context.Context, ownerID int64, c domain.TaskChanges) (*domain.Task, error)

	// GetTask retrieves one of the owner's tasks.
	GetTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// ListTasks filters, orders and paginates the owner's tasks.
	ListTasks(ctx context.Context, ownerID int64, params TaskListParams) (*TaskPage, error)

	// UpdateTask applies c to one of the owner's tasks. requireTitle is set
	// for full replacement.
	UpdateTask(
		ctx context.Context,
		ownerID, taskID int64,
		c domain.TaskChanges,
		requireTitle bool,
	) (*domain.Task, error)

	// DeleteTask removes one of the owner's tasks.
	DeleteTask(ctx context.Context, ownerID, taskID int64) error
}

// TaskServiceOption configures a task service.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now as the source of task timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

type taskServiceImpl struct {
	tasks     store.TaskStore
	paginator Paginator
	logger    *slog.Logger
	now       func() time.Time
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService backed by tasks.
func NewTaskService(
	tasks store.TaskStore,
	paginator Paginator,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) TaskService {
	s := &taskServiceImpl{
		tasks:     tasks,
		paginator: paginator,
		logger:    logger.With("component", "task_service"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID int64,
	c domain.TaskChanges,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, c, s.now())
	if err != nil {
		log.Debug("rejected task creation", slog.Int64("owner_id", ownerID), slog.Any("error", err))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", ownerID))

	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.storeError(ctx, "get_task", "failed to retrieve task", ownerID, taskID, err)
	}
	return task, nil
}

func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID int64,
	params TaskListParams,
) (*TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter, err := ParseTaskFilter(params.Priority, params.IsDone)
	if err != nil {
		return nil, err
	}

	page, err := s.paginator.Resolve(params.Page, params.Size)
	if err != nil {
		log.Debug("rejected page number", slog.String("page", params.Page))
		return nil, err
	}

	tasks, count, err := s.tasks.Find(ctx, ownerID, store.TaskQuery{
		Filter: filter,
		Sort:   store.DefaultTaskOrder,
		Offset: page.Offset(),
		Limit:  page.Size,
	})
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", ownerID))
		return nil, NewTaskServiceError("list_tasks", "failed to query tasks", err)
	}

	if err := s.paginator.Check(page, count); err != nil {
		log.Debug("page past the end of the listing",
			slog.Int("page", page.Number),
			slog.Int("size", page.Size),
			slog.Int("count", count))
		return nil, err
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return &TaskPage{Count: count, Tasks: tasks}, nil
}

func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID int64,
	c domain.TaskChanges,
	requireTitle bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.Get(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.storeError(ctx, "update_task", "failed to retrieve task", ownerID, taskID, err)
	}

	if err := task.Apply(c, requireTitle, s.now()); err != nil {
		log.Debug("rejected task update", slog.Int64("task_id", taskID), slog.Any("error", err))
		return nil, err
	}

	if err := s.tasks.Update(ctx, ownerID, task); err != nil {
		return nil, s.storeError(ctx, "update_task", "failed to save task", ownerID, taskID, err)
	}

	log.Info("task updated",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))

	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if err := s.tasks.Delete(ctx, ownerID, taskID); err != nil {
		return s.storeError(ctx, "delete_task", "failed to delete task", ownerID, taskID, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return nil
}

// storeError logs err and wraps it. Missing and foreign tasks both come back
// as store.ErrTaskNotFound.
func (s *taskServiceImpl) storeError(
	ctx context.Context,
	operation, message string,
	ownerID, taskID int64,
	err error,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if store.IsNotFoundError(err) {
		log.Debug("task not found",
			slog.String("operation", operation),
			slog.Int64("task_id", taskID),
			slog.Int64("owner_id", ownerID))
		return NewTaskServiceError(operation, "task not found", store.ErrTaskNotFound)
	}

	log.Error(message,
		slog.String("error", err.Error()),
		slog.Int64("task_id", taskID),
		slog.Int64("owner_id", ownerID))
	return NewTaskServiceError(operation, message, err)
}
