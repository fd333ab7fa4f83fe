package api

import (
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TimestampFormat renders UTC timestamps with microsecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// TaskCreateResponse is the representation returned after creating a task.
type TaskCreateResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
	IsDone      bool    `json:"is_done"`
}

// TaskListItem is one entry of a task listing.
type TaskListItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
	IsDone      bool    `json:"is_done"`
	CreatedAt   string  `json:"created_at"`
}

// TaskDetailResponse is the full representation of a single task.
type TaskDetailResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    int     `json:"priority"`
	IsDone      bool    `json:"is_done"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// TaskListResponse is a page of tasks with the total number of matches.
type TaskListResponse struct {
	Count   int            `json:"count"`
	Results []TaskListItem `json:"results"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// TokenPairResponse is returned after a successful login.
type TokenPairResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// AccessTokenResponse is returned by the refresh endpoint.
type AccessTokenResponse struct {
	Access string `json:"access"`
}

func taskToCreateResponse(t *domain.Task) TaskCreateResponse {
	return TaskCreateResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsDone:      t.IsDone,
	}
}

func taskToListItem(t *domain.Task) TaskListItem {
	return TaskListItem{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsDone:      t.IsDone,
		CreatedAt:   formatTimestamp(t.CreatedAt),
	}
}

func taskToDetailResponse(t *domain.Task) TaskDetailResponse {
	return TaskDetailResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		IsDone:      t.IsDone,
		CreatedAt:   formatTimestamp(t.CreatedAt),
		UpdatedAt:   formatTimestamp(t.UpdatedAt),
	}
}

func tasksToListResponse(count int, tasks []*domain.Task) TaskListResponse {
	results := make([]TaskListItem, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, taskToListItem(t))
	}
	return TaskListResponse{Count: count, Results: results}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username *string `json:"username" validate:"required,min=1,max=150,username"`
	Password *string `json:"password" validate:"required,min=1,max=128"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username *string `json:"username" validate:"required,min=1"`
	Password *string `json:"password" validate:"required,min=1"`
}

// TokenVerifyRequest is the body of POST /auth/token/verify.
type TokenVerifyRequest struct {
	Token *string `json:"token" validate:"required,notblank"`
}

// RefreshRequest is the body of POST /auth/token/refresh.
type RefreshRequest struct {
	Refresh *string `json:"refresh" validate:"required,notblank"`
}

// TaskWriteRequest carries the task fields of a create or full replace, where
// the title is mandatory.
type TaskWriteRequest struct {
	Title       *string `json:"title" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=300"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=3"`
	IsDone      *bool   `json:"is_done"`
}

// TaskPatchRequest carries the task fields of a partial update.
type TaskPatchRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=300"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=3"`
	IsDone      *bool   `json:"is_done"`
}
