package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// SortKey names one ordering term of a task query.
type SortKey string

// Supported sort keys.
const (
	SortPriorityDesc  SortKey = "-priority"
	SortCreatedAtDesc SortKey = "-created_at"
	SortIDDesc        SortKey = "-id"
)

// DefaultTaskOrder lists higher priorities first, then the most recently
// created. The ID makes the order total when timestamps collide.
var DefaultTaskOrder = []SortKey{SortPriorityDesc, SortCreatedAtDesc, SortIDDesc}

var sortColumns = map[SortKey]string{
	SortPriorityDesc:  "priority DESC",
	SortCreatedAtDesc: "created_at DESC",
	SortIDDesc:        "id DESC",
}

// OrderByClause renders keys as a SQL ORDER BY list.
// Returns ErrInvalidQuery for an unknown key.
func OrderByClause(keys []SortKey) (string, error) {
	terms := make([]string, 0, len(keys))
	for _, key := range keys {
		col, ok := sortColumns[key]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, key)
		}
		terms = append(terms, col)
	}
	return strings.Join(terms, ", "), nil
}

// TaskFilter holds the optional listing predicates. Nil fields impose no
// constraint; supplied fields are combined with AND.
type TaskFilter struct {
	Priority *int
	IsDone   *bool
}

// TaskQuery describes one page of a filtered, ordered task listing.
type TaskQuery struct {
	Filter TaskFilter
	Sort   []SortKey // DefaultTaskOrder when empty
	Offset int
	Limit  int
}

// OrderOrDefault returns q.Sort, or DefaultTaskOrder when none is set.
func (q TaskQuery) OrderOrDefault() []SortKey {
	if len(q.Sort) == 0 {
		return DefaultTaskOrder
	}
	return q.Sort
}

// TaskStore defines the interface for task data persistence.
// Every method is scoped to ownerID.
type TaskStore interface {
	// Create saves a new task and sets task.ID. task.OwnerID is the owner.
	Create(ctx context.Context, task *domain.Task) error

	// Get retrieves a single task.
	// Returns ErrTaskNotFound if it does not exist or belongs to another owner.
	Get(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// Find returns one page of the owner's tasks matching q.Filter together
	// with the total number of matching tasks, ignoring Offset and Limit.
	Find(ctx context.Context, ownerID int64, q TaskQuery) ([]*domain.Task, int, error)

	// Update writes the mutable fields and UpdatedAt of task.
	// Returns ErrTaskNotFound if it does not exist or belongs to another owner.
	Update(ctx context.Context, ownerID int64, task *domain.Task) error

	// Delete removes a task permanently.
	// Returns ErrTaskNotFound if it does not exist or belongs to another owner.
	Delete(ctx context.Context, ownerID, id int64) error
}
