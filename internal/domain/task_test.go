package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var v *ValidationError
	require.True(t, errors.As(err, &v), "expected ValidationError, got %v", err)
	return v.Fields
}

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.FixedZone("X", 3600))

	t.Run("defaults", func(t *testing.T) {
		task, err := NewTask(7, TaskChanges{Title: strPtr("  buy milk  ")}, now)
		require.NoError(t, err)

		assert.Equal(t, int64(7), task.OwnerID)
		assert.Equal(t, "buy milk", task.Title)
		assert.Nil(t, task.Description)
		assert.Equal(t, DefaultPriority, task.Priority)
		assert.False(t, task.IsDone)
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
		assert.Equal(t, time.UTC, task.CreatedAt.Location())
		assert.Equal(t, 123456000, task.CreatedAt.Nanosecond())
	})

	t.Run("ignores is_done", func(t *testing.T) {
		task, err := NewTask(1, TaskChanges{
			Title:       strPtr("x"),
			Description: OptionalString{Set: true, Value: strPtr("details")},
			Priority:    intPtr(3),
			IsDone:      boolPtr(true),
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "details", *task.Description)
		assert.Equal(t, 3, task.Priority)
		assert.False(t, task.IsDone)
	})

	t.Run("trims title and description", func(t *testing.T) {
		task, err := NewTask(1, TaskChanges{
			Title:       strPtr("  padded title\t"),
			Description: OptionalString{Set: true, Value: strPtr("\n  padded  ")},
		}, now)
		require.NoError(t, err)

		assert.Equal(t, "padded title", task.Title)
		require.NotNil(t, task.Description)
		assert.Equal(t, "padded", *task.Description)
	})

	t.Run("boundary lengths are accepted", func(t *testing.T) {
		_, err := NewTask(1, TaskChanges{
			Title:       strPtr(strings.Repeat("é", TitleMaxLength)),
			Description: OptionalString{Set: true, Value: strPtr(strings.Repeat("d", DescriptionMaxLength))},
		}, now)
		assert.NoError(t, err)
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		_, err := NewTask(1, TaskChanges{
			Title:       strPtr(strings.Repeat("t", TitleMaxLength+1)),
			Description: OptionalString{Set: true, Value: strPtr(strings.Repeat("d", DescriptionMaxLength+1))},
			Priority:    intPtr(4),
		}, now)
		require.Error(t, err)

		fields := fieldErrors(t, err)
		assert.Equal(t, []string{MsgMaxLength(TitleMaxLength)}, fields["title"])
		assert.Equal(t, []string{MsgMaxLength(DescriptionMaxLength)}, fields["description"])
		assert.Equal(t, []string{MsgMaxValue(MaxPriority)}, fields["priority"])
	})

	tests := []struct {
		name    string
		changes TaskChanges
		field   string
		msg     string
	}{
		{"missing title", TaskChanges{}, "title", MsgRequired},
		{"blank title", TaskChanges{Title: strPtr("   ")}, "title", MsgBlank},
		{"priority too low", TaskChanges{Title: strPtr("x"), Priority: intPtr(0)}, "priority", MsgMinValue(MinPriority)},
		{"priority too high", TaskChanges{Title: strPtr("x"), Priority: intPtr(10)}, "priority", MsgMaxValue(MaxPriority)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(1, tt.changes, now)
			assert.Nil(t, task)
			assert.Equal(t, []string{tt.msg}, fieldErrors(t, err)[tt.field])
		})
	}
}

func TestTaskApply(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	newTask := func(t *testing.T) *Task {
		task, err := NewTask(1, TaskChanges{
			Title:       strPtr("original"),
			Description: OptionalString{Set: true, Value: strPtr("desc")},
			Priority:    intPtr(2),
		}, created)
		require.NoError(t, err)
		return task
	}

	t.Run("partial update keeps unsupplied fields", func(t *testing.T) {
		task := newTask(t)
		later := created.Add(time.Minute)

		require.NoError(t, task.Apply(TaskChanges{IsDone: boolPtr(true)}, false, later))

		assert.Equal(t, "original", task.Title)
		assert.Equal(t, "desc", *task.Description)
		assert.Equal(t, 2, task.Priority)
		assert.True(t, task.IsDone)
		assert.Equal(t, later, task.UpdatedAt)
		assert.Equal(t, created, task.CreatedAt)
	})

	t.Run("explicit null clears description", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Apply(TaskChanges{Description: OptionalString{Set: true}}, false, created.Add(time.Second)))
		assert.Nil(t, task.Description)
	})

	t.Run("empty change set still refreshes updated_at", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Apply(TaskChanges{}, false, created))
		assert.True(t, task.UpdatedAt.After(task.CreatedAt))
		assert.Equal(t, created.Add(time.Microsecond), task.UpdatedAt)
	})

	t.Run("invalid change leaves task untouched", func(t *testing.T) {
		task := newTask(t)
		before := *task

		err := task.Apply(TaskChanges{Title: strPtr(""), Priority: intPtr(5), IsDone: boolPtr(true)}, false, created.Add(time.Hour))
		require.Error(t, err)

		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "priority")
		assert.Equal(t, before, *task)
	})

	t.Run("full update requires title", func(t *testing.T) {
		task := newTask(t)
		err := task.Apply(TaskChanges{Priority: intPtr(1)}, true, created.Add(time.Hour))
		assert.Equal(t, []string{MsgRequired}, fieldErrors(t, err)["title"])
	})
}

func TestTaskTouch(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{CreatedAt: base, UpdatedAt: base}

	task.Touch(base.Add(-time.Hour))
	assert.Equal(t, base.Add(time.Microsecond), task.UpdatedAt, "clock going backwards still moves forward")

	task.Touch(base.Add(time.Hour))
	assert.Equal(t, base.Add(time.Hour), task.UpdatedAt)
}

func TestTaskValidate(t *testing.T) {
	now := time.Now()
	valid := &Task{Title: "ok", Priority: 1, CreatedAt: now, UpdatedAt: now}
	assert.NoError(t, valid.Validate())

	invalid := &Task{Title: "", Priority: 9, CreatedAt: now, UpdatedAt: now.Add(-time.Second)}
	fields := fieldErrors(t, invalid.Validate())
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "priority")
	assert.Contains(t, fields, "updated_at")
}

func TestNewTask_MergesDecodeErrors(t *testing.T) {
	var invalid ValidationError
	invalid.Add("title", MsgNotString)
	invalid.Add("priority", MsgNotInteger)

	_, err := NewTask(1, TaskChanges{
		Description: OptionalString{Set: true, Value: strPtr(strings.Repeat("d", DescriptionMaxLength+1))},
		Invalid:     &invalid,
	}, time.Now())

	fields := fieldErrors(t, err)
	assert.Equal(t, []string{MsgNotString}, fields["title"], "type error replaces the required message")
	assert.Equal(t, []string{MsgNotInteger}, fields["priority"])
	assert.Equal(t, []string{MsgMaxLength(DescriptionMaxLength)}, fields["description"])
}
