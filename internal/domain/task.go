package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Task field limits.
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 300
	MinPriority          = 1
	MaxPriority          = 3
	DefaultPriority      = 1
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description *string
	Priority    int
	IsDone      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OptionalString distinguishes an absent field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// TaskChanges carries the client-supplied task fields. A nil pointer (or an
// unset Description) means the field was not supplied.
type TaskChanges struct {
	Title       *string
	Description OptionalString
	Priority    *int
	IsDone      *bool

	// Invalid holds errors found while decoding the request, e.g. a title
	// that was not a string. They are reported together with rule violations.
	Invalid *ValidationError
}

// Normalize trims surrounding whitespace from the title and description.
func (c TaskChanges) Normalize() TaskChanges {
	if c.Title != nil {
		trimmed := strings.TrimSpace(*c.Title)
		c.Title = &trimmed
	}
	if c.Description.Value != nil {
		trimmed := strings.TrimSpace(*c.Description.Value)
		c.Description.Value = &trimmed
	}
	return c
}

// Validate checks every supplied field and records violations in v.
// requireTitle is set for creation and full replacement.
// The title is expected to be normalized already.
func (c TaskChanges) Validate(requireTitle bool, v *ValidationError) {
	if c.Title == nil {
		if requireTitle && !v.Has("title") {
			v.Add("title", MsgRequired)
		}
	} else {
		switch n := utf8.RuneCountInString(*c.Title); {
		case n == 0:
			v.Add("title", MsgBlank)
		case n > TitleMaxLength:
			v.Add("title", MsgMaxLength(TitleMaxLength))
		}
	}

	if c.Description.Set && c.Description.Value != nil {
		if utf8.RuneCountInString(*c.Description.Value) > DescriptionMaxLength {
			v.Add("description", MsgMaxLength(DescriptionMaxLength))
		}
	}

	if c.Priority != nil {
		if *c.Priority < MinPriority {
			v.Add("priority", MsgMinValue(MinPriority))
		} else if *c.Priority > MaxPriority {
			v.Add("priority", MsgMaxValue(MaxPriority))
		}
	}
}

// NewTask builds a task owned by ownerID from the supplied fields.
// IsDone is ignored; new tasks always start open.
func NewTask(ownerID int64, c TaskChanges, now time.Time) (*Task, error) {
	c = c.Normalize()

	var v ValidationError
	v.Merge(c.Invalid)
	c.Validate(true, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	ts := Timestamp(now)
	task := &Task{
		OwnerID:   ownerID,
		Title:     *c.Title,
		Priority:  DefaultPriority,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if c.Description.Set {
		task.Description = c.Description.Value
	}
	if c.Priority != nil {
		task.Priority = *c.Priority
	}
	return task, nil
}

// Apply validates c and, if every supplied field is valid, copies it onto t
// and refreshes UpdatedAt. Nothing is modified when validation fails.
func (t *Task) Apply(c TaskChanges, requireTitle bool, now time.Time) error {
	c = c.Normalize()

	var v ValidationError
	v.Merge(c.Invalid)
	c.Validate(requireTitle, &v)
	if err := v.Err(); err != nil {
		return err
	}

	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description.Set {
		t.Description = c.Description.Value
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.IsDone != nil {
		t.IsDone = *c.IsDone
	}
	t.Touch(now)
	return nil
}

// Touch refreshes UpdatedAt to now, moving it forward by one microsecond if
// the clock has not advanced past the previous value.
func (t *Task) Touch(now time.Time) {
	ts := Timestamp(now)
	if !ts.After(t.UpdatedAt) {
		ts = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = ts
}

// Validate checks the stored invariants of an existing task.
func (t *Task) Validate() error {
	var v ValidationError
	TaskChanges{
		Title:       &t.Title,
		Description: OptionalString{Set: true, Value: t.Description},
		Priority:    &t.Priority,
	}.Validate(true, &v)
	if t.UpdatedAt.Before(t.CreatedAt) {
		v.Add("updated_at", "updated_at precedes created_at")
	}
	return v.Err()
}

// Timestamp normalizes t to UTC with microsecond precision, the resolution
// every store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
