package service

import (
	"strconv"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// ParseTaskFilter converts the priority and is_done query values into a
// store filter, returning a *domain.ValidationError for malformed values.
// Empty strings impose no constraint.
func ParseTaskFilter(rawPriority, rawIsDone string) (store.TaskFilter, error) {
	var (
		filter store.TaskFilter
		v      domain.ValidationError
	)

	if rawPriority != "" {
		n, err := strconv.Atoi(rawPriority)
		switch {
		case err != nil:
			v.Add("priority", domain.MsgNotInteger)
		case n < domain.MinPriority:
			v.Add("priority", domain.MsgMinValue(domain.MinPriority))
		case n > domain.MaxPriority:
			v.Add("priority", domain.MsgMaxValue(domain.MaxPriority))
		default:
			filter.Priority = &n
		}
	}

	if rawIsDone != "" {
		b, ok := parseBool(rawIsDone)
		if ok {
			filter.IsDone = &b
		} else {
			v.Add("is_done", domain.MsgNotBoolean)
		}
	}

	if err := v.Err(); err != nil {
		return store.TaskFilter{}, err
	}
	return filter, nil
}

func parseBool(raw string) (bool, bool) {
	switch raw {
	case "true", "True", "1":
		return true, true
	case "false", "False", "0":
		return false, true
	}
	return false, false
}
