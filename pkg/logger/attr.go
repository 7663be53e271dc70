package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// EntityID records the identifier of the entity being driven under "entity_id".
// If id is nil, it returns an empty Attr.
func EntityID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.String("entity_id", fmt.Sprint(id))
}

// State records a state under the key "state".
func State(state any) slog.Attr {
	return slog.String("state", fmt.Sprint(state))
}

// FromState records the source state of a transition under "from".
func FromState(state any) slog.Attr {
	return slog.String("from", fmt.Sprint(state))
}

// ToState records the target state of a transition under "to".
func ToState(state any) slog.Attr {
	return slog.String("to", fmt.Sprint(state))
}

// Event records the event name under the key "event".
func Event(event any) slog.Attr {
	return slog.String("event", fmt.Sprint(event))
}

// Stage records a notification stage under the key "stage".
func Stage(name string) slog.Attr {
	return slog.String("stage", name)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Driver records a storage driver name under the key "driver".
func Driver(name string) slog.Attr {
	return slog.String("driver", name)
}
