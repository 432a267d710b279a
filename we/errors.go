package we

import (
	"errors"
	"fmt"
)

var RevisionConflict = errors.New("revision conflict")

type UnknownActionError struct {
	Type ActionType
}

func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", e.Type)
}

func UnknownAction(actionType ActionType) UnknownActionError {
	return UnknownActionError{Type: actionType}
}

type ValidationError struct {
	Action ActionType
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Action, e.Field, e.Reason)
}

func Invalid(action ActionType, field string, reason string) error {
	return &ValidationError{
		Action: action,
		Field:  field,
		Reason: reason,
	}
}
