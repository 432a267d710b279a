package we

import (
	"github.com/goccy/go-json"
)

type ActionType string

func (t ActionType) String() string {
	return string(t)
}

type Action any

// RemoteAction is the wire form of an action. It is turned into a typed
// action by an ActionDecoders registry before being dispatched.
type RemoteAction struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func ActionTypeOf(action Action) ActionType {
	switch a := action.(type) {
	case RemoteAction:
		return a.Type
	case *RemoteAction:
		return a.Type
	default:
		return ActionType(NameOf(action))
	}
}

// EncodeAction converts a typed action to its wire form.
func EncodeAction(action Action) (RemoteAction, error) {
	if remote, ok := action.(RemoteAction); ok {
		return remote, nil
	}

	payload, err := json.Marshal(action)
	if err != nil {
		return RemoteAction{}, err
	}

	return RemoteAction{Type: ActionTypeOf(action), Payload: payload}, nil
}
