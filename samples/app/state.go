package app

import (
	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/samples/user"
	"github.com/weegigs/wee-store-go/we"
)

type State struct {
	Counter counter.State `json:"counter"`
	User    user.State    `json:"user"`
}

func Initial() State {
	return State{
		Counter: counter.Initial(),
		User:    user.Initial(),
	}
}

// Reduce offers the action to every slice. Slices ignore actions they do not
// handle, so an unknown action leaves the state unchanged.
func Reduce(state State, action we.Action) State {
	return State{
		Counter: counter.Reduce(state.Counter, action),
		User:    user.Reduce(state.User, action),
	}
}

// Decoders decodes every action the application understands without
// validating it. Journals are replayed with it.
func Decoders() we.ActionDecoders {
	return counter.Decoders().Merge(user.Decoders())
}

// RemoteDecoders decodes the actions clients may dispatch.
func RemoteDecoders(ids user.IDGenerator) we.ActionDecoders {
	return counter.Decoders().Merge(user.RemoteDecoders(ids))
}
