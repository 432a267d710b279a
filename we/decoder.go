package we

import (
	"bytes"
	"context"
	"sort"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type ActionDecoder interface {
	Decode(ctx context.Context, payload json.RawMessage) (Action, error)
}

// DecoderFunction decodes a payload into A and then hands the action to the
// function, which may normalize or reject it. A nil function accepts every
// well formed payload.
type DecoderFunction[A any] func(ctx context.Context, action *A) error

func (f DecoderFunction[A]) Decode(ctx context.Context, payload json.RawMessage) (Action, error) {
	var action A

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.UnmarshalContext(ctx, trimmed, &action); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", ActionTypeOf(action))
		}
	}

	if f != nil {
		if err := f(ctx, &action); err != nil {
			return nil, err
		}
	}

	return action, nil
}

func Decoder[A any]() ActionDecoder {
	var decoder DecoderFunction[A]
	return decoder
}

type ActionDecoders map[ActionType]ActionDecoder

func (d ActionDecoders) Decode(ctx context.Context, remote RemoteAction) (Action, error) {
	decoder := d[remote.Type]
	if decoder == nil {
		return nil, UnknownAction(remote.Type)
	}

	return decoder.Decode(ctx, remote.Payload)
}

func (d ActionDecoders) Merge(others ...ActionDecoders) ActionDecoders {
	merged := make(ActionDecoders, len(d))
	for t, decoder := range d {
		merged[t] = decoder
	}

	for _, other := range others {
		for t, decoder := range other {
			merged[t] = decoder
		}
	}

	return merged
}

// Only returns the subset of decoders registered for the given types.
func (d ActionDecoders) Only(types ...ActionType) ActionDecoders {
	subset := make(ActionDecoders, len(types))
	for _, t := range types {
		if decoder, ok := d[t]; ok {
			subset[t] = decoder
		}
	}

	return subset
}

// Types lists the registered action types in lexical order.
func (d ActionDecoders) Types() []ActionType {
	types := make([]ActionType, 0, len(d))
	for t := range d {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
