package we

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type Amount int

type Greeting struct {
	Name string `json:"name"`
}

func greetingDecoder() ActionDecoder {
	var decoder DecoderFunction[Greeting] = func(ctx context.Context, greeting *Greeting) error {
		if greeting.Name == "" {
			return Invalid(ActionTypeOf(*greeting), "name", "is required")
		}
		return nil
	}

	return decoder
}

func testDecoders() ActionDecoders {
	return ActionDecoders{
		ActionTypeOf(TestAction{}): Decoder[TestAction](),
		ActionTypeOf(Amount(0)):    Decoder[Amount](),
		ActionTypeOf(Greeting{}):   greetingDecoder(),
	}
}

func TestDecoders(t *testing.T) {
	ctx := context.Background()
	decoders := testDecoders()

	t.Run("decodes scalar payloads", func(t *testing.T) {
		action, err := decoders.Decode(ctx, RemoteAction{Type: "we/amount", Payload: []byte("5")})
		if assert.Nil(t, err) {
			assert.Equal(t, Amount(5), action)
		}
	})

	t.Run("decodes missing payloads to the zero value", func(t *testing.T) {
		action, err := decoders.Decode(ctx, RemoteAction{Type: "we/testAction"})
		if assert.Nil(t, err) {
			assert.Equal(t, TestAction{}, action)
		}
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		_, err := decoders.Decode(ctx, RemoteAction{Type: "we/missing"})

		var unknown UnknownActionError
		assert.True(t, errors.As(err, &unknown))
		assert.Equal(t, ActionType("we/missing"), unknown.Type)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		_, err := decoders.Decode(ctx, RemoteAction{Type: "we/amount", Payload: []byte(`"five"`)})
		assert.NotNil(t, err)
	})

	t.Run("applies validation", func(t *testing.T) {
		_, err := decoders.Decode(ctx, RemoteAction{Type: "we/greeting", Payload: []byte(`{}`)})

		var invalid *ValidationError
		if assert.True(t, errors.As(err, &invalid)) {
			assert.Equal(t, "name", invalid.Field)
		}
	})

	t.Run("round trips encoded actions", func(t *testing.T) {
		remote, err := EncodeAction(Greeting{Name: "wee"})
		if !assert.Nil(t, err) {
			return
		}

		action, err := decoders.Decode(ctx, remote)
		if assert.Nil(t, err) {
			assert.Equal(t, Greeting{Name: "wee"}, action)
		}
	})

	t.Run("selects a subset", func(t *testing.T) {
		subset := decoders.Only("we/amount", "we/missing")
		assert.Len(t, subset, 1)
		assert.Contains(t, subset, ActionType("we/amount"))
	})

	t.Run("merges registries", func(t *testing.T) {
		merged := ActionDecoders{}.Merge(decoders.Only("we/amount"), decoders.Only("we/greeting"))
		assert.Len(t, merged, 2)
	})

	t.Run("lists types in order", func(t *testing.T) {
		assert.Equal(t, []ActionType{"we/amount", "we/greeting", "we/testAction"}, decoders.Types())
	})
}
