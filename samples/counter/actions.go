package counter

import "github.com/weegigs/wee-store-go/we"

type Increment struct{}

type Decrement struct{}

type IncrementByAmount int

type Reset struct{}

// AsyncIncrement only records the current value; the increment epic follows
// it up with an Increment.
type AsyncIncrement struct{}

func Decoders() we.ActionDecoders {
	return we.ActionDecoders{
		we.ActionTypeOf(Increment{}):          we.Decoder[Increment](),
		we.ActionTypeOf(Decrement{}):          we.Decoder[Decrement](),
		we.ActionTypeOf(IncrementByAmount(0)): we.Decoder[IncrementByAmount](),
		we.ActionTypeOf(Reset{}):              we.Decoder[Reset](),
		we.ActionTypeOf(AsyncIncrement{}):     we.Decoder[AsyncIncrement](),
	}
}
