package counter

import (
	"context"
	"time"

	"github.com/weegigs/wee-store-go/we"
)

const IncrementDelay = 1000 * time.Millisecond

// NewIncrementEpic follows every AsyncIncrement with an Increment once
// IncrementDelay has elapsed.
func NewIncrementEpic(dispatch we.DispatchFunc, options ...we.EpicOption) *we.DelayEpic[AsyncIncrement] {
	produce := func(context.Context, AsyncIncrement) we.Action {
		return Increment{}
	}

	return we.NewDelayEpic[AsyncIncrement]("increment", IncrementDelay, produce, dispatch, options...)
}
