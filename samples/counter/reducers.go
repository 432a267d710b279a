package counter

import "github.com/weegigs/wee-store-go/we"

// record returns a copy of state with its current value appended to the
// history. The input history is never written to.
func record(state State) State {
	history := make([]int, len(state.History), len(state.History)+1)
	copy(history, state.History)

	return State{Value: state.Value, History: append(history, state.Value)}
}

func incremented() we.Reducer[State] {
	var reducer we.ReducerFunction[State, Increment] = func(state State, _ Increment) State {
		next := record(state)
		next.Value = state.Value + 1
		return next
	}

	return reducer
}

func decremented() we.Reducer[State] {
	var reducer we.ReducerFunction[State, Decrement] = func(state State, _ Decrement) State {
		next := record(state)
		next.Value = state.Value - 1
		return next
	}

	return reducer
}

func incrementedByAmount() we.Reducer[State] {
	var reducer we.ReducerFunction[State, IncrementByAmount] = func(state State, amount IncrementByAmount) State {
		next := record(state)
		next.Value = state.Value + int(amount)
		return next
	}

	return reducer
}

func reset() we.Reducer[State] {
	var reducer we.ReducerFunction[State, Reset] = func(state State, _ Reset) State {
		next := record(state)
		next.Value = 0
		return next
	}

	return reducer
}

func asyncIncremented() we.Reducer[State] {
	var reducer we.ReducerFunction[State, AsyncIncrement] = func(state State, _ AsyncIncrement) State {
		return record(state)
	}

	return reducer
}

func Reducers() we.Reducers[State] {
	return we.Reducers[State]{
		we.ActionTypeOf(Increment{}):          incremented(),
		we.ActionTypeOf(Decrement{}):          decremented(),
		we.ActionTypeOf(IncrementByAmount(0)): incrementedByAmount(),
		we.ActionTypeOf(Reset{}):              reset(),
		we.ActionTypeOf(AsyncIncrement{}):     asyncIncremented(),
	}
}

var reducers = Reducers()

// Reduce applies an action to the counter slice.
func Reduce(state State, action we.Action) State {
	return reducers.Reduce(state, action)
}
