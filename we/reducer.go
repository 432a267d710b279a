package we

type Reducer[S any] interface {
	Reduce(state S, action Action) S
}

// ReducerFunction adapts a typed reducer. Actions of any other type leave the
// state unchanged.
type ReducerFunction[S any, A any] func(state S, action A) S

func (f ReducerFunction[S, A]) Reduce(state S, action Action) S {
	typed, ok := action.(A)
	if !ok {
		return state
	}

	return f(state, typed)
}

type ReducerFunc[S any] func(state S, action Action) S

func (f ReducerFunc[S]) Reduce(state S, action Action) S {
	return f(state, action)
}

type Reducers[S any] map[ActionType]Reducer[S]

func (r Reducers[S]) Reduce(state S, action Action) S {
	reducer := r[ActionTypeOf(action)]
	if nil == reducer {
		return state
	}

	return reducer.Reduce(state, action)
}
