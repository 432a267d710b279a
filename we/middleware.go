package we

import "context"

type DispatchFunc func(ctx context.Context, action Action)

type MiddlewareAPI[S any] interface {
	State() S
	Dispatch(ctx context.Context, action Action)
}

// Middleware wraps the dispatch path of a store. Actions dispatched through
// the api from within a middleware are queued behind the current action.
type Middleware[S any] func(api MiddlewareAPI[S]) func(next DispatchFunc) DispatchFunc

// BusMiddleware publishes every action on the bus before passing it on. It
// never filters, delays or drops an action.
func BusMiddleware[S any](bus *Bus) Middleware[S] {
	return func(MiddlewareAPI[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			return func(ctx context.Context, action Action) {
				bus.Publish(ctx, action)
				next(ctx, action)
			}
		}
	}
}
