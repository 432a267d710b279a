package we

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "wee-store"

type Snapshot[S any] struct {
	Revision  Revision  `json:"revision"`
	Timestamp Timestamp `json:"timestamp"`
	State     S         `json:"state"`
}

func (s Snapshot[S]) Initialized() bool {
	return s.Revision != InitialRevision
}

type Listener[S any] func(snapshot Snapshot[S])

type StoreOption[S any] func(*Store[S])

func WithMiddleware[S any](middleware ...Middleware[S]) StoreOption[S] {
	return func(store *Store[S]) {
		store.middleware = append(store.middleware, middleware...)
	}
}

func WithLogger[S any](log *zerolog.Logger) StoreOption[S] {
	return func(store *Store[S]) {
		store.log = log
	}
}

func WithClock[S any](clock Clock) StoreOption[S] {
	return func(store *Store[S]) {
		store.clock = clock
	}
}

// FromSnapshot starts the store at a previously recorded snapshot rather than
// the initial state.
func FromSnapshot[S any](snapshot Snapshot[S]) StoreOption[S] {
	return func(store *Store[S]) {
		store.snapshot = snapshot
	}
}

type queued struct {
	ctx    context.Context
	action Action
}

// Store holds state of type S and applies dispatched actions to it one at a
// time. Dispatch applies the action before returning unless another dispatch
// is already being applied, in which case the action is queued and applied,
// in arrival order, by the goroutine already dispatching.
type Store[S any] struct {
	reducer    Reducer[S]
	middleware []Middleware[S]
	dispatch   DispatchFunc
	clock      Clock
	revisions  *RevisionGenerator
	log        *zerolog.Logger

	lk       sync.RWMutex
	snapshot Snapshot[S]

	qlk      sync.Mutex
	queue    []queued
	draining bool

	llk          sync.RWMutex
	nextListener uint64
	listeners    map[uint64]Listener[S]
}

func NewStore[S any](reducer Reducer[S], initial S, options ...StoreOption[S]) *Store[S] {
	store := &Store[S]{
		reducer:   reducer,
		revisions: NewRevisionGenerator(),
		listeners: map[uint64]Listener[S]{},
	}

	for _, option := range options {
		option(store)
	}

	if store.clock == nil {
		store.clock = SystemClock{}
	}

	if store.log == nil {
		store.log = &log.Logger
	}

	if store.snapshot.Revision == "" {
		store.snapshot = Snapshot[S]{
			Revision:  InitialRevision,
			Timestamp: TimestampFromTime(store.clock.Now()),
			State:     initial,
		}
	}

	dispatch := DispatchFunc(store.apply)
	for i := len(store.middleware) - 1; i >= 0; i-- {
		dispatch = store.middleware[i](store)(dispatch)
	}
	store.dispatch = dispatch

	return store
}

func (s *Store[S]) State() S {
	return s.Snapshot().State
}

func (s *Store[S]) Snapshot() Snapshot[S] {
	s.lk.RLock()
	defer s.lk.RUnlock()

	return s.snapshot
}

func (s *Store[S]) Dispatch(ctx context.Context, action Action) {
	s.qlk.Lock()
	s.queue = append(s.queue, queued{ctx: ctx, action: action})
	if s.draining {
		s.qlk.Unlock()
		return
	}
	s.draining = true
	s.qlk.Unlock()

	// a panicking middleware or listener must not leave the store draining;
	// actions still queued are applied by the next dispatch.
	drained := false
	defer func() {
		if !drained {
			s.qlk.Lock()
			s.draining = false
			s.qlk.Unlock()
		}
	}()

	for {
		s.qlk.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			drained = true
			s.qlk.Unlock()
			return
		}

		next := s.queue[0]
		s.queue[0] = queued{}
		s.queue = s.queue[1:]
		s.qlk.Unlock()

		s.process(next.ctx, next.action)
	}
}

// Subscribe registers a listener called with the new snapshot after every
// applied action. Listeners run on the dispatching goroutine.
func (s *Store[S]) Subscribe(listener Listener[S]) func() {
	s.llk.Lock()
	defer s.llk.Unlock()

	s.nextListener++
	id := s.nextListener
	s.listeners[id] = listener

	return func() {
		s.llk.Lock()
		defer s.llk.Unlock()

		delete(s.listeners, id)
	}
}

func (s *Store[S]) process(ctx context.Context, action Action) {
	actionType := ActionTypeOf(action)

	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("dispatch %s", actionType))
	defer span.End()

	s.dispatch(ctx, action)

	snapshot := s.Snapshot()
	span.SetAttributes(attribute.String("revision", snapshot.Revision.String()))
	s.log.Debug().
		Str("action", actionType.String()).
		Str("revision", snapshot.Revision.String()).
		Msg("action applied")

	s.notify(snapshot)
}

func (s *Store[S]) apply(_ context.Context, action Action) {
	s.lk.Lock()
	defer s.lk.Unlock()

	state := s.reducer.Reduce(s.snapshot.State, action)
	now := s.clock.Now()

	s.snapshot = Snapshot[S]{
		Revision:  s.revisions.NewRevision(now),
		Timestamp: TimestampFromTime(now),
		State:     state,
	}
}

func (s *Store[S]) notify(snapshot Snapshot[S]) {
	s.llk.RLock()
	listeners := make([]Listener[S], 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.llk.RUnlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}
