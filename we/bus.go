package we

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Handler func(ctx context.Context, action Action)

type BusOption func(*Bus)

func BusLogger(log *zerolog.Logger) BusOption {
	return func(bus *Bus) {
		bus.log = log
	}
}

type subscription struct {
	id      uint64
	handler Handler
}

// Bus delivers published actions to the handlers subscribed to their action
// type. It keeps no history: handlers only see actions published after they
// subscribed.
type Bus struct {
	lk       sync.RWMutex
	next     uint64
	handlers map[ActionType][]subscription
	log      *zerolog.Logger
}

func NewBus(options ...BusOption) *Bus {
	bus := &Bus{handlers: map[ActionType][]subscription{}}
	for _, option := range options {
		option(bus)
	}

	if bus.log == nil {
		bus.log = &log.Logger
	}

	return bus
}

func (b *Bus) Subscribe(actionType ActionType, handler Handler) func() {
	b.lk.Lock()
	defer b.lk.Unlock()

	b.next++
	id := b.next
	b.handlers[actionType] = append(b.handlers[actionType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(actionType, id) })
	}
}

func (b *Bus) unsubscribe(actionType ActionType, id uint64) {
	b.lk.Lock()
	defer b.lk.Unlock()

	current := b.handlers[actionType]
	remaining := make([]subscription, 0, len(current))
	for _, s := range current {
		if s.id != id {
			remaining = append(remaining, s)
		}
	}

	if len(remaining) == 0 {
		delete(b.handlers, actionType)
		return
	}

	b.handlers[actionType] = remaining
}

// Publish calls the handlers subscribed to the action's type in subscription
// order and returns how many were called.
func (b *Bus) Publish(ctx context.Context, action Action) int {
	actionType := ActionTypeOf(action)

	b.lk.RLock()
	subscribers := b.handlers[actionType]
	b.lk.RUnlock()

	for _, s := range subscribers {
		s.handler(ctx, action)
	}

	if len(subscribers) > 0 {
		b.log.Debug().Str("action", actionType.String()).Int("subscribers", len(subscribers)).Msg("action published")
	}

	return len(subscribers)
}

// On subscribes a handler for actions of type A.
func On[A any](bus *Bus, handler func(ctx context.Context, action A)) func() {
	var zero A
	return bus.Subscribe(ActionTypeOf(zero), func(ctx context.Context, action Action) {
		if typed, ok := action.(A); ok {
			handler(ctx, typed)
		}
	})
}
