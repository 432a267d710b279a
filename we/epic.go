package we

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Epic reacts to actions published on a bus by dispatching new ones.
type Epic interface {
	Name() string
	Attach(bus *Bus) func()
	Pending() int
	Cancel() int
}

type EpicOption func(*epicOptions)

type epicOptions struct {
	clock      Clock
	log        *zerolog.Logger
	delay      *time.Duration
	latestOnly bool
}

func EpicClock(clock Clock) EpicOption {
	return func(options *epicOptions) {
		options.clock = clock
	}
}

func EpicLogger(log *zerolog.Logger) EpicOption {
	return func(options *epicOptions) {
		options.log = log
	}
}

// EpicDelay overrides the delay an epic was built with. Non-positive values
// are ignored.
func EpicDelay(delay time.Duration) EpicOption {
	return func(options *epicOptions) {
		if delay > 0 {
			options.delay = &delay
		}
	}
}

// LatestOnly cancels in-flight invocations when a new trigger arrives, so at
// most one follow-up is pending at a time.
func LatestOnly() EpicOption {
	return func(options *epicOptions) {
		options.latestOnly = true
	}
}

// Invocation is one pending delayed computation of an epic.
type Invocation struct {
	ID     uint64
	cancel func() bool
}

// Cancel abandons the invocation. It reports false if the follow-up has
// already been dispatched or the invocation was cancelled before.
func (i *Invocation) Cancel() bool {
	return i.cancel()
}

type pendingInvocation struct {
	invocation *Invocation
	timer      Timer
}

// DelayEpic dispatches the action produced for a trigger of type T once its
// delay has elapsed. Every trigger starts its own invocation; triggers that
// arrive while others are pending run concurrently unless LatestOnly is set.
type DelayEpic[T any] struct {
	name       string
	delay      time.Duration
	produce    func(ctx context.Context, trigger T) Action
	dispatch   DispatchFunc
	clock      Clock
	log        *zerolog.Logger
	latestOnly bool

	lk      sync.Mutex
	seq     uint64
	pending map[uint64]pendingInvocation
}

func NewDelayEpic[T any](
	name string,
	delay time.Duration,
	produce func(ctx context.Context, trigger T) Action,
	dispatch DispatchFunc,
	options ...EpicOption,
) *DelayEpic[T] {
	config := epicOptions{}
	for _, option := range options {
		option(&config)
	}

	if config.clock == nil {
		config.clock = SystemClock{}
	}

	if config.log == nil {
		config.log = &log.Logger
	}

	if config.delay != nil {
		delay = *config.delay
	}

	return &DelayEpic[T]{
		name:       name,
		delay:      delay,
		produce:    produce,
		dispatch:   dispatch,
		clock:      config.clock,
		log:        config.log,
		latestOnly: config.latestOnly,
		pending:    map[uint64]pendingInvocation{},
	}
}

func (e *DelayEpic[T]) Name() string {
	return e.name
}

func (e *DelayEpic[T]) Delay() time.Duration {
	return e.delay
}

func (e *DelayEpic[T]) Attach(bus *Bus) func() {
	return On[T](bus, func(ctx context.Context, trigger T) {
		e.Trigger(ctx, trigger)
	})
}

// Trigger starts a new invocation. The invocation outlives ctx: only Cancel
// stops it.
func (e *DelayEpic[T]) Trigger(ctx context.Context, trigger T) *Invocation {
	ctx = context.WithoutCancel(ctx)

	e.lk.Lock()
	defer e.lk.Unlock()

	if e.latestOnly {
		e.cancelLocked()
	}

	e.seq++
	id := e.seq
	invocation := &Invocation{
		ID:     id,
		cancel: func() bool { return e.cancel(id) },
	}

	timer := e.clock.AfterFunc(e.delay, func() {
		e.complete(ctx, id, trigger)
	})
	e.pending[id] = pendingInvocation{invocation: invocation, timer: timer}

	e.log.Debug().Str("epic", e.name).Uint64("invocation", id).Dur("delay", e.delay).Msg("epic triggered")

	return invocation
}

// Pending returns the number of invocations waiting for their delay.
func (e *DelayEpic[T]) Pending() int {
	e.lk.Lock()
	defer e.lk.Unlock()

	return len(e.pending)
}

// Cancel abandons every pending invocation and returns how many there were.
func (e *DelayEpic[T]) Cancel() int {
	e.lk.Lock()
	defer e.lk.Unlock()

	return e.cancelLocked()
}

func (e *DelayEpic[T]) cancelLocked() int {
	count := len(e.pending)
	for id, p := range e.pending {
		p.timer.Stop()
		delete(e.pending, id)
	}

	if count > 0 {
		e.log.Debug().Str("epic", e.name).Int("cancelled", count).Msg("epic invocations cancelled")
	}

	return count
}

func (e *DelayEpic[T]) cancel(id uint64) bool {
	e.lk.Lock()
	defer e.lk.Unlock()

	p, ok := e.pending[id]
	if !ok {
		return false
	}

	p.timer.Stop()
	delete(e.pending, id)

	return true
}

func (e *DelayEpic[T]) complete(ctx context.Context, id uint64, trigger T) {
	e.lk.Lock()
	_, ok := e.pending[id]
	delete(e.pending, id)
	e.lk.Unlock()

	if !ok {
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(
		ctx,
		fmt.Sprintf("epic %s", e.name),
		trace.WithAttributes(attribute.Int64("invocation", int64(id)), attribute.String("delay", e.delay.String())),
	)
	defer span.End()

	action := e.produce(ctx, trigger)
	span.SetAttributes(attribute.String("action", ActionTypeOf(action).String()))

	e.dispatch(ctx, action)
}

// EpicGroup attaches epics to a bus and detaches and cancels them together.
type EpicGroup struct {
	lk     sync.Mutex
	epics  []Epic
	detach []func()
}

func RunEpics(bus *Bus, epics ...Epic) *EpicGroup {
	group := &EpicGroup{epics: epics}
	for _, epic := range epics {
		group.detach = append(group.detach, epic.Attach(bus))
	}

	return group
}

func (g *EpicGroup) Epics() []Epic {
	return g.epics
}

func (g *EpicGroup) Pending() int {
	count := 0
	for _, epic := range g.epics {
		count += epic.Pending()
	}

	return count
}

// Shutdown stops the epics observing the bus and abandons their pending
// invocations. It returns the number of invocations abandoned.
func (g *EpicGroup) Shutdown() int {
	g.lk.Lock()
	defer g.lk.Unlock()

	for _, detach := range g.detach {
		detach()
	}
	g.detach = nil

	count := 0
	for _, epic := range g.epics {
		count += epic.Cancel()
	}

	return count
}
