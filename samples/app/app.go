package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/samples/user"
	"github.com/weegigs/wee-store-go/we"
)

type Option func(*options)

type options struct {
	clock          we.Clock
	log            *zerolog.Logger
	journal        we.Journal
	journalID      we.JournalID
	incrementDelay time.Duration
	fetchDelay     time.Duration
	directory      user.Directory
	ids            user.IDGenerator
}

func WithClock(clock we.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func WithLogger(log *zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithJournal restores state from the journal on start and records every
// applied action in it.
func WithJournal(journal we.Journal, id we.JournalID) Option {
	return func(o *options) {
		o.journal = journal
		o.journalID = id
	}
}

func WithIncrementDelay(delay time.Duration) Option {
	return func(o *options) {
		o.incrementDelay = delay
	}
}

func WithFetchDelay(delay time.Duration) Option {
	return func(o *options) {
		o.fetchDelay = delay
	}
}

func WithDirectory(directory user.Directory) Option {
	return func(o *options) {
		o.directory = directory
	}
}

func WithIDs(ids user.IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// App is the running application: the store over the root state, the bus the
// store publishes on and the epics listening to it.
type App struct {
	store    *we.Store[State]
	bus      *we.Bus
	epics    *we.EpicGroup
	decoders we.ActionDecoders
	log      *zerolog.Logger
}

func New(ctx context.Context, opts ...Option) (*App, error) {
	config := options{}
	for _, option := range opts {
		option(&config)
	}

	if config.clock == nil {
		config.clock = we.SystemClock{}
	}

	if config.log == nil {
		config.log = &log.Logger
	}

	if config.directory == nil {
		config.directory = user.DemoDirectory()
	}

	if config.ids == nil {
		config.ids = user.ULIDGenerator()
	}

	bus := we.NewBus(we.BusLogger(config.log))
	reducer := we.ReducerFunc[State](Reduce)

	storeOptions := []we.StoreOption[State]{
		we.WithClock[State](config.clock),
		we.WithLogger[State](config.log),
		we.WithMiddleware(we.BusMiddleware[State](bus)),
	}

	var entries []we.JournalEntry
	if config.journal != nil {
		loaded, err := config.journal.Load(ctx, config.journalID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load journal")
		}
		entries = loaded

		snapshot, err := we.Rebuild[State](ctx, entries, Decoders(), reducer, Initial())
		if err != nil {
			return nil, errors.Wrap(err, "failed to restore state")
		}

		if snapshot.Initialized() {
			storeOptions = append(storeOptions, we.FromSnapshot(snapshot))
		}

		storeOptions = append(storeOptions, we.WithMiddleware(
			we.JournalMiddleware[State](config.journal, config.journalID, we.JournalLogger(config.log)),
		))
	}

	store := we.NewStore[State](reducer, Initial(), storeOptions...)

	epicOptions := []we.EpicOption{we.EpicClock(config.clock), we.EpicLogger(config.log)}
	increment := counter.NewIncrementEpic(store.Dispatch, append(epicOptions, we.EpicDelay(config.incrementDelay))...)
	fetch := user.NewFetchEpic(config.directory, store.Dispatch, append(epicOptions, we.EpicDelay(config.fetchDelay))...)

	app := &App{
		store:    store,
		bus:      bus,
		epics:    we.RunEpics(bus, increment, fetch),
		decoders: RemoteDecoders(config.ids),
		log:      config.log,
	}

	if err := resume(ctx, entries, increment, config.log); err != nil {
		app.epics.Shutdown()
		return nil, err
	}

	if err := resume(ctx, entries, fetch, config.log); err != nil {
		app.epics.Shutdown()
		return nil, err
	}

	return app, nil
}

// resume restarts the invocations of an epic whose triggers were journaled
// but whose follow-ups were not. Each restarts with the full delay.
func resume[T any](ctx context.Context, entries []we.JournalEntry, epic *we.DelayEpic[T], log *zerolog.Logger) error {
	var trigger T

	count, err := we.Unmatched(entries, we.ActionTypeOf(trigger), epic.Delay())
	if err != nil {
		return errors.Wrap(err, "failed to resume "+epic.Name())
	}

	for i := 0; i < count; i++ {
		epic.Trigger(ctx, trigger)
	}

	if count > 0 {
		log.Info().Str("epic", epic.Name()).Int("resumed", count).Msg("resumed pending invocations")
	}

	return nil
}

func (a *App) Dispatch(ctx context.Context, action we.Action) {
	a.store.Dispatch(ctx, action)
}

func (a *App) State() State {
	return a.store.State()
}

func (a *App) Snapshot() we.Snapshot[State] {
	return a.store.Snapshot()
}

func (a *App) Subscribe(listener we.Listener[State]) func() {
	return a.store.Subscribe(listener)
}

// Decoders returns the decoders for actions clients may dispatch.
func (a *App) Decoders() we.ActionDecoders {
	return a.decoders
}

// Pending returns the number of epic invocations waiting on their delay.
func (a *App) Pending() int {
	return a.epics.Pending()
}

// Shutdown detaches the epics and abandons their pending invocations.
func (a *App) Shutdown() int {
	abandoned := a.epics.Shutdown()
	a.log.Info().Int("abandoned", abandoned).Msg("app shut down")

	return abandoned
}
