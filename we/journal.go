package we

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

type JournalID string

func (id JournalID) String() string {
	return string(id)
}

type JournalEntry struct {
	Journal   JournalID  `json:"journal" dynamodbav:"journal"`
	Revision  Revision   `json:"revision" dynamodbav:"revision"`
	Type      ActionType `json:"type" dynamodbav:"type"`
	Timestamp Timestamp  `json:"timestamp" dynamodbav:"timestamp"`
	Data      Data       `json:"data" dynamodbav:"data"`
}

func (e JournalEntry) RemoteAction() (RemoteAction, error) {
	if e.Data.Encoding != JSONEncoding {
		return RemoteAction{}, InvalidEncoding(JSONEncoding, e.Data.Encoding)
	}

	return RemoteAction{Type: e.Type, Payload: e.Data.Data}, nil
}

// Journal records dispatched actions so that state can be rebuilt by
// replaying them.
type Journal interface {
	Append(ctx context.Context, id JournalID, actions ...Action) (Revision, error)
	Load(ctx context.Context, id JournalID) ([]JournalEntry, error)
	Remove(ctx context.Context, id JournalID) (int, error)
}

// MakeEntries encodes actions as journal entries sharing one timestamp.
func MakeEntries(id JournalID, revisions *RevisionGenerator, now time.Time, actions ...Action) ([]JournalEntry, error) {
	timestamp := TimestampFromTime(now)

	entries := make([]JournalEntry, len(actions))
	for i, action := range actions {
		remote, err := EncodeAction(action)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("failed to encode %s", ActionTypeOf(action)))
		}

		entries[i] = JournalEntry{
			Journal:   id,
			Revision:  revisions.NewRevision(now),
			Type:      remote.Type,
			Timestamp: timestamp,
			Data:      Data{Encoding: JSONEncoding, Data: remote.Payload},
		}
	}

	return entries, nil
}

type JournalOption func(*journalOptions)

type journalOptions struct {
	log *zerolog.Logger
}

func JournalLogger(log *zerolog.Logger) JournalOption {
	return func(options *journalOptions) {
		options.log = log
	}
}

// JournalMiddleware appends every applied action to the journal. A failed
// append is logged and never stops the action from being applied.
func JournalMiddleware[S any](journal Journal, id JournalID, options ...JournalOption) Middleware[S] {
	config := journalOptions{}
	for _, option := range options {
		option(&config)
	}

	if config.log == nil {
		config.log = &log.Logger
	}

	return func(MiddlewareAPI[S]) func(next DispatchFunc) DispatchFunc {
		return func(next DispatchFunc) DispatchFunc {
			return func(ctx context.Context, action Action) {
				next(ctx, action)

				if _, err := journal.Append(ctx, id, action); err != nil {
					config.log.Error().
						Err(err).
						Str("journal", id.String()).
						Str("action", ActionTypeOf(action).String()).
						Msg("failed to journal action")
				}
			}
		}
	}
}

// Replay folds the journal entries into initial. Entries with no decoder are
// skipped, just as a reducer ignores actions it does not handle.
func Replay[S any](ctx context.Context, entries []JournalEntry, decoders ActionDecoders, reducer Reducer[S], initial S) (S, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "replay journal")
	defer span.End()

	state := initial
	for _, entry := range entries {
		remote, err := entry.RemoteAction()
		if err != nil {
			return initial, errors.Wrap(err, fmt.Sprintf("failed to read entry %s", entry.Revision))
		}

		action, err := decoders.Decode(ctx, remote)
		if err != nil {
			var unknown UnknownActionError
			if errors.As(err, &unknown) {
				continue
			}

			return initial, errors.Wrap(err, fmt.Sprintf("failed to decode entry %s", entry.Revision))
		}

		state = reducer.Reduce(state, action)
	}

	return state, nil
}

// Rebuild replays entries into a snapshot at the revision of the last entry.
func Rebuild[S any](ctx context.Context, entries []JournalEntry, decoders ActionDecoders, reducer Reducer[S], initial S) (Snapshot[S], error) {
	state, err := Replay(ctx, entries, decoders, reducer, initial)
	if err != nil {
		return Snapshot[S]{}, err
	}

	if len(entries) == 0 {
		return Snapshot[S]{Revision: InitialRevision, Timestamp: InitialRevision.Timestamp(), State: state}, nil
	}

	last := entries[len(entries)-1]
	return Snapshot[S]{Revision: last.Revision, Timestamp: last.Timestamp, State: state}, nil
}

// Restore loads a journal and replays it.
func Restore[S any](ctx context.Context, journal Journal, id JournalID, decoders ActionDecoders, reducer Reducer[S], initial S) (Snapshot[S], error) {
	entries, err := journal.Load(ctx, id)
	if err != nil {
		return Snapshot[S]{}, err
	}

	return Rebuild(ctx, entries, decoders, reducer, initial)
}

// Unmatched counts the trigger entries whose follow-up was due after the last
// entry was recorded. Those belong to delayed invocations that were still
// pending when the journal stopped.
func Unmatched(entries []JournalEntry, trigger ActionType, delay time.Duration) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	last, err := entries[len(entries)-1].Timestamp.Time()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read journal timestamp")
	}

	count := 0
	for _, entry := range entries {
		if entry.Type != trigger {
			continue
		}

		at, err := entry.Timestamp.Time()
		if err != nil {
			return 0, errors.Wrap(err, fmt.Sprintf("failed to read timestamp of entry %s", entry.Revision))
		}

		if at.Add(delay).After(last) {
			count++
		}
	}

	return count, nil
}
