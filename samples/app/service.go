package app

import (
	"context"
	"time"

	"github.com/google/wire"

	"github.com/weegigs/wee-store-go/stores/ds"
	"github.com/weegigs/wee-store-go/support"
	"github.com/weegigs/wee-store-go/we"
)

type Settings struct {
	JournalID      we.JournalID
	IncrementDelay time.Duration
	FetchDelay     time.Duration
}

func SettingsFrom(config support.Config) Settings {
	return Settings{
		JournalID:      we.JournalID(config.JournalID),
		IncrementDelay: config.IncrementDelay,
		FetchDelay:     config.FetchDelay,
	}
}

func TableFrom(config support.Config) ds.TableName {
	return ds.TableName(config.Table)
}

func MemoryJournal() we.Journal {
	return we.NewMemoryJournal()
}

// Provide builds the app over a journal. The cleanup shuts the epics down.
func Provide(ctx context.Context, settings Settings, journal we.Journal) (*App, func(), error) {
	app, err := New(
		ctx,
		WithJournal(journal, settings.JournalID),
		WithIncrementDelay(settings.IncrementDelay),
		WithFetchDelay(settings.FetchDelay),
	)
	if err != nil {
		return nil, nil, err
	}

	return app, func() { app.Shutdown() }, nil
}

var fromConfig = wire.NewSet(SettingsFrom, TableFrom)

var Memory = wire.NewSet(SettingsFrom, MemoryJournal, Provide)

var Live = wire.NewSet(fromConfig, ds.Live, Provide)

var Local = wire.NewSet(fromConfig, ds.Local, Provide)
