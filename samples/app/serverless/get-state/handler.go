package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-store-go/samples/app"
	"github.com/weegigs/wee-store-go/stores/ds"
	"github.com/weegigs/wee-store-go/we"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// createHandler replays the journal named by the journal path parameter, or
// the configured journal when there is none, and returns its snapshot.
func createHandler(journal we.Journal, settings app.Settings) GatewayHandler {
	decoders := app.Decoders()
	reducer := we.ReducerFunc[app.State](app.Reduce)

	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		id := settings.JournalID
		if requested := event.PathParameters["journal"]; requested != "" {
			id = we.JournalID(requested)
		}

		snapshot, err := we.Restore[app.State](ctx, journal, id, decoders, reducer, app.Initial())
		if err != nil {
			log.Error().Err(err).Str("journal", id.String()).Msg("failed to restore state")
			return events.APIGatewayV2HTTPResponse{StatusCode: 500}, nil
		}

		body, err := json.MarshalContext(ctx, snapshot)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}
}

var Live = wire.NewSet(createHandler, app.SettingsFrom, app.TableFrom, ds.Live)
