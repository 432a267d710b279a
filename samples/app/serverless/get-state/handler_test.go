package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-store-go/samples/app"
	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/samples/user"
	"github.com/weegigs/wee-store-go/we"
)

func TestGetState(t *testing.T) {
	ctx := context.Background()
	journal := we.NewMemoryJournal()

	_, err := journal.Append(ctx, "app",
		counter.IncrementByAmount(4),
		counter.Decrement{},
		user.AddUser{ID: "1", Name: "Ada", Email: "ada@example.com"},
		we.RemoteAction{Type: "legacy/removed"},
	)
	require.NoError(t, err)

	handler := createHandler(journal, app.Settings{JournalID: "app"})

	t.Run("replays the configured journal", func(t *testing.T) {
		response, err := handler(ctx, events.APIGatewayV2HTTPRequest{})
		require.NoError(t, err)
		require.Equal(t, 200, response.StatusCode)

		var snapshot we.Snapshot[app.State]
		require.NoError(t, json.Unmarshal([]byte(response.Body), &snapshot))

		assert.True(t, snapshot.Initialized())
		assert.Equal(t, 3, snapshot.State.Counter.Value)
		assert.Equal(t, []int{0, 4}, snapshot.State.Counter.History)
		assert.Len(t, snapshot.State.User.Users, 1)
	})

	t.Run("reads the requested journal", func(t *testing.T) {
		response, err := handler(ctx, events.APIGatewayV2HTTPRequest{
			PathParameters: map[string]string{"journal": "other"},
		})
		require.NoError(t, err)

		var snapshot we.Snapshot[app.State]
		require.NoError(t, json.Unmarshal([]byte(response.Body), &snapshot))

		assert.False(t, snapshot.Initialized())
		assert.Equal(t, app.Initial(), snapshot.State)
	})
}
