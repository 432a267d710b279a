package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-store-go/we"
)

func randomUser(f faker.Faker) User {
	return User{
		ID:    fmt.Sprintf("%d", f.IntBetween(1000, 999999)),
		Name:  f.Person().Name(),
		Email: f.Internet().Email(),
	}
}

func namesActions(t *testing.T) {
	assert.Equal(t, we.ActionType("user/addUser"), we.ActionTypeOf(AddUser{}))
	assert.Equal(t, we.ActionType("user/removeUser"), we.ActionTypeOf(RemoveUser("")))
	assert.Equal(t, we.ActionType("user/setLoading"), we.ActionTypeOf(SetLoading(false)))
	assert.Equal(t, we.ActionType("user/fetchUsers"), we.ActionTypeOf(FetchUsers{}))
	assert.Equal(t, we.ActionType("user/fetchUsersSuccess"), we.ActionTypeOf(FetchUsersSuccess{}))
	assert.Equal(t, we.ActionType("user/setCurrentUser"), we.ActionTypeOf(SetCurrentUser{}))
}

func addsAndRemoves(t *testing.T) {
	f := faker.New()
	start := Reduce(Initial(), AddUser(randomUser(f)))

	added := randomUser(f)
	state := Reduce(start, AddUser(added))

	require.Len(t, state.Users, 2)
	assert.Equal(t, added, state.Users[1])

	state = Reduce(state, RemoveUser(added.ID))
	assert.Equal(t, start.Users, state.Users)
}

func removesEveryMatch(t *testing.T) {
	state := Initial()
	state = Reduce(state, AddUser{ID: "a", Name: "A", Email: "a@example.com"})
	state = Reduce(state, AddUser{ID: "b", Name: "B", Email: "b@example.com"})
	state = Reduce(state, AddUser{ID: "a", Name: "A2", Email: "a2@example.com"})

	state = Reduce(state, RemoveUser("a"))
	assert.Equal(t, []User{{ID: "b", Name: "B", Email: "b@example.com"}}, state.Users)

	unchanged := Reduce(state, RemoveUser("missing"))
	assert.Equal(t, state.Users, unchanged.Users)
}

func tracksLoading(t *testing.T) {
	state := Reduce(Initial(), FetchUsers{})
	assert.True(t, state.Loading)

	state = Reduce(state, FetchUsersSuccess(DemoDirectory()(context.Background())))
	assert.False(t, state.Loading)
	assert.Len(t, state.Users, 3)

	state = Reduce(state, SetLoading(true))
	assert.True(t, state.Loading)
	assert.Len(t, state.Users, 3)
}

func replacesOnSuccess(t *testing.T) {
	f := faker.New()
	state := Reduce(Initial(), AddUser(randomUser(f)))

	fetched := []User{randomUser(f), randomUser(f)}
	state = Reduce(state, FetchUsersSuccess(fetched))

	assert.Equal(t, fetched, state.Users)

	fetched[0].Name = "changed"
	assert.NotEqual(t, "changed", state.Users[0].Name)
}

func setsCurrentUser(t *testing.T) {
	f := faker.New()
	current := randomUser(f)

	state := Reduce(Initial(), SetCurrentUser(current))
	require.NotNil(t, state.CurrentUser)
	assert.Equal(t, current, *state.CurrentUser)
	assert.Empty(t, state.Users)
}

func leavesInputUntouched(t *testing.T) {
	users := make([]User, 1, 8)
	users[0] = User{ID: "1", Name: "One", Email: "one@example.com"}
	state := State{Users: users}

	first := Reduce(state, AddUser{ID: "2", Name: "Two", Email: "two@example.com"})
	second := Reduce(state, AddUser{ID: "3", Name: "Three", Email: "three@example.com"})
	removed := Reduce(state, RemoveUser("1"))

	assert.Len(t, state.Users, 1)
	assert.Equal(t, "2", first.Users[1].ID)
	assert.Equal(t, "3", second.Users[1].ID)
	assert.Empty(t, removed.Users)
	assert.Equal(t, "1", state.Users[0].ID)
}

func TestUserReducers(t *testing.T) {
	t.Run("derives action names", namesActions)
	t.Run("add then remove restores the list", addsAndRemoves)
	t.Run("removes every user with the id", removesEveryMatch)
	t.Run("tracks loading", tracksLoading)
	t.Run("fetch success replaces users", replacesOnSuccess)
	t.Run("sets the current user", setsCurrentUser)
	t.Run("never mutates its input", leavesInputUntouched)
}

func fixedIDs(id string) IDGenerator {
	return func() string { return id }
}

func decodesAddUser(t *testing.T) {
	decoders := RemoteDecoders(fixedIDs("generated"))

	action, err := decoders.Decode(context.Background(), we.RemoteAction{
		Type:    "user/addUser",
		Payload: []byte(`{"name":"  Ada Lovelace ","email":"ada@example.com"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, AddUser{ID: "generated", Name: "Ada Lovelace", Email: "ada@example.com"}, action)
}

func keepsSuppliedID(t *testing.T) {
	decoders := RemoteDecoders(fixedIDs("generated"))

	action, err := decoders.Decode(context.Background(), we.RemoteAction{
		Type:    "user/addUser",
		Payload: []byte(`{"id":"7","name":"Ada","email":"ada@example.com"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, "7", action.(AddUser).ID)
}

func rejectsMissingFields(t *testing.T) {
	decoders := RemoteDecoders(fixedIDs("generated"))

	for _, payload := range []string{`{"email":"ada@example.com"}`, `{"name":"Ada","email":"  "}`, ``} {
		_, err := decoders.Decode(context.Background(), we.RemoteAction{Type: "user/addUser", Payload: []byte(payload)})

		var invalid *we.ValidationError
		assert.True(t, errors.As(err, &invalid), payload)
	}

	_, err := decoders.Decode(context.Background(), we.RemoteAction{Type: "user/removeUser", Payload: []byte(`""`)})
	var invalid *we.ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "id", invalid.Field)
}

func limitsRemoteTypes(t *testing.T) {
	remote := RemoteDecoders(fixedIDs("x"))

	assert.Len(t, remote, 4)
	assert.NotContains(t, remote, we.ActionTypeOf(SetLoading(false)))
	assert.NotContains(t, remote, we.ActionTypeOf(FetchUsersSuccess{}))
}

func replaysVerbatim(t *testing.T) {
	decoders := Decoders()
	ctx := context.Background()

	for _, action := range []we.Action{
		AddUser{Name: "Ada", Email: "ada@example.com"},
		AddUser{ID: "1", Name: " ", Email: ""},
		RemoveUser(""),
		SetLoading(true),
		FetchUsersSuccess{{ID: "2", Name: "Jane Smith", Email: "jane@example.com"}},
	} {
		remote, err := we.EncodeAction(action)
		require.NoError(t, err)

		decoded, err := decoders.Decode(ctx, remote)
		require.NoError(t, err)
		assert.Equal(t, action, decoded)
	}
}

func TestUserDecoders(t *testing.T) {
	t.Run("normalizes and identifies new users", decodesAddUser)
	t.Run("keeps a supplied id", keepsSuppliedID)
	t.Run("rejects missing fields", rejectsMissingFields)
	t.Run("limits remote types", limitsRemoteTypes)
	t.Run("replays applied actions verbatim", replaysVerbatim)
}

type fixture struct {
	clock *we.ManualClock
	store *we.Store[State]
	epic  *we.DelayEpic[FetchUsers]
}

func newFixture() *fixture {
	clock := we.NewManualClock(time.Date(2022, 2, 14, 9, 0, 0, 0, time.UTC))
	bus := we.NewBus()
	store := we.NewStore[State](
		we.ReducerFunc[State](Reduce),
		Initial(),
		we.WithClock[State](clock),
		we.WithMiddleware(we.BusMiddleware[State](bus)),
	)

	epic := NewFetchEpic(DemoDirectory(), store.Dispatch, we.EpicClock(clock))
	we.RunEpics(bus, epic)

	return &fixture{clock: clock, store: store, epic: epic}
}

func loadsAfterDelay(t *testing.T) {
	f := newFixture()

	f.store.Dispatch(context.Background(), FetchUsers{})
	assert.True(t, f.store.State().Loading)
	assert.Empty(t, f.store.State().Users)

	f.clock.Advance(FetchDelay - time.Millisecond)
	assert.True(t, f.store.State().Loading)

	f.clock.Advance(time.Millisecond)
	state := f.store.State()
	assert.False(t, state.Loading)
	assert.Equal(t, DemoDirectory()(context.Background()), state.Users)
}

func replacesAddedUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.store.Dispatch(ctx, FetchUsers{})
	f.store.Dispatch(ctx, AddUser{ID: "9", Name: "Nine", Email: "nine@example.com"})
	assert.Len(t, f.store.State().Users, 1)

	f.clock.Advance(FetchDelay)
	assert.Len(t, f.store.State().Users, 3)

	_, found := f.store.State().Find("9")
	assert.False(t, found)
}

func cancelsPendingFetch(t *testing.T) {
	f := newFixture()

	f.store.Dispatch(context.Background(), FetchUsers{})
	assert.Equal(t, 1, f.epic.Cancel())

	f.clock.Advance(FetchDelay)
	assert.True(t, f.store.State().Loading)
	assert.Empty(t, f.store.State().Users)
}

func TestFetchEpic(t *testing.T) {
	t.Run("loads users after the fetch delay", loadsAfterDelay)
	t.Run("replaces users added while loading", replacesAddedUsers)
	t.Run("cancelled fetches never complete", cancelsPendingFetch)
}
