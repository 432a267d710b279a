package user

import (
	"context"
	"time"

	"github.com/weegigs/wee-store-go/we"
)

const FetchDelay = 1500 * time.Millisecond

// Directory supplies the users returned by a fetch.
type Directory = func(ctx context.Context) []User

func DemoDirectory() Directory {
	return func(context.Context) []User {
		return []User{
			{ID: "1", Name: "John Doe", Email: "john@example.com"},
			{ID: "2", Name: "Jane Smith", Email: "jane@example.com"},
			{ID: "3", Name: "Bob Johnson", Email: "bob@example.com"},
		}
	}
}

// NewFetchEpic answers every FetchUsers with FetchUsersSuccess carrying the
// directory's users once FetchDelay has elapsed.
func NewFetchEpic(directory Directory, dispatch we.DispatchFunc, options ...we.EpicOption) *we.DelayEpic[FetchUsers] {
	produce := func(ctx context.Context, _ FetchUsers) we.Action {
		return FetchUsersSuccess(directory(ctx))
	}

	return we.NewDelayEpic[FetchUsers]("fetch-users", FetchDelay, produce, dispatch, options...)
}
