package user

import (
	"context"
	"strings"

	"github.com/weegigs/wee-store-go/we"
)

type AddUser User

type RemoveUser string

type SetLoading bool

// FetchUsers starts a fetch; the fetch epic completes it with FetchUsersSuccess.
type FetchUsers struct{}

type FetchUsersSuccess []User

type SetCurrentUser User

func addUserDecoder(ids IDGenerator) we.ActionDecoder {
	var decoder we.DecoderFunction[AddUser] = func(ctx context.Context, action *AddUser) error {
		action.Name = strings.TrimSpace(action.Name)
		action.Email = strings.TrimSpace(action.Email)

		if action.Name == "" {
			return we.Invalid(we.ActionTypeOf(*action), "name", "is required")
		}

		if action.Email == "" {
			return we.Invalid(we.ActionTypeOf(*action), "email", "is required")
		}

		if action.ID == "" {
			action.ID = ids()
		}

		return nil
	}

	return decoder
}

func removeUserDecoder() we.ActionDecoder {
	var decoder we.DecoderFunction[RemoveUser] = func(ctx context.Context, action *RemoveUser) error {
		if *action == "" {
			return we.Invalid(we.ActionTypeOf(*action), "id", "is required")
		}
		return nil
	}

	return decoder
}

// Decoders returns decoders for every user action. They accept any well
// formed payload, so journals replay exactly the actions that were applied.
func Decoders() we.ActionDecoders {
	return we.ActionDecoders{
		we.ActionTypeOf(AddUser{}):           we.Decoder[AddUser](),
		we.ActionTypeOf(RemoveUser("")):      we.Decoder[RemoveUser](),
		we.ActionTypeOf(SetLoading(false)):   we.Decoder[SetLoading](),
		we.ActionTypeOf(FetchUsers{}):        we.Decoder[FetchUsers](),
		we.ActionTypeOf(FetchUsersSuccess{}): we.Decoder[FetchUsersSuccess](),
		we.ActionTypeOf(SetCurrentUser{}):    we.Decoder[SetCurrentUser](),
	}
}

// RemoteDecoders decodes the actions clients may send. New users are
// normalized, validated and given an id when they arrive without one; loading
// and fetch results only come from the fetch epic.
func RemoteDecoders(ids IDGenerator) we.ActionDecoders {
	return we.ActionDecoders{
		we.ActionTypeOf(AddUser{}):        addUserDecoder(ids),
		we.ActionTypeOf(RemoveUser("")):   removeUserDecoder(),
		we.ActionTypeOf(FetchUsers{}):     we.Decoder[FetchUsers](),
		we.ActionTypeOf(SetCurrentUser{}): we.Decoder[SetCurrentUser](),
	}
}
