package user

import "github.com/weegigs/wee-store-go/we"

func userAdded() we.Reducer[State] {
	var reducer we.ReducerFunction[State, AddUser] = func(state State, added AddUser) State {
		users := make([]User, len(state.Users), len(state.Users)+1)
		copy(users, state.Users)

		state.Users = append(users, User(added))
		return state
	}

	return reducer
}

func userRemoved() we.Reducer[State] {
	var reducer we.ReducerFunction[State, RemoveUser] = func(state State, id RemoveUser) State {
		users := make([]User, 0, len(state.Users))
		for _, u := range state.Users {
			if u.ID != string(id) {
				users = append(users, u)
			}
		}

		state.Users = users
		return state
	}

	return reducer
}

func loadingSet() we.Reducer[State] {
	var reducer we.ReducerFunction[State, SetLoading] = func(state State, loading SetLoading) State {
		state.Loading = bool(loading)
		return state
	}

	return reducer
}

func fetchStarted() we.Reducer[State] {
	var reducer we.ReducerFunction[State, FetchUsers] = func(state State, _ FetchUsers) State {
		state.Loading = true
		return state
	}

	return reducer
}

func fetchSucceeded() we.Reducer[State] {
	var reducer we.ReducerFunction[State, FetchUsersSuccess] = func(state State, fetched FetchUsersSuccess) State {
		users := make([]User, len(fetched))
		copy(users, fetched)

		state.Users = users
		state.Loading = false
		return state
	}

	return reducer
}

func currentUserSet() we.Reducer[State] {
	var reducer we.ReducerFunction[State, SetCurrentUser] = func(state State, current SetCurrentUser) State {
		u := User(current)
		state.CurrentUser = &u
		return state
	}

	return reducer
}

func Reducers() we.Reducers[State] {
	return we.Reducers[State]{
		we.ActionTypeOf(AddUser{}):           userAdded(),
		we.ActionTypeOf(RemoveUser("")):      userRemoved(),
		we.ActionTypeOf(SetLoading(false)):   loadingSet(),
		we.ActionTypeOf(FetchUsers{}):        fetchStarted(),
		we.ActionTypeOf(FetchUsersSuccess{}): fetchSucceeded(),
		we.ActionTypeOf(SetCurrentUser{}):    currentUserSet(),
	}
}

var reducers = Reducers()

// Reduce applies an action to the user slice.
func Reduce(state State, action we.Action) State {
	return reducers.Reduce(state, action)
}
