package user

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type State struct {
	CurrentUser *User  `json:"currentUser"`
	Users       []User `json:"users"`
	Loading     bool   `json:"loading"`
}

func Initial() State {
	return State{Users: []User{}}
}

// Find returns the first user with the given id.
func (s State) Find(id string) (User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}

	return User{}, false
}
