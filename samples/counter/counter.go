package counter

type State struct {
	Value   int   `json:"value"`
	History []int `json:"history"`
}

func Initial() State {
	return State{History: []int{}}
}

// Recent returns at most the last n values recorded in the history.
func (s State) Recent(n int) []int {
	if n <= 0 {
		return []int{}
	}

	if len(s.History) <= n {
		return append([]int{}, s.History...)
	}

	return append([]int{}, s.History[len(s.History)-n:]...)
}
