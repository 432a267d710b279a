package user

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator supplies ids for users added without one.
type IDGenerator = func() string

func ULIDGenerator() IDGenerator {
	var lk sync.Mutex
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

	return func() string {
		lk.Lock()
		defer lk.Unlock()

		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}
