package we

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type TestAction struct{}

type TestAsyncAction struct{}

type TestNamedAction struct{}

func (TestNamedAction) TypeName() string {
	return "test/named"
}

func resolvesExplicitName(t *testing.T) {
	assert.Equal(t, ActionType("test/named"), ActionTypeOf(TestNamedAction{}))
}

func resolvesImplicitName(t *testing.T) {
	assert.Equal(t, ActionType("we/testAction"), ActionTypeOf(TestAction{}))
	assert.Equal(t, ActionType("we/testAsyncAction"), ActionTypeOf(TestAsyncAction{}))
}

func ignoresPointers(t *testing.T) {
	assert.Equal(t, ActionType("we/testAction"), ActionTypeOf(&TestAction{}))
}

func resolvesRemoteName(t *testing.T) {
	assert.Equal(t, ActionType("counter/increment"), ActionTypeOf(RemoteAction{Type: "counter/increment"}))
}

func TestActionNames(t *testing.T) {
	t.Run("resolves explicit name", resolvesExplicitName)
	t.Run("resolves implicit name", resolvesImplicitName)
	t.Run("ignores pointers", ignoresPointers)
	t.Run("uses the type of remote actions", resolvesRemoteName)
}
