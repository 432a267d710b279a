package we

import (
	"context"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func NewJournalValidationSuite(ctx context.Context, journal Journal) *JournalValidationSuite {
	return &JournalValidationSuite{
		journal: journal,
		ctx:     ctx,
		faker:   faker.New(),
	}
}

// JournalValidationSuite checks the behaviour every Journal implementation
// must share.
type JournalValidationSuite struct {
	journal Journal
	ctx     context.Context
	faker   faker.Faker
}

type JournalValidationAction struct {
	TestStringValue string `json:"test_string_value"`
	TestIntValue    int    `json:"test_int_value"`
}

func (JournalValidationAction) TypeName() string {
	return "test/journalValidation"
}

func (s *JournalValidationSuite) Run(t *testing.T) {
	t.Run("loads an empty journal", s.LoadsEmpty)
	t.Run("appends a single action", s.AppendsSingleAction)
	t.Run("appends multiple actions in order", s.AppendsInOrder)
	t.Run("revisions increase across appends", s.RevisionsIncrease)
	t.Run("entries decode to the appended actions", s.EntriesDecode)
	t.Run("removes a journal", s.Removes)
	t.Run("keeps journals separate", s.KeepsJournalsSeparate)
}

func (s *JournalValidationSuite) MakeTestJournalID() JournalID {
	return JournalID("go-test." + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

func (s *JournalValidationSuite) MakeTestAction() JournalValidationAction {
	return JournalValidationAction{
		TestStringValue: s.faker.Lorem().Sentence(10),
		TestIntValue:    s.faker.Int(),
	}
}

func (s *JournalValidationSuite) MakeTestActions(count int) []Action {
	actions := make([]Action, count)
	for i := 0; i < count; i++ {
		actions[i] = s.MakeTestAction()
	}

	return actions
}

func (s *JournalValidationSuite) LoadsEmpty(t *testing.T) {
	entries, err := s.journal.Load(s.ctx, s.MakeTestJournalID())
	if !assert.Nil(t, err) {
		return
	}

	assert.Empty(t, entries)
}

func (s *JournalValidationSuite) AppendsSingleAction(t *testing.T) {
	id := s.MakeTestJournalID()

	revision, err := s.journal.Append(s.ctx, id, s.MakeTestAction())
	if !assert.Nil(t, err) {
		return
	}

	entries, err := s.journal.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	if assert.Len(t, entries, 1) {
		assert.Equal(t, revision, entries[0].Revision)
		assert.Equal(t, id, entries[0].Journal)
		assert.Equal(t, ActionType("test/journalValidation"), entries[0].Type)
	}
}

func (s *JournalValidationSuite) AppendsInOrder(t *testing.T) {
	id := s.MakeTestJournalID()
	actions := s.MakeTestActions(17)

	revision, err := s.journal.Append(s.ctx, id, actions...)
	if !assert.Nil(t, err) {
		return
	}

	entries, err := s.journal.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	if !assert.Len(t, entries, len(actions)) {
		return
	}

	assert.Equal(t, revision, entries[len(entries)-1].Revision)
	for i, entry := range entries {
		var decoded JournalValidationAction
		if assert.Nil(t, UnmarshalFromData(entry.Data, &decoded)) {
			assert.Equal(t, actions[i], decoded)
		}
	}
}

func (s *JournalValidationSuite) RevisionsIncrease(t *testing.T) {
	id := s.MakeTestJournalID()

	for i := 0; i < 5; i++ {
		if _, err := s.journal.Append(s.ctx, id, s.MakeTestActions(2)...); !assert.Nil(t, err) {
			return
		}
	}

	entries, err := s.journal.Load(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}

	revisions := make([]string, len(entries))
	for i, entry := range entries {
		revisions[i] = entry.Revision.String()
	}

	assert.Len(t, revisions, 10)
	assert.True(t, sort.StringsAreSorted(revisions))
}

func (s *JournalValidationSuite) EntriesDecode(t *testing.T) {
	id := s.MakeTestJournalID()
	action := s.MakeTestAction()

	if _, err := s.journal.Append(s.ctx, id, action); !assert.Nil(t, err) {
		return
	}

	entries, err := s.journal.Load(s.ctx, id)
	if !assert.Nil(t, err) || !assert.Len(t, entries, 1) {
		return
	}

	decoders := ActionDecoders{ActionTypeOf(action): Decoder[JournalValidationAction]()}
	remote, err := entries[0].RemoteAction()
	if !assert.Nil(t, err) {
		return
	}

	decoded, err := decoders.Decode(s.ctx, remote)
	if assert.Nil(t, err) {
		assert.Equal(t, action, decoded)
	}
}

func (s *JournalValidationSuite) Removes(t *testing.T) {
	id := s.MakeTestJournalID()

	if _, err := s.journal.Append(s.ctx, id, s.MakeTestActions(3)...); !assert.Nil(t, err) {
		return
	}

	count, err := s.journal.Remove(s.ctx, id)
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, 3, count)

	entries, err := s.journal.Load(s.ctx, id)
	if assert.Nil(t, err) {
		assert.Empty(t, entries)
	}
}

func (s *JournalValidationSuite) KeepsJournalsSeparate(t *testing.T) {
	first := s.MakeTestJournalID()
	second := s.MakeTestJournalID()

	if _, err := s.journal.Append(s.ctx, first, s.MakeTestActions(2)...); !assert.Nil(t, err) {
		return
	}
	if _, err := s.journal.Append(s.ctx, second, s.MakeTestAction()); !assert.Nil(t, err) {
		return
	}

	entries, err := s.journal.Load(s.ctx, first)
	if assert.Nil(t, err) {
		assert.Len(t, entries, 2)
	}

	entries, err = s.journal.Load(s.ctx, second)
	if assert.Nil(t, err) {
		assert.Len(t, entries, 1)
	}
}
