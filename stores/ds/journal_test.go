package ds

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-store-go/we"
)

func TestDynamoJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}

	ctx := context.Background()
	journal, tearDown, err := DynamoTestJournal(ctx)
	if err != nil {
		t.Logf("failed to create test journal. %+v", err)
		t.FailNow()
	}
	defer tearDown()

	we.NewJournalValidationSuite(ctx, journal).Run(t)

	t.Run("rejects empty appends", func(t *testing.T) {
		_, err := journal.Append(ctx, "empty")
		assert.Error(t, err)
	})
}

func TestRecords(t *testing.T) {
	entries := []we.JournalEntry{
		{Journal: "app", Revision: "01FVZ0000000000000000000A1", Timestamp: "2022-02-14T09:00:00.000Z"},
		{Journal: "app", Revision: "01FVZ0000000000000000000A2", Timestamp: "2022-02-14T09:00:00.000Z"},
	}

	changes := newChangeSet("app", entries)
	assert.Equal(t, "app", changes.PartitionKey)
	assert.Equal(t, "change-set#01FVZ0000000000000000000A2", changes.SortKey)
	assert.Equal(t, 2, changes.Count)

	latest := latestFor(changes)
	assert.Equal(t, "latest-revision", latest.SortKey)
	assert.Equal(t, changes.Revision, latest.Revision)
}

func TestRevisionConflicts(t *testing.T) {
	code := "ConditionalCheckFailed"
	cancelled := &types.TransactionCanceledException{
		CancellationReasons: []types.CancellationReason{{Code: &code}},
	}

	err := &smithy.OperationError{
		ServiceID:     "DynamoDB",
		OperationName: "TransactWriteItems",
		Err: &http.ResponseError{
			ResponseError: &smithyhttp.ResponseError{Err: cancelled},
		},
	}

	require.Equal(t, we.RevisionConflict, maybeRevisionConflict(err))
	assert.True(t, isRevisionConflict(maybeRevisionConflict(err)))

	other := &smithy.OperationError{ServiceID: "DynamoDB", OperationName: "Query", Err: cancelled}
	assert.Equal(t, error(other), maybeRevisionConflict(other))
	assert.Nil(t, maybeRevisionConflict(nil))
}
