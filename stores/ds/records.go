package ds

import (
	"strings"

	"github.com/weegigs/wee-store-go/we"
)

const (
	changeSetPrefix = "change-set#"
	latestSortKey   = "latest-revision"
)

// changeSet holds the entries written by one append.
type changeSet struct {
	PartitionKey string            `dynamodbav:"pk"`
	SortKey      string            `dynamodbav:"sk"`
	Entries      []we.JournalEntry `dynamodbav:"entries"`
	Count        int               `dynamodbav:"count"`
	Revision     we.Revision       `dynamodbav:"revision"`
	Timestamp    we.Timestamp      `dynamodbav:"timestamp"`
}

type latestRecord struct {
	PartitionKey string       `dynamodbav:"pk"`
	SortKey      string       `dynamodbav:"sk"`
	Revision     we.Revision  `dynamodbav:"revision"`
	Timestamp    we.Timestamp `dynamodbav:"timestamp"`
}

func partitionKey(id we.JournalID) string {
	return id.String()
}

func sortKey(revision we.Revision) string {
	return strings.Join([]string{changeSetPrefix, revision.String()}, "")
}

func newChangeSet(id we.JournalID, entries []we.JournalEntry) *changeSet {
	last := entries[len(entries)-1]

	return &changeSet{
		PartitionKey: partitionKey(id),
		SortKey:      sortKey(last.Revision),
		Entries:      entries,
		Count:        len(entries),
		Revision:     last.Revision,
		Timestamp:    last.Timestamp,
	}
}

func latestFor(record *changeSet) *latestRecord {
	return &latestRecord{
		PartitionKey: record.PartitionKey,
		SortKey:      latestSortKey,
		Revision:     record.Revision,
		Timestamp:    record.Timestamp,
	}
}
