package ds

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/weegigs/wee-store-go/we"
)

const tracerName = "wee-store/ds"

type TableName string

func (name TableName) String() string {
	return string(name)
}

// DynamoJournal keeps journals in a single table keyed by journal id. Every
// append writes one change set item together with a latest revision record
// that guards against concurrent appends.
type DynamoJournal struct {
	db        *dynamodb.Client
	table     string
	revisions *we.RevisionGenerator
	now       func() time.Time
}

func NewJournal(db *dynamodb.Client, table TableName) *DynamoJournal {
	return &DynamoJournal{db: db, table: string(table), revisions: we.NewRevisionGenerator(), now: time.Now}
}

func (ds *DynamoJournal) Append(ctx context.Context, id we.JournalID, actions ...we.Action) (we.Revision, error) {
	if len(actions) == 0 {
		return "", errors.New("attempted to append an empty list of actions")
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "journal append")
	defer span.End()
	span.SetAttributes(attribute.String("journal", id.String()), attribute.Int("actions", len(actions)))

	var revision we.Revision

	err := retry.Do(
		func() error {
			entries, err := we.MakeEntries(id, ds.revisions, ds.now(), actions...)
			if err != nil {
				return err
			}

			changes := newChangeSet(id, entries)
			revision = changes.Revision

			return ds.write(ctx, changes)
		},
		retry.RetryIf(isRevisionConflict),
		retry.LastErrorOnly(true),
	)

	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to append to journal "+id.String())
	}

	return revision, nil
}

func (ds *DynamoJournal) write(ctx context.Context, changes *changeSet) error {
	latest, err := attributevalue.MarshalMap(latestFor(changes))
	if err != nil {
		return err
	}

	record, err := attributevalue.MarshalMap(changes)
	if err != nil {
		return err
	}

	condition, err := expression.NewBuilder().WithCondition(latestCondition(changes.Revision)).Build()
	if err != nil {
		return err
	}

	write := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					Item:                                latest,
					TableName:                           aws.String(ds.table),
					ConditionExpression:                 condition.Condition(),
					ExpressionAttributeNames:            condition.Names(),
					ExpressionAttributeValues:           condition.Values(),
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureNone,
				},
			},
			{
				Put: &types.Put{
					Item:      record,
					TableName: aws.String(ds.table),
				},
			},
		},
	}

	_, err = ds.db.TransactWriteItems(ctx, write)
	return maybeRevisionConflict(err)
}

func (ds *DynamoJournal) Load(ctx context.Context, id we.JournalID) ([]we.JournalEntry, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "journal load")
	defer span.End()
	span.SetAttributes(attribute.String("journal", id.String()))

	query := expression.Key("pk").Equal(expression.Value(partitionKey(id))).And(
		expression.Key("sk").BeginsWith(changeSetPrefix),
	)

	projection := expression.NamesList(expression.Name("entries"))

	expr, err := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection).Build()
	if err != nil {
		return nil, err
	}

	entries := []we.JournalEntry{}
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to load journal "+id.String())
		}

		var items []changeSet
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to read change sets")
		}

		for _, record := range items {
			entries = append(entries, record.Entries...)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return entries, nil
}

// Remove deletes every item of the journal and returns the number of
// entries removed.
func (ds *DynamoJournal) Remove(ctx context.Context, id we.JournalID) (int, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "journal remove")
	defer span.End()
	span.SetAttributes(attribute.String("journal", id.String()))

	type record struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
		Count        int    `dynamodbav:"count"`
	}

	type key struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
	}

	query := expression.Key("pk").Equal(expression.Value(partitionKey(id)))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"), expression.Name("count"))

	expr, err := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection).Build()
	if err != nil {
		return 0, err
	}

	var count int
	var start map[string]types.AttributeValue
	for {
		out, err := ds.db.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			Limit:                     aws.Int32(25),
		})
		if err != nil {
			return count, err
		}

		if len(out.Items) > 0 {
			var items []record
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
				return count, err
			}

			var deletes []types.TransactWriteItem
			removed := 0
			for _, item := range items {
				k, err := attributevalue.MarshalMap(key{PartitionKey: item.PartitionKey, SortKey: item.SortKey})
				if err != nil {
					return count, err
				}

				deletes = append(deletes, types.TransactWriteItem{
					Delete: &types.Delete{
						Key:       k,
						TableName: aws.String(ds.table),
					},
				})

				removed += item.Count
			}

			if _, err := ds.db.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: deletes}); err != nil {
				return count, err
			}

			count += removed
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return count, nil
}

func latestCondition(revision we.Revision) expression.ConditionBuilder {
	return expression.Name("revision").LessThan(expression.Value(revision)).Or(
		expression.AttributeNotExists(expression.Name("revision")),
	)
}

func isRevisionConflict(err error) bool {
	return errors.Is(err, we.RevisionConflict)
}

func maybeRevisionConflict(err error) error {
	var oe *smithy.OperationError
	if errors.As(err, &oe) {
		var re *http.ResponseError
		if errors.As(oe.Unwrap(), &re) {
			var tc *types.TransactionCanceledException
			if errors.As(re.Unwrap(), &tc) {
				for _, reason := range tc.CancellationReasons {
					if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
						return we.RevisionConflict
					}
				}
			}
		}
	}

	return err
}
