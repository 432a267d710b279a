package ds

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/google/wire"
	"github.com/weegigs/wee-store-go/support"
	"github.com/weegigs/wee-store-go/we"
)

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	NewJournal,
	wire.Bind(new(we.Journal), new(*DynamoJournal)),
)

var Local = wire.NewSet(
	LocalJournal,
	wire.Bind(new(we.Journal), new(*DynamoJournal)),
)

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
