package support

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-store-go/we"
)

const (
	MemoryJournal = "memory"
	LocalJournal  = "local"
	DynamoJournal = "dynamo"
)

type Telemetry struct {
	Exporter         string `env:"EXPORTER" envDefault:"none"`
	HoneycombTeam    string `env:"HONEYCOMB_TEAM"`
	HoneycombDataset string `env:"HONEYCOMB_DATASET"`
	JaegerEndpoint   string `env:"JAEGER_ENDPOINT" envDefault:"http://localhost:14268/api/traces"`
}

func (t Telemetry) Settings() we.TelemetrySettings {
	return we.TelemetrySettings{
		Exporter:         t.Exporter,
		HoneycombTeam:    t.HoneycombTeam,
		HoneycombDataset: t.HoneycombDataset,
		JaegerEndpoint:   t.JaegerEndpoint,
	}
}

type Config struct {
	Address        string        `env:"WEE_ADDRESS"                 envDefault:":9080"`
	LogLevel       string        `env:"WEE_LOG_LEVEL"               envDefault:"info"`
	Journal        string        `env:"WEE_JOURNAL"                 envDefault:"memory"`
	JournalID      string        `env:"WEE_JOURNAL_ID"              envDefault:"app"`
	Table          string        `env:"DYNAMODB_JOURNAL_TABLE_NAME" envDefault:"wee-store"`
	IncrementDelay time.Duration `env:"WEE_INCREMENT_DELAY"         envDefault:"1s"`
	FetchDelay     time.Duration `env:"WEE_FETCH_DELAY"             envDefault:"1500ms"`
	Telemetry      Telemetry     `envPrefix:"WEE_TELEMETRY_"`
}

func (c Config) validate() error {
	switch c.Journal {
	case MemoryJournal, LocalJournal, DynamoJournal:
	default:
		return errors.Errorf("unknown journal backend %q", c.Journal)
	}

	if c.Journal != MemoryJournal && c.Table == "" {
		return errors.New("DYNAMODB_JOURNAL_TABLE_NAME is not set")
	}

	if c.JournalID == "" {
		return errors.New("WEE_JOURNAL_ID is not set")
	}

	return nil
}

// LoadConfig reads the process configuration from the environment.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(options env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, options); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse environment")
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func AWSConfig(ctx context.Context) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx)
}
