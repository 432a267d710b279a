package support

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := parseConfig(env.Options{Environment: map[string]string{}})
		require.NoError(t, err)

		assert.Equal(t, ":9080", cfg.Address)
		assert.Equal(t, MemoryJournal, cfg.Journal)
		assert.Equal(t, "app", cfg.JournalID)
		assert.Equal(t, time.Second, cfg.IncrementDelay)
		assert.Equal(t, 1500*time.Millisecond, cfg.FetchDelay)
		assert.Equal(t, "none", cfg.Telemetry.Exporter)
	})

	t.Run("reads the environment", func(t *testing.T) {
		cfg, err := parseConfig(env.Options{Environment: map[string]string{
			"WEE_ADDRESS":                  ":8080",
			"WEE_JOURNAL":                  DynamoJournal,
			"DYNAMODB_JOURNAL_TABLE_NAME":  "journal",
			"WEE_FETCH_DELAY":              "20ms",
			"WEE_TELEMETRY_EXPORTER":       "honeycomb",
			"WEE_TELEMETRY_HONEYCOMB_TEAM": "team",
		}})
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Address)
		assert.Equal(t, DynamoJournal, cfg.Journal)
		assert.Equal(t, "journal", cfg.Table)
		assert.Equal(t, 20*time.Millisecond, cfg.FetchDelay)

		settings := cfg.Telemetry.Settings()
		assert.Equal(t, "honeycomb", settings.Exporter)
		assert.Equal(t, "team", settings.HoneycombTeam)
	})

	t.Run("rejects unknown journals", func(t *testing.T) {
		_, err := parseConfig(env.Options{Environment: map[string]string{"WEE_JOURNAL": "postgres"}})
		assert.Error(t, err)
	})

	t.Run("rejects malformed delays", func(t *testing.T) {
		_, err := parseConfig(env.Options{Environment: map[string]string{"WEE_INCREMENT_DELAY": "soon"}})
		assert.Error(t, err)
	})
}
