package tickshard

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, runtime.NumCPU(), cfg.Workers)
	require.Equal(t, 4, cfg.QueueSize)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, runtime.NumCPU(), cfg.Workers)
		require.Equal(t, 4, cfg.QueueSize)
		require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			Workers:         8,
			QueueSize:       16,
			ShutdownTimeout: 20 * time.Second,
		}
		SetDefaults(&cfg)

		require.Equal(t, 8, cfg.Workers)
		require.Equal(t, 16, cfg.QueueSize)
		require.Equal(t, 20*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("applies partial defaults", func(t *testing.T) {
		cfg := Config{Workers: 2}
		SetDefaults(&cfg)

		require.Equal(t, 2, cfg.Workers)
		require.Equal(t, 4, cfg.QueueSize)
		require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects zero workers", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Workers = 0

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "Workers")
	})

	t.Run("rejects zero queue size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.QueueSize = 0

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "QueueSize")
	})

	t.Run("rejects negative shutdown timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ShutdownTimeout = -time.Second

		err := cfg.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "ShutdownTimeout")
	})
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 2, cfg.QueueSize)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

// TestConfig_YAML demonstrates that time.Duration works directly with YAML
// unmarshaling.
func TestConfig_YAML(t *testing.T) {
	yamlConfig := `
workers: 6
queueSize: 8
shutdownTimeout: 15s
`

	var cfg Config
	err := yaml.Unmarshal([]byte(yamlConfig), &cfg)
	require.NoError(t, err)

	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, 8, cfg.QueueSize)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

// TestConfig_DefaultsWithPartialYAML demonstrates using SetDefaults with a
// partial config file.
func TestConfig_DefaultsWithPartialYAML(t *testing.T) {
	yamlConfig := `
workers: 2
`

	var cfg Config
	err := yaml.Unmarshal([]byte(yamlConfig), &cfg)
	require.NoError(t, err)

	SetDefaults(&cfg)

	require.Equal(t, 2, cfg.Workers)
	require.Equal(t, 4, cfg.QueueSize)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
