package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/random"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, random.FixedEntropy(random.DefaultFallbackSeed), cfg.Random.EntropySource())
}

func TestParse(t *testing.T) {
	require := require.New(t)

	cfg, err := Parse([]byte(`
common:
  data_dir: /tmp/seedrand
  log:
    format: json
    level:
      default: debug
random:
  zero_seed_policy: crypto
  root_seed: 1234
checkpoint:
  sync_writes: false
  open_timeout: 2s
`))
	require.NoError(err)
	require.Equal("/tmp/seedrand", cfg.Common.DataDir)
	require.Equal("json", cfg.Common.Log.Format)
	require.Equal("debug", cfg.Common.Log.Level["default"])
	require.EqualValues(1234, cfg.Random.RootSeed)
	require.Equal(random.CryptoEntropy{}, cfg.Random.EntropySource())
	require.False(cfg.Checkpoint.SyncWrites)
	require.Equal(2*time.Second, cfg.Checkpoint.OpenTimeout)
	require.Equal("none", cfg.Metrics.Mode, "defaults are kept for omitted sections")

	empty, err := Parse(nil)
	require.NoError(err)
	require.Equal(DefaultConfig(), *empty)
}

func TestParseInvalid(t *testing.T) {
	for _, doc := range []string{
		"random:\n  zero_seed_policy: hardware\n",
		"random:\n  zero_seed_policy: fixed\n  fallback_seed: 0\n",
		"metrics:\n  mode: push\n  address: ''\n",
		"unknown_section: true\n",
		"checkpoint:\n  open_timeout: -1s\n",
	} {
		_, err := Parse([]byte(doc))
		require.Error(t, err, doc)
	}
}

func TestInitConfig(t *testing.T) {
	require := require.New(t)

	t.Setenv("SEEDRAND_TEST_ROOT", "99")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(os.WriteFile(path, []byte("random:\n  zero_seed_policy: fixed\n  fallback_seed: 7\n  root_seed: ${SEEDRAND_TEST_ROOT}\n"), 0o600))

	defer func() { GlobalConfig = DefaultConfig() }()
	require.NoError(InitConfig(path))
	require.EqualValues(99, GlobalConfig.Random.RootSeed)

	require.Error(InitConfig(filepath.Join(t.TempDir(), "missing.yml")))
}
