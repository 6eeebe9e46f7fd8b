package deploy

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	fn := path.Join(dir, "deployer.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(contents), 0644))
	return fn
}

func populate(t *testing.T, contents string) Config {
	t.Helper()
	provider, err := config.NewYAMLProviderWithExpand(os.LookupEnv, writeConfigFile(t, contents))
	require.NoError(t, err)

	cfg := DefaultConfig()
	require.NoError(t, provider.Get("deployer").Populate(&cfg))
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gcloud", cfg.GcloudPath)
	assert.Equal(t, "panoptes-survey", cfg.Project)
	require.NoError(t, cfg.Function.Validate())
}

func TestPopulateOverridesRuntime(t *testing.T) {
	cfg := populate(t, `
deployer:
  function:
    runtime: python313
`)
	assert.Equal(t, "python313", cfg.Function.Runtime)
	// untouched fields keep the authored values
	assert.Equal(t, "ack_fits_received", cfg.Function.EntryPoint)
	assert.Equal(t, "panoptes-survey", cfg.Function.TriggerResource)
}

func TestPopulateExpandsEnvironment(t *testing.T) {
	os.Setenv("TEST_DEPLOY_BUCKET", "panoptes-test")
	defer os.Unsetenv("TEST_DEPLOY_BUCKET")

	cfg := populate(t, `
deployer:
  function:
    trigger_resource: ${TEST_DEPLOY_BUCKET:panoptes-survey}
`)
	assert.Equal(t, "panoptes-test", cfg.Function.TriggerResource)
}
