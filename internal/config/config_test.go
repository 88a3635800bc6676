package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
kubeconfig: /tmp/hub.kubeconfig
namespace: lab
requestTimeout: 10s
maxConcurrentPatches: 4
dryRun: true
consoleURL: https://console.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hub.kubeconfig", cfg.Kubeconfig)
	assert.Equal(t, "lab", cfg.Namespace)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrentPatches)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "https://console.example.com", cfg.ConsoleURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "namespace: lab\nmaxConcurrentPatches: 4\n")
	t.Setenv(EnvNamespace, "edge")
	t.Setenv(EnvMaxConcurrentPatches, "2")
	t.Setenv(EnvRequestTimeout, "not-a-duration")
	t.Setenv(EnvDryRun, "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "edge", cfg.Namespace)
	assert.Equal(t, 2, cfg.MaxConcurrentPatches)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout, "unparsable values are ignored")
	assert.True(t, cfg.DryRun)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_DefaultPathMissingUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultMaxConcurrentPatches, cfg.MaxConcurrentPatches)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad yaml",
			content: "namespace: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "bad namespace",
			content: "namespace: Not_A_Namespace",
			wantErr: "namespace",
		},
		{
			name:    "too many patches",
			content: "maxConcurrentPatches: 500",
			wantErr: "maxConcurrentPatches",
		},
		{
			name:    "bad console url",
			content: "consoleURL: not a url",
			wantErr: "consoleURL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromBytes([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	cfg := Default()
	cfg.Namespace = "lab"
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	loaded, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
