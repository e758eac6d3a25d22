package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vsop87.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
data_dir: /srv/vsop87
variant: B
format: json
min_amplitude: 1e-8
scalar: true
`))
	require.NoError(t, err)
	assert.Equal(t, &Config{
		DataDir:      "/srv/vsop87",
		Variant:      "B",
		Format:       "json",
		MinAmplitude: 1e-8,
		Scalar:       true,
	}, cfg)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestParseConfigErrors(t *testing.T) {
	_, err := ParseConfig([]byte("datadir: /srv\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "datadir")

	_, err = ParseConfig([]byte("min_amplitude: -0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	_, err = ParseConfig([]byte("format: [json\n"))
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigAppliesUnderFlags(t *testing.T) {
	path := writeConfig(t, "format: json\nvariant: D\n")

	stdout, _, err := execute(t, "--config", path, "position", "earth", "--jd", "2451545")
	require.NoError(t, err)
	var resp struct {
		Status string         `json:"status"`
		Data   PositionResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "VSOP87D", resp.Data.Variant)

	// The flag wins over the file.
	stdout, _, err = execute(t, "--config", path, "--format", "text", "position", "earth", "--jd", "2451545")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Earth VSOP87D  JD 2451545.000000")

	// So does --variant.
	_, _, err = execute(t, "--config", path, "position", "earth", "--jd", "2451545", "--variant", "B")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestConfigRejected(t *testing.T) {
	path := writeConfig(t, "colour: blue\n")
	_, _, err := execute(t, "--config", path, "masses")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "config")
}
