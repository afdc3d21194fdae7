package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANALYZER_CONFIG", "")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Validate(cfg))
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	body := `input: app.log
output: out/report.json
level: warning
log:
  format: console
metrics:
  enabled: true
  linger: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "app.log", cfg.InputPath)
	assert.Equal(t, "out/report.json", cfg.OutputPath)
	assert.Equal(t, "warning", cfg.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Metrics.Linger)
	assert.Equal(t, ":8000", cfg.Metrics.Addr)
}

func TestLoadJSONFileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"input":"from-json.log","sink":{"max_retries":7}}`), 0o644))
	t.Setenv("ANALYZER_CONFIG", path)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "from-json.log", cfg.InputPath)
	assert.Equal(t, 7, cfg.Sink.MaxRetries)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPrecedenceFileEnvFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("level: info\noutput: file.json\ninput: file.log\n"), 0o644))

	t.Setenv("ANALYZER_LEVEL", "warning")
	t.Setenv("ANALYZER_OUTPUT", "env.json")
	t.Setenv("ANALYZER_LOG_LEVEL", "debug")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("level", "", "")
	require.NoError(t, fs.Parse([]string{"--level", "error"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("level", fs.Lookup("level")))

	cfg, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Level, "flag beats env")
	assert.Equal(t, "env.json", cfg.OutputPath, "env beats file")
	assert.Equal(t, "file.log", cfg.InputPath, "file beats default")
	assert.Equal(t, "debug", cfg.Log.Level, "nested keys read from env")
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ANALYZER_DOTENV_PROBE=base\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("ANALYZER_DOTENV_PROBE=staging\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("ANALYZER_OUTPUT=local.json\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ANALYZER_DOTENV_PROBE") })

	t.Setenv("ANALYZER_ENV", "staging")
	t.Setenv("ANALYZER_OUTPUT", "process.json")

	require.NoError(t, LoadEnvFiles(dir))
	assert.Equal(t, "staging", os.Getenv("ANALYZER_DOTENV_PROBE"))
	assert.Equal(t, "local.json", os.Getenv("ANALYZER_OUTPUT"))
}

func TestLoadEnvFilesMissingIsFine(t *testing.T) {
	assert.NoError(t, LoadEnvFiles(t.TempDir()))
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.InputPath = ""
	cfg.Level = "debug"
	cfg.DecodeErrors = "lenient"
	cfg.OutputPath = "s3://bucket-only"
	cfg.Sink.MaxRetries = -1
	cfg.Metrics.Enabled = true
	cfg.Metrics.Addr = ""
	cfg.Log.Format = "xml"

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"input path is required",
		`invalid level "debug"`,
		`invalid decode_errors "lenient"`,
		"s3://bucket/key",
		"sink.max_retries",
		"metrics.addr",
		`invalid log.format "xml"`,
	} {
		assert.True(t, strings.Contains(msg, want), "missing %q in %s", want, msg)
	}
}

func TestValidateAcceptsFilterAnyCase(t *testing.T) {
	cfg := Default()
	cfg.Level = "Warning"
	cfg.OutputPath = "s3://logs/reports/today.json"
	assert.NoError(t, Validate(cfg))
}

func TestValidateS3SchemeAnyCase(t *testing.T) {
	cfg := Default()
	cfg.OutputPath = "S3://bucket"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `s3 output "S3://bucket"`)

	cfg.OutputPath = "S3://logs/report.json"
	assert.NoError(t, Validate(cfg))
}
