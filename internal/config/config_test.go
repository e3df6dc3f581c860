package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("RETRY_MAX_ATTEMPTS", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "CodeOutput", cfg.Output.Dir)
	require.Equal(t, 4, cfg.Sources.FIIDII.MaxPages)
	require.Equal(t, 10, cfg.Sources.FIIDII.MinUniqueDays)
	require.Equal(t, []int{7, 10}, cfg.Report.FlowWindows)
	require.Equal(t, 3, cfg.Retry.MaxAttempts)
	require.Len(t, cfg.Report.Constituents, 50)
	require.Equal(t, "USD", cfg.Report.Currencies[0].Name)
	require.False(t, cfg.TelegramEnabled())
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
output:
  dir: out
retry:
  max_attempts: 2
  initial_delay: 500ms
http:
  timeout: 25s
sources:
  fii_dii:
    max_pages: 2
    timeout: 12s
report:
  flow_windows: [5]
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("OUTPUT_DIR", "env-out")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "env-out", cfg.Output.Dir)
	require.Equal(t, 2, cfg.Retry.MaxAttempts)
	require.Equal(t, 500*time.Millisecond, cfg.Retry.InitialDelay)
	require.Equal(t, 2, cfg.Sources.FIIDII.MaxPages)
	require.Equal(t, 12*time.Second, cfg.Sources.FIIDII.Timeout)
	require.Equal(t, 25*time.Second, cfg.Sources.Gold.Timeout)
	require.Equal(t, 25*time.Second, cfg.Sources.Silver.Timeout)
	require.Equal(t, 10*time.Second, cfg.Sources.Yahoo.Timeout)
	require.Equal(t, []int{5}, cfg.Report.FlowWindows)
	require.True(t, cfg.TelegramEnabled())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.Retry.MaxAttempts = 5
	require.Error(t, cfg.Validate())

	cfg.Retry.MaxAttempts = 3
	cfg.Sources.News.Timeout = 2 * time.Minute
	require.Error(t, cfg.Validate())

	cfg.Sources.News.Timeout = 20 * time.Second
	cfg.Report.FlowWindows = []int{0}
	require.Error(t, cfg.Validate())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
