package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"MarketBulletin/internal/config"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bulletin.log")
	flush, err := Init(config.LogConfig{Level: "info", FilePath: path, MaxSize: 1})
	require.NoError(t, err)

	zap.L().Info("section finished", zap.String("section", "gold"))
	zap.L().Debug("filtered out")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"section":"gold"`))
	require.False(t, strings.Contains(string(data), "filtered out"))
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	_, err := Init(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}
