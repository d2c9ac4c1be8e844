package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, Log)
	Log.Debug("default logger works before InitLogger")
}

func TestInitLogger(t *testing.T) {
	original := Log
	defer func() { Log = original }()

	t.Run("parses level", func(t *testing.T) {
		require.NoError(t, InitLogger("debug", ""))
		assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	})

	t.Run("falls back to info on unknown level", func(t *testing.T) {
		require.NoError(t, InitLogger("chatty", ""))
		assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	})

	t.Run("writes to file when path given", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pricelens.log")
		require.NoError(t, InitLogger("info", path))

		Log.Info("hello file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello file")
	})

	t.Run("returns error for unwritable path", func(t *testing.T) {
		err := InitLogger("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
		assert.Error(t, err)
	})
}
