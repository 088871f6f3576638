package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModuleBeforeInit(t *testing.T) {
	l := Module("test")
	require.NotNil(t, l)
	l.Infof("discarded %d", 1)
}

func TestInitWithRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "whois.log")

	l, err := Init(Options{Env: "production", File: file, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	require.NotNil(t, l)

	Module("resolver").Infow("lookup finished", "key", "example.com")
	Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "lookup finished")
	require.Contains(t, string(data), "example.com")
}
