package app

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	cfg = nil
	once = sync.Once{}
	t.Cleanup(func() {
		cfg = nil
		once = sync.Once{}
	})
}

func TestConfig_LoadsApplicationTestYml(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	root := filepath.Dir(cwd)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	resetConfig(t)

	res := Config()
	require.True(t, res.IsOk())
	v := res.MustGet()

	require.Equal(t, "sqlite3", v.GetString("datasource.default.driver"))
	require.Equal(t, ":18080", v.GetString(KeyServerAddr))
}

func TestConfig_EnvOverride(t *testing.T) {
	t.Setenv("POS_SERVER_ADDR", ":9999")
	t.Setenv("POS_POS_SQL_LOG", "false")
	resetConfig(t)

	res := Config()
	require.True(t, res.IsOk())
	s := LoadSettings(res.MustGet())
	require.Equal(t, ":9999", s.ServerAddr)
	require.False(t, s.SQLLog)
	require.Equal(t, "all", s.DefaultStatus)
}

func TestLoadSettings_Defaults(t *testing.T) {
	s := LoadSettings(nil)
	require.Equal(t, Settings{
		ServerAddr:    ":8080",
		DefaultStatus: "active",
		Datasource:    "default",
		SQLLog:        false,
	}, s)
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o644))

	root, ok := findProjectRoot(nested)
	require.True(t, ok)
	require.Equal(t, dir, root)
}

func TestIsTestProcess(t *testing.T) {
	require.True(t, isTestProcess())
}
