package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-htmlview/pkg/view"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "htmlview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	want := Defaults()
	assert.Equal(t, want.Env, cfg.Env)
	assert.Equal(t, want.Path, cfg.Path)
	assert.Equal(t, CacheAuto, cfg.Cache.Mode)
	assert.Equal(t, "127.0.0.1:8080", cfg.Serve.Addr)
	assert.Empty(t, cfg.Namespaces)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
env: production
path: ./site/views
strict_paths: true
namespaces:
  admin: ./admin/views
cache:
  mode: "on"
  ttl: 5m
serve:
  addr: ":9000"
`)
	t.Setenv("HTMLVIEW_SERVE_ADDR", ":9100")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "./site/views", cfg.Path)
	assert.True(t, cfg.StrictPaths)
	assert.Equal(t, map[string]string{"admin": "./admin/views"}, cfg.Namespaces)
	assert.Equal(t, CacheOn, cfg.Cache.Mode)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, ":9100", cfg.Serve.Addr, "environment overrides the file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"cache mode":         "cache:\n  mode: sometimes\n",
		"reserved namespace": "namespaces:\n  __default: ./x\n",
		"empty directory":    "namespaces:\n  admin: \"\"\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestViewOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	cfg.Env = view.EnvProduction
	cfg.Path = dir
	cfg.Namespaces = map[string]string{"admin": filepath.Join(dir, "admin")}
	cfg.Cache.Mode = CacheOff
	cfg.StrictPaths = true

	opts := append(cfg.ViewOptions(), view.WithLoader(view.NewRegistry()))
	r, err := view.New(opts...)
	require.NoError(t, err)

	assert.Equal(t, view.EnvProduction, r.Env())
	assert.Equal(t, []string{view.DefaultNamespace, "admin"}, r.Namespaces().Names())
	assert.ErrorIs(t, r.Watch(t.Context()), view.ErrCacheDisabled, "cache.mode off wins over production")

	_, err = r.ResolvePath("../escape")
	assert.ErrorIs(t, err, view.ErrPathTraversal)
}
