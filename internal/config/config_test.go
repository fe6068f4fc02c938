package config

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "/project")
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Empty(t, cfg.Blueprints)
	assert.False(t, cfg.Force)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, ".config", "jhipster-go", "history.db"), cfg.HistoryDB)
	assert.Empty(t, cfg.File)
}

func TestLoad_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/.jhipster-go.yaml", []byte(`
blueprints: [docker]
skip_install: true
log_level: debug
history_db: ~/jhipster/history.db
`), 0o644))

	cfg, err := Load(fs, "/project")
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)
	assert.Equal(t, []string{"docker"}, cfg.Blueprints)
	assert.True(t, cfg.SkipInstall)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, "jhipster", "history.db"), cfg.HistoryDB)
	assert.Equal(t, "/project/.jhipster-go.yaml", cfg.File)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("JHIPSTER_FORCE", "true")
	t.Setenv("JHIPSTER_SKIP_GIT", "")
	t.Setenv("JHIPSTER_BLUEPRINTS", "")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/.env", []byte("JHIPSTER_SKIP_GIT=true\nJHIPSTER_FORCE=false\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/project/.env.local", []byte("JHIPSTER_BLUEPRINTS=docker,custom\n"), 0o644))

	cfg, err := Load(fs, "/project")
	require.NoError(t, err)
	assert.True(t, cfg.Force, ".env does not override the environment")
	assert.False(t, cfg.SkipGit, "variables set to empty stay set")
	assert.Equal(t, []string{"docker", "custom"}, cfg.Blueprints)
}

func TestLoad_InvalidFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/project/.jhipster-go.yaml", []byte("force: [unclosed"), 0o644))

	_, err := Load(fs, "/project")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "", "c"}))
	assert.Equal(t, []string{}, splitList(nil))
}
