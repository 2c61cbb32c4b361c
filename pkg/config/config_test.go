package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhapile/disktree/pkg/config"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v, err := config.New("")
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.True(t, cfg.Tree.IncludeSubdirs)
	assert.Equal(t, 1, cfg.Tree.ExpandDepth)
	assert.Equal(t, '/', cfg.Tree.SeparatorRune())
	assert.Equal(t, "tree", cfg.Output.Format)
	assert.False(t, cfg.Output.Pretty)
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "disktree.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
tree:
  expand_depth: 3
  separator: ":"
output:
  format: json
  pretty: true
`), 0644))

	t.Setenv("DISKTREE_OUTPUT_FORMAT", "yaml")
	t.Setenv("DISKTREE_TREE_INCLUDE_SUBDIRS", "false")

	v, err := config.New(file)
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("expand", 1, "")
	fs.Bool("no-style", false, "")
	require.NoError(t, config.BindFlags(v, fs))
	require.NoError(t, fs.Parse([]string{"--no-style"}))

	cfg, err := config.Load(v)
	require.NoError(t, err)

	// file
	assert.Equal(t, ':', cfg.Tree.SeparatorRune())
	assert.True(t, cfg.Output.Pretty)
	// unchanged flags don't override the file
	assert.Equal(t, 3, cfg.Tree.ExpandDepth)
	// environment beats the file
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.False(t, cfg.Tree.IncludeSubdirs)
	// flags beat everything
	assert.True(t, cfg.Output.NoStyle)
}

func TestConfigFileDiscovery(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "disktree.yaml"), []byte("tree:\n  expand_depth: -1\n"), 0644))

	v, err := config.New("")
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, -1, cfg.Tree.ExpandDepth)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := config.New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.Config
		ok   bool
	}{
		{"defaults", config.Config{Tree: config.TreeConfig{Separator: "/"}}, true},
		{"no separator", config.Config{}, true},
		{"long separator", config.Config{Tree: config.TreeConfig{Separator: "::"}}, false},
		{"expand all", config.Config{Tree: config.TreeConfig{ExpandDepth: -1}}, true},
		{"bad depth", config.Config{Tree: config.TreeConfig{ExpandDepth: -2}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
