package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOARDCTL_TOKEN", "tok-env")
	t.Setenv("BOARDCTL_OWNER", "acme")
	t.Setenv("BOARDCTL_PROJECT", "4")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "tok-env", cfg.Token)
	assert.Equal(t, "acme", cfg.Owner)
	assert.Equal(t, 4, cfg.ProjectNumber)
	assert.Equal(t, 0.3, cfg.MinScore, "default minimum score")
}

func TestLoadGithubTokenFallback(t *testing.T) {
	t.Setenv("BOARDCTL_TOKEN", "")
	os.Unsetenv("BOARDCTL_TOKEN")
	t.Setenv("GITHUB_TOKEN", "gh-tok")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "gh-tok", cfg.Token)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"complete", Config{Token: "t", Owner: "o", ProjectNumber: 1}, ""},
		{"missing token", Config{Owner: "o", ProjectNumber: 1}, "token"},
		{"missing owner", Config{Token: "t", ProjectNumber: 1}, "owner"},
		{"missing project", Config{Token: "t", Owner: "o"}, "project"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases:\n  qa: in review\n  icebox: backlog\n"), 0o644))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"qa": "in review", "icebox": "backlog"}, aliases)
}

func TestLoadAliasesEmptyPath(t *testing.T) {
	aliases, err := LoadAliases("")
	assert.NoError(t, err)
	assert.Nil(t, aliases)
}

func TestLoadAliasesMissingFile(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadAliasesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("aliases: [not a map"), 0o644))

	_, err := LoadAliases(path)
	assert.Error(t, err)
}
