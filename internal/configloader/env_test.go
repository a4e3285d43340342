package configloader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normino/normino/pkg/config"
)

func TestLoadFromEnv_AllFields(t *testing.T) {
	cfg := config.NewConfig()
	err := loadFromLookup(cfg, envFrom(map[string]string{
		"NORMINO_NORMINETTE":      "python3 -m norminette",
		"NORMINO_NORMINETTE_ARGS": "-R, CheckForbiddenSourceHeader",
		"NORMINO_EXCLUDE":         "libft, tests/** ,",
		"NORMINO_FOLLOW_SYMLINKS": "1",
		"NORMINO_JOBS":            "3",
		"NORMINO_BATCH_SIZE":      "8",
		"NORMINO_TIMEOUT":         "750ms",
		"NORMINO_COLOR":           "always",
		"NORMINO_FORMAT":          "summary",
		"NORMINO_SERVER":          "https://mirror.example",
		"NORMINO_UPDATE_MODULE":   "example.com/fork/cmd/normino",
	}))
	require.NoError(t, err)

	assert.Equal(t, "python3 -m norminette", cfg.Norminette)
	assert.Equal(t, []string{"-R", "CheckForbiddenSourceHeader"}, cfg.NorminetteArgs)
	assert.Equal(t, []string{"libft", "tests/**"}, cfg.Exclude)
	assert.True(t, cfg.FollowSymlinks)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, 8, cfg.BatchSize)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, config.ColorAlways, cfg.Color)
	assert.Equal(t, config.FormatSummary, cfg.Format)
	assert.Equal(t, "https://mirror.example", cfg.Server)
	assert.Equal(t, "example.com/fork/cmd/normino", cfg.UpdateModule)
}

func TestLoadFromEnv_EmptyValuesIgnored(t *testing.T) {
	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, envFrom(map[string]string{"NORMINO_JOBS": ""})))
	assert.Equal(t, config.DefaultJobs, cfg.Jobs)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"NORMINO_FOLLOW_SYMLINKS": "maybe",
		"NORMINO_BATCH_SIZE":      "ten",
		"NORMINO_TIMEOUT":         "5",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := loadFromLookup(config.NewConfig(), envFrom(map[string]string{key: value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadFromEnv_NilConfig(t *testing.T) {
	assert.NoError(t, LoadFromEnv(nil))
}

func TestLoadFromEnv_ProcessEnvironment(t *testing.T) {
	t.Setenv("NORMINO_BATCH_SIZE", "2")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))
	assert.Equal(t, 2, cfg.BatchSize)
}

func TestEnvVarNames(t *testing.T) {
	assert.Equal(t, "NORMINO_TIMEOUT", GetEnvVarName("timeout"))
	assert.Empty(t, GetEnvVarName("flavor"))

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "NORMINO_EXCLUDE")
}
