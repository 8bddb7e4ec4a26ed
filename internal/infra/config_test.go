package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "player-images", cfg.ImageBucket)
	assert.Equal(t, "google", cfg.OAuthProvider)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LIVESBOARD_BACKEND_URL", "https://backend.example")
	t.Setenv("LIVESBOARD_ANON_KEY", "key-1")
	t.Setenv("LIVESBOARD_IMAGE_BUCKET", "otros")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example", cfg.BackendURL)
	assert.Equal(t, "otros", cfg.ImageBucket)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_MissingBackend(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate())
}
