package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tr "github.com/stretchr/testify/require"
)

func writeFrontendDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	manifest := []byte(`{"suffix": "abc123"}`)
	tr.NoError(t, os.WriteFile(filepath.Join(dir, "bundles.json"), manifest, 0o644))
	return dir
}

func setRequiredEnv(t *testing.T, frontendDir string) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("SSL", "0")
	t.Setenv("FRONTEND_DIR", frontendDir)
	t.Setenv("CAPTCHA_SITE_KEY", "site-key")
	t.Setenv("CAPTCHA_SITE_SECRET", "site-secret")
	t.Setenv("CLIENT_ID", "client-1")
	t.Setenv("BUCKET_ID", "bucket-1")
	t.Setenv("API_URL", "http://api.internal")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("UPSTREAM_TIMEOUT", "")
}

func TestLoadComplete(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))

	cfg, err := Load()
	tr.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.SSL)
	assert.Equal(t, "bucket-1", cfg.BucketID)
	assert.Equal(t, "http://api.internal", cfg.APIURL)
	assert.Equal(t, defaultUpstreamTimeout, cfg.UpstreamTimeout)

	assert.Equal(t, "/assets/bundles/js/main-abc123.js", cfg.Assets.MainJS)
	assert.Equal(t, "/assets/bundles/css/gallery-abc123.css", cfg.Assets.GalleryCSS)
}

func TestLoadSSLFlag(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))
	t.Setenv("SSL", "1")

	cfg, err := Load()
	tr.NoError(t, err)
	assert.True(t, cfg.SSL)
}

func TestLoadCustomTimeout(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))
	t.Setenv("UPSTREAM_TIMEOUT", "30")

	cfg, err := Load()
	tr.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))

	for _, raw := range []string{"abc", "0", "-5"} {
		t.Setenv("UPSTREAM_TIMEOUT", raw)
		_, err := Load()
		assert.Error(t, err, "timeout %q should be rejected", raw)
	}
}

func TestLoadMissingVariable(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))
	t.Setenv("BUCKET_ID", "")

	_, err := Load()
	tr.Error(t, err)
	assert.Contains(t, err.Error(), "BUCKET_ID")
}

func TestLoadShortJWTSecret(t *testing.T) {
	setRequiredEnv(t, writeFrontendDir(t))
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	tr.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadMissingFrontendDir(t *testing.T) {
	setRequiredEnv(t, filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingBundlesManifest(t *testing.T) {
	setRequiredEnv(t, t.TempDir())

	_, err := Load()
	tr.Error(t, err)
	assert.Contains(t, err.Error(), "bundles.json")
}
