package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey(t *testing.T) {
	existing := map[string]any{
		"auth": map[string]any{
			"refreshTokenTTL": "168h",
			"reusePolicy":     "reject",
		},
		"cookie": map[string]any{
			"sameSite": "lax",
		},
		"media": map[string]any{
			"maxUploadBytes": 5242880,
			"bucketUrl":      "mem://",
		},
		"secretKey": map[string]any{
			"refresh": "",
		},
		"postgres": map[string]any{
			"master": map[string]any{
				"userName": "miniblog",
			},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "AUTH_REFRESHTOKENTTL", want: "auth.refreshTokenTTL"},
		{envKey: "AUTH_REUSEPOLICY", want: "auth.reusePolicy"},
		{envKey: "COOKIE_SAMESITE", want: "cookie.sameSite"},
		{envKey: "MEDIA_MAXUPLOADBYTES", want: "media.maxUploadBytes"},
		{envKey: "MEDIA_BUCKETURL", want: "media.bucketUrl"},
		{envKey: "SECRETKEY_REFRESH", want: "secretKey.refresh"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		// Leaf keys absent from the file fall back to lower-case segments.
		{envKey: "COOKIE_DOMAIN", want: "cookie.domain"},
		{envKey: "METRICS__ENABLED", want: "metrics.enabled"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

const sessionPolicyConfig = `
secretKey:
  access: access-secret
  refresh: refresh-secret
auth:
  refreshTokenTTL: 168h
  reusePolicy: reject
cookie:
  sameSite: lax
media:
  maxUploadBytes: 5242880
`

func TestLoadWithEnv_SessionPolicyFromEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(sessionPolicyConfig), 0o600))
	t.Chdir(dir)
	t.Setenv("AUTH_REFRESHTOKENTTL", "72h")
	t.Setenv("AUTH_REUSEPOLICY", ReusePolicyRevokeAll)
	t.Setenv("COOKIE_SAMESITE", "strict")
	t.Setenv("MEDIA_MAXUPLOADBYTES", "1048576")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 72*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, ReusePolicyRevokeAll, cfg.Auth.ReusePolicy)
	assert.Equal(t, "strict", cfg.Cookie.SameSite)
	assert.Equal(t, int64(1<<20), cfg.Media.MaxUploadBytes)
}
