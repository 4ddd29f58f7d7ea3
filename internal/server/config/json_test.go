package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv(flagx.ConfigFileEnv, "")

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":             "www.example:9000",
		"storage_backend":                "mongo",
		"mongo_uri":                      "mongodb://db:27017",
		"mongo_database":                 "tasks",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "30m",
		"reset_token_validity_duration":  "2h",
		"mailer":                         "smtp",
		"smtp_host":                      "smtp.example.com",
		"smtp_port":                      2525,
		"cors_allowed_origins":           []string{"https://app.example.com"},
		"rate_limit_per_minute":          0,
		"bootstrap_admin_email":          "root@example.com",
		"trust_proxy_headers":            true,
		"mail_send_timeout":              "20s",
		"http_write_timeout":             "45s",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC, "absent field keeps default")
		assert.Equal(t, StorageMongo, cfg.StorageBackend)
		assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
		assert.Equal(t, "tasks", cfg.MongoDatabase)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 2*time.Hour, cfg.ResetTokenValidityDuration)
		assert.Equal(t, MailerSMTP, cfg.Mailer)
		assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
		assert.Equal(t, 2525, cfg.SMTPPort)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, 0, cfg.RateLimitPerMinute, "explicit zero disables limiting")
		assert.Equal(t, "root@example.com", cfg.BootstrapAdminEmail)
		assert.True(t, cfg.TrustProxyHeaders)
		assert.Equal(t, 20*time.Second, cfg.MailSendTimeout)
		assert.Equal(t, 45*time.Second, cfg.HTTPWriteTimeout)
	})

	t.Run("no config file leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrHTTP: "defaults:1234", SecretKey: "key"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
