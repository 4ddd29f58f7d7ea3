package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "TASKKEEPER_"

// parseEnv overlays settings from TASKKEEPER_* environment variables.
// Secrets (SECRET_KEY, SMTP_PASSWORD, BOOTSTRAP_ADMIN_PASSWORD) are usually
// supplied this way rather than in the JSON file. Unset or unparsable values
// leave the current setting untouched.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.LogLevel, "LOG_LEVEL")
	envDuration(&config.HTTPWriteTimeout, "HTTP_WRITE_TIMEOUT")
	envDuration(&config.MailSendTimeout, "MAIL_SEND_TIMEOUT")
	envString(&config.StorageBackend, "STORAGE")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.MongoURI, "MONGO_URI")
	envString(&config.MongoDatabase, "MONGO_DATABASE")
	envString(&config.SecretKey, "SECRET_KEY")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envDuration(&config.ResetTokenValidityDuration, "RESET_TOKEN_TTL")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envString(&config.Mailer, "MAILER")
	envString(&config.MailFrom, "MAIL_FROM")
	envString(&config.SMTPHost, "SMTP_HOST")
	envInt(&config.SMTPPort, "SMTP_PORT")
	envString(&config.SMTPUser, "SMTP_USER")
	envString(&config.SMTPPassword, "SMTP_PASSWORD")
	envString(&config.SESRegion, "SES_REGION")
	envString(&config.SESAccessKeyID, "SES_ACCESS_KEY_ID")
	envString(&config.SESSecretAccessKey, "SES_SECRET_ACCESS_KEY")
	envString(&config.SESEndpoint, "SES_ENDPOINT")
	envString(&config.ResetURLBase, "RESET_URL_BASE")
	if v := os.Getenv(EnvPrefix + "CORS_ALLOWED_ORIGINS"); v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
	envInt(&config.RateLimitPerMinute, "RATE_LIMIT_PER_MINUTE")
	envBool(&config.TrustProxyHeaders, "TRUST_PROXY_HEADERS")
	envString(&config.BootstrapAdminUserName, "BOOTSTRAP_ADMIN_USERNAME")
	envString(&config.BootstrapAdminEmail, "BOOTSTRAP_ADMIN_EMAIL")
	envString(&config.BootstrapAdminPassword, "BOOTSTRAP_ADMIN_PASSWORD")
}

func envString(dst *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func envBool(dst *bool, key string) {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return
	}
	if b, err := strconv.ParseBool(v); err == nil {
		*dst = b
	}
}

func envDuration(dst *time.Duration, key string) {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
