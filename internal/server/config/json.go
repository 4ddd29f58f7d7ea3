package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept either Go duration strings ("1h") or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	LogLevel         string `json:"log_level"`

	HTTPWriteTimeout timex.Duration `json:"http_write_timeout"`
	MailSendTimeout  timex.Duration `json:"mail_send_timeout"`

	StorageBackend string `json:"storage_backend"`
	DatabaseDSN    string `json:"database_dsn"`
	MongoURI       string `json:"mongo_uri"`
	MongoDatabase  string `json:"mongo_database"`

	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResetTokenValidityDuration  timex.Duration `json:"reset_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`

	Mailer       string `json:"mailer"`
	MailFrom     string `json:"mail_from"`
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	ResetURLBase string `json:"reset_url_base"`

	SESRegion          string `json:"ses_region"`
	SESAccessKeyID     string `json:"ses_access_key_id"`
	SESSecretAccessKey string `json:"ses_secret_access_key"`
	SESEndpoint        string `json:"ses_endpoint"`

	CORSAllowedOrigins []string `json:"cors_allowed_origins"`
	RateLimitPerMinute *int     `json:"rate_limit_per_minute"`
	TrustProxyHeaders  *bool    `json:"trust_proxy_headers"`

	BootstrapAdminUserName string `json:"bootstrap_admin_username"`
	BootstrapAdminEmail    string `json:"bootstrap_admin_email"`
	BootstrapAdminPassword string `json:"bootstrap_admin_password"`
}

// parseJson loads the file named by -c/-config (or TASKKEEPER_CONFIG) and
// copies every field that is present into config. Missing file name means
// nothing to do; an unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.LogLevel, c.LogLevel)
	if c.HTTPWriteTimeout.Duration != 0 {
		config.HTTPWriteTimeout = c.HTTPWriteTimeout.Duration
	}
	if c.MailSendTimeout.Duration != 0 {
		config.MailSendTimeout = c.MailSendTimeout.Duration
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ResetTokenValidityDuration.Duration != 0 {
		config.ResetTokenValidityDuration = c.ResetTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.Mailer, c.Mailer)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.SESRegion, c.SESRegion)
	setString(&config.SESAccessKeyID, c.SESAccessKeyID)
	setString(&config.SESSecretAccessKey, c.SESSecretAccessKey)
	setString(&config.SESEndpoint, c.SESEndpoint)
	setString(&config.ResetURLBase, c.ResetURLBase)
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.RateLimitPerMinute != nil {
		config.RateLimitPerMinute = *c.RateLimitPerMinute
	}
	if c.TrustProxyHeaders != nil {
		config.TrustProxyHeaders = *c.TrustProxyHeaders
	}
	setString(&config.BootstrapAdminUserName, c.BootstrapAdminUserName)
	setString(&config.BootstrapAdminEmail, c.BootstrapAdminEmail)
	setString(&config.BootstrapAdminPassword, c.BootstrapAdminPassword)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
