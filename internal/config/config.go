// Package config handles configuration for the Daybook client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for Daybook.
//
// Fields:
//   - DataDir: directory holding the local database and logs.
//   - StoreBackend / StoreDSN: local store selection ("sqlite" or "postgres")
//     and its data source name. An empty sqlite DSN derives a file path
//     under DataDir.
//   - CloudProvider: remote backend selection ("s3" or "api").
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     object storage settings, endpoint override for MinIO-style backends.
//   - APIBaseURL: base URL of the Daybook HTTP API.
//   - AutoSync: whether data changes schedule background syncs.
//   - SyncDebounce: quiet period after the last change before a sync fires.
//   - ProviderInitTimeout: deadline for cloud initialization at connect;
//     on expiry the app continues with local data only.
//   - BackupInterval / BackupMinInterval / MaxBackups: backup cadence,
//     time-based skip threshold and retention count.
//   - Debug: verbose logging, duplicated to stderr.
type Config struct {
	DataDir             string
	StoreBackend        string
	StoreDSN            string
	CloudProvider       string
	S3RootUser          string
	S3RootPassword      string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	APIBaseURL          string
	AutoSync            bool
	SyncDebounce        time.Duration
	ProviderInitTimeout time.Duration
	BackupInterval      time.Duration
	BackupMinInterval   time.Duration
	MaxBackups          int
	Debug               bool
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: The S3 values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DataDir = "daybook-data"
	c.StoreBackend = "sqlite"
	c.StoreDSN = ""
	c.CloudProvider = "s3"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "daybook"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.AutoSync = true
	c.SyncDebounce = 2 * time.Second
	c.ProviderInitTimeout = 10 * time.Second
	c.BackupInterval = 5 * time.Minute
	c.BackupMinInterval = 150 * time.Second
	c.MaxBackups = 10
	c.Debug = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
