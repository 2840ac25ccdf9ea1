package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/flagx"
	"github.com/dmitrijs2005/daybook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "2s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DataDir             string         `json:"data_dir"`
	StoreBackend        string         `json:"store_backend"`
	StoreDSN            string         `json:"store_dsn"`
	CloudProvider       string         `json:"cloud_provider"`
	S3RootUser          string         `json:"s3_root_user"`
	S3RootPassword      string         `json:"s3_root_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	APIBaseURL          string         `json:"api_base_url"`
	AutoSync            *bool          `json:"auto_sync"`
	SyncDebounce        timex.Duration `json:"sync_debounce"`
	ProviderInitTimeout timex.Duration `json:"provider_init_timeout"`
	BackupInterval      timex.Duration `json:"backup_interval"`
	BackupMinInterval   timex.Duration `json:"backup_min_interval"`
	MaxBackups          int            `json:"max_backups"`
	Debug               *bool          `json:"debug"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. The DAYBOOK_CONFIG environment variable.
//  3. If both are empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the defaults; the booleans use
// pointers so an absent key is distinguishable from an explicit false.
// Panics on read or unmarshal errors. Intended usage is:
// defaults -> parseJson -> parseFlags, where later stages override earlier
// ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.StoreBackend != "" {
		cfg.StoreBackend = jc.StoreBackend
	}
	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.CloudProvider != "" {
		cfg.CloudProvider = jc.CloudProvider
	}
	if jc.S3RootUser != "" {
		cfg.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.AutoSync != nil {
		cfg.AutoSync = *jc.AutoSync
	}
	if jc.SyncDebounce.Duration > 0 {
		cfg.SyncDebounce = time.Duration(jc.SyncDebounce.Duration)
	}
	if jc.ProviderInitTimeout.Duration > 0 {
		cfg.ProviderInitTimeout = time.Duration(jc.ProviderInitTimeout.Duration)
	}
	if jc.BackupInterval.Duration > 0 {
		cfg.BackupInterval = time.Duration(jc.BackupInterval.Duration)
	}
	if jc.BackupMinInterval.Duration > 0 {
		cfg.BackupMinInterval = time.Duration(jc.BackupMinInterval.Duration)
	}
	if jc.MaxBackups > 0 {
		cfg.MaxBackups = jc.MaxBackups
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
