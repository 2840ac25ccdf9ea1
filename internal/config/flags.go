package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory
//	-sb string  store backend ("sqlite" or "postgres")
//	-dsn string store data source name
//	-cp string  cloud provider ("s3" or "api")
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-api string API base URL
//	-as bool    auto-sync on data changes
//	-sd int     sync debounce, seconds
//	-bi int     backup interval, seconds
//	-m int      max backups kept by retention
//	-debug bool verbose logging
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-d", "-sb", "-dsn", "-cp", "-u", "-p", "-b", "-g", "-e",
		"-api", "-as", "-sd", "-bi", "-m", "-debug",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.StoreBackend, "sb", cfg.StoreBackend, "store backend (sqlite or postgres)")
	fs.StringVar(&cfg.StoreDSN, "dsn", cfg.StoreDSN, "store data source name")
	fs.StringVar(&cfg.CloudProvider, "cp", cfg.CloudProvider, "cloud provider (s3 or api)")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "API base URL")
	fs.BoolVar(&cfg.AutoSync, "as", cfg.AutoSync, "auto-sync on data changes")
	syncDebounce := fs.Int("sd", int(cfg.SyncDebounce.Seconds()), "sync debounce (in seconds)")
	backupInterval := fs.Int("bi", int(cfg.BackupInterval.Seconds()), "backup interval (in seconds)")
	fs.IntVar(&cfg.MaxBackups, "m", cfg.MaxBackups, "max backups kept by retention")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncDebounce = time.Duration(*syncDebounce) * time.Second
	cfg.BackupInterval = time.Duration(*backupInterval) * time.Second
}
