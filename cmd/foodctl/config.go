package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JonMunkholm/foodsearch/internal/config"
)

// Config keys. Each is settable by flag, by FOODCTL_<KEY> with dots as
// underscores, or in the YAML config file.
const (
	keySource           = "data.source"
	keyDataDir          = "data.dir"
	keyMenuAssociations = "data.menu_associations"
	keyStrictHeaders    = "data.strict_headers"
	keyS3Bucket         = "s3.bucket"
	keyS3Prefix         = "s3.prefix"
	keyS3Region         = "s3.region"
	keyS3Endpoint       = "s3.endpoint"
	keyS3PathStyle      = "s3.path_style"
	keyDatabaseURL      = "database.url"
	keySQLitePath       = "sqlite.path"
	keyLogLevel         = "log.level"
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"source":            keySource,
	"data-dir":          keyDataDir,
	"menu-associations": keyMenuAssociations,
	"strict-headers":    keyStrictHeaders,
	"s3-bucket":         keyS3Bucket,
	"s3-prefix":         keyS3Prefix,
	"s3-region":         keyS3Region,
	"s3-endpoint":       keyS3Endpoint,
	"s3-path-style":     keyS3PathStyle,
	"database-url":      keyDatabaseURL,
	"sqlite":            keySQLitePath,
	"log-level":         keyLogLevel,
}

func registerFlags(fs *pflag.FlagSet) {
	def := config.Defaults()
	fs.String("config", "", "YAML config file (default: ./foodctl.yaml if present)")
	fs.Bool("json", false, "output as JSON")
	fs.String("source", def.Data.Source, "data source: dir, s3, postgres, sqlite")
	fs.String("data-dir", def.Data.Dir, "directory holding the TSV tables")
	fs.Bool("menu-associations", def.Data.MenuAssociations, "load food_menu; false builds the reduced catalog")
	fs.Bool("strict-headers", def.Data.StrictHeaders, "require canonical header names")
	fs.String("s3-bucket", def.S3.Bucket, "S3 bucket")
	fs.String("s3-prefix", def.S3.Prefix, "S3 key prefix")
	fs.String("s3-region", def.S3.Region, "S3 region")
	fs.String("s3-endpoint", def.S3.Endpoint, "S3 endpoint override")
	fs.Bool("s3-path-style", def.S3.PathStyle, "use path-style S3 addressing")
	fs.String("database-url", "", "PostgreSQL connection string")
	fs.String("sqlite", def.SQLite.Path, "SQLite database file")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
}

// loadConfig layers flags over FOODCTL_* environment variables over the
// config file over built-in defaults.
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOODCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The server's DATABASE_URL is honored when FOODCTL_DATABASE_URL is unset.
	if err := v.BindEnv(keyDatabaseURL, "FOODCTL_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	configFile, _ := fs.GetString("config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("foodctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := config.Defaults()
	cfg.Data.Source = v.GetString(keySource)
	cfg.Data.Dir = v.GetString(keyDataDir)
	cfg.Data.MenuAssociations = v.GetBool(keyMenuAssociations)
	cfg.Data.StrictHeaders = v.GetBool(keyStrictHeaders)
	cfg.S3.Bucket = v.GetString(keyS3Bucket)
	cfg.S3.Prefix = v.GetString(keyS3Prefix)
	cfg.S3.Region = v.GetString(keyS3Region)
	cfg.S3.Endpoint = v.GetString(keyS3Endpoint)
	cfg.S3.PathStyle = v.GetBool(keyS3PathStyle)
	cfg.Database.URL = v.GetString(keyDatabaseURL)
	cfg.SQLite.Path = v.GetString(keySQLitePath)
	cfg.Logging.Level = v.GetString(keyLogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return cfg, nil
}
