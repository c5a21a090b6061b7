// Package config loads tool configuration from YAML files with
// environment-variable overrides.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/discogo"
	"github.com/hupe1980/discogo/blobstore"
	"github.com/hupe1980/discogo/blobstore/minio"
	"github.com/hupe1980/discogo/blobstore/s3"
	"github.com/hupe1980/discogo/index"
	"gopkg.in/yaml.v3"
)

// Config is the top-level tool configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Query   QueryConfig   `yaml:"query"`
	Create  CreateConfig  `yaml:"create"`
	Limits  LimitsConfig  `yaml:"limits"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects where indexes and views are read from and written to.
type StoreConfig struct {
	// Type is one of "local", "s3", "minio".
	Type  string      `yaml:"type"`
	Local LocalConfig `yaml:"local"`
	S3    S3Config    `yaml:"s3"`
	MinIO MinIOConfig `yaml:"minio"`
}

// LocalConfig holds the root directory for the local store.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// S3Config holds Amazon S3 settings. Credentials come from the default AWS
// credential chain.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// MinIOConfig holds MinIO connection parameters.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// QueryConfig controls discogo-query.
type QueryConfig struct {
	// View is the view file applied to cnf queries.
	View string `yaml:"view"`
}

// CreateConfig controls discogo-create.
type CreateConfig struct {
	KeysOnly    bool   `yaml:"keysOnly"`
	Compression string `yaml:"compression"`
	UniqueItems bool   `yaml:"uniqueItems"`
	Hash        bool   `yaml:"hash"`
}

// LimitsConfig bounds the resources an opened index may use. Zero means
// unlimited.
type LimitsConfig struct {
	MemoryBytes          int64 `yaml:"memoryBytes"`
	MaxConcurrentQueries int   `yaml:"maxConcurrentQueries"`
	ReadBytesPerSec      int64 `yaml:"readBytesPerSec"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls Prometheus metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics in text exposition format
	// after the command completes.
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type: "local",
			MinIO: MinIOConfig{
				Endpoint: "localhost:9000",
			},
		},
		Create: CreateConfig{
			Compression: index.CompressionZSTD.String(),
			UniqueItems: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// applyEnvOverrides honors VIEW, DONT_COMPRESS, UNIQUE_ITEMS and KEYS_ONLY
// (set means on) and the DISCOGO_* variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VIEW"); v != "" {
		cfg.Query.View = v
	}
	if _, ok := os.LookupEnv("DONT_COMPRESS"); ok {
		cfg.Create.Compression = index.CompressionNone.String()
	}
	if _, ok := os.LookupEnv("UNIQUE_ITEMS"); ok {
		cfg.Create.UniqueItems = true
	}
	if _, ok := os.LookupEnv("KEYS_ONLY"); ok {
		cfg.Create.KeysOnly = true
	}

	if v := os.Getenv("DISCOGO_COMPRESSION"); v != "" {
		cfg.Create.Compression = v
	}
	if v := os.Getenv("DISCOGO_HASH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Create.Hash = b
		}
	}
	if v := os.Getenv("DISCOGO_STORE"); v != "" {
		cfg.Store.Type = v
	}
	if v := os.Getenv("DISCOGO_LOCAL_ROOT"); v != "" {
		cfg.Store.Local.Root = v
	}
	if v := os.Getenv("DISCOGO_S3_BUCKET"); v != "" {
		cfg.Store.S3.Bucket = v
	}
	if v := os.Getenv("DISCOGO_S3_PREFIX"); v != "" {
		cfg.Store.S3.Prefix = v
	}
	if v := os.Getenv("DISCOGO_S3_REGION"); v != "" {
		cfg.Store.S3.Region = v
	}
	if v := os.Getenv("DISCOGO_S3_ENDPOINT"); v != "" {
		cfg.Store.S3.Endpoint = v
	}
	if v := os.Getenv("DISCOGO_MINIO_ENDPOINT"); v != "" {
		cfg.Store.MinIO.Endpoint = v
	}
	if v := os.Getenv("DISCOGO_MINIO_BUCKET"); v != "" {
		cfg.Store.MinIO.Bucket = v
	}
	if v := os.Getenv("DISCOGO_MINIO_ACCESS_KEY"); v != "" {
		cfg.Store.MinIO.AccessKey = v
	}
	if v := os.Getenv("DISCOGO_MINIO_SECRET_KEY"); v != "" {
		cfg.Store.MinIO.SecretKey = v
	}
	if v := os.Getenv("DISCOGO_MINIO_SECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Store.MinIO.Secure = b
		}
	}
	if v := os.Getenv("DISCOGO_MEMORY_LIMIT"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.MemoryBytes = n
		}
	}
	if v := os.Getenv("DISCOGO_MAX_CONCURRENT_QUERIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxConcurrentQueries = n
		}
	}
	if v := os.Getenv("DISCOGO_READ_BYTES_PER_SEC"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Limits.ReadBytesPerSec = n
		}
	}
	if v := os.Getenv("DISCOGO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DISCOGO_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("DISCOGO_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// Validate checks enumerated settings and required store parameters.
func (c *Config) Validate() error {
	if _, err := index.ParseCompression(c.Create.Compression); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Store.Type) {
	case "", "local":
	case "s3":
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("config: s3 store requires a bucket")
		}
	case "minio":
		if c.Store.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio store requires a bucket")
		}
	default:
		return fmt.Errorf("config: unknown store type %q", c.Store.Type)
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.MaxConcurrentQueries < 0 || c.Limits.ReadBytesPerSec < 0 {
		return fmt.Errorf("config: limits must not be negative")
	}
	return nil
}

// FinalizeOptions returns the index finalize options for the create settings.
func (c CreateConfig) FinalizeOptions() func(*index.FinalizeOptions) {
	return func(o *index.FinalizeOptions) {
		if comp, err := index.ParseCompression(c.Compression); err == nil {
			o.Compression = comp
		}
		o.UniqueItems = c.UniqueItems
		o.Hash = c.Hash
	}
}

// IsLocal reports whether paths refer to the local filesystem.
func (s StoreConfig) IsLocal() bool {
	t := strings.ToLower(s.Type)
	return t == "" || t == "local"
}

// NewBlobStore constructs the configured store.
func (s StoreConfig) NewBlobStore(ctx context.Context) (blobstore.BlobStore, error) {
	switch strings.ToLower(s.Type) {
	case "", "local":
		return blobstore.NewLocalStore(s.Local.Root), nil
	case "s3":
		return s3.New(ctx, s.S3.Bucket, func(o *s3.Options) {
			o.Prefix = s.S3.Prefix
			o.Region = s.S3.Region
			o.Endpoint = s.S3.Endpoint
			o.UsePathStyle = s.S3.UsePathStyle
		})
	case "minio":
		return minio.New(s.MinIO.Endpoint, s.MinIO.Bucket, func(o *minio.Options) {
			o.AccessKey = s.MinIO.AccessKey
			o.SecretKey = s.MinIO.SecretKey
			o.Region = s.MinIO.Region
			o.Secure = s.MinIO.Secure
			o.Prefix = s.MinIO.Prefix
		})
	default:
		return nil, fmt.Errorf("config: unknown store type %q", s.Type)
	}
}

// NewLogger builds the configured logger.
func (l LoggingConfig) NewLogger() *discogo.Logger {
	level := parseLevel(l.Level)
	switch strings.ToLower(l.Format) {
	case "json":
		return discogo.NewJSONLogger(level)
	default:
		return discogo.NewTextLogger(level)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
