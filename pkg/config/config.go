// Package config reads the YAML configuration of s3browse.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	// ProviderAWS selects the aws-sdk-go-v2 backend.
	ProviderAWS = "aws"
	// ProviderMinio selects the minio-go backend.
	ProviderMinio = "minio"

	// DefaultPreviewMaxSize is the largest object read in memory for a preview (5 MiB).
	DefaultPreviewMaxSize int64 = 5 * 1024 * 1024
	// DefaultPresignTTL is the default lifetime of presigned URLs.
	DefaultPresignTTL = time.Hour
	// DefaultListen is the default address of the HTTP API.
	DefaultListen = ":8081"
	// DefaultStatsSchedule refreshes bucket statistics every hour.
	DefaultStatsSchedule = "@hourly"
)

var (
	// ErrUnknownProvider is returned for an unsupported s3.provider value.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrInvalidWorkers is returned when transfer.workers is negative.
	ErrInvalidWorkers = errors.New("transfer.workers must be >= 0")
	// ErrMissingEndpoint is returned when the minio provider has no endpoint.
	ErrMissingEndpoint = errors.New("minio provider requires an endpoint")
)

// Config is the struct for the configuration
type Config struct {
	S3       S3Config       `yaml:"s3"`
	Transfer TransferConfig `yaml:"transfer"`
	Server   ServerConfig   `yaml:"server"`
	Stats    StatsConfig    `yaml:"stats"`
	LogLevel string         `yaml:"loglevel"`
}

// S3Config holds the connection settings of the object store.
type S3Config struct {
	Provider      string `yaml:"provider"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"accesskey"`
	SecretKey     string `yaml:"secretkey"`
	Region        string `yaml:"region"`
	SsoAwsProfile string `yaml:"ssoawsprofile"`
	R2AccountID   string `yaml:"r2accountid"`
	UsePathStyle  bool   `yaml:"usepathstyle"`
	S3cfgFile     string `yaml:"s3cfgfile"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	// BucketLocked forbids switching to another bucket than Bucket.
	BucketLocked bool `yaml:"bucketlocked"`
}

// TransferConfig tunes uploads, downloads and previews.
type TransferConfig struct {
	// Workers is the number of concurrent uploads. 0 or 1 uploads sequentially.
	Workers        int           `yaml:"workers"`
	PreviewMaxSize int64         `yaml:"previewmaxsize"`
	PresignTTL     time.Duration `yaml:"presignttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// StatsConfig configures the background refresh of bucket statistics.
type StatsConfig struct {
	EnableBackgroundRefresh bool   `yaml:"enablebackgroundrefresh"`
	CronSchedule            string `yaml:"cronschedule"`
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct.
// Defaults are applied to the fields left empty.
func ReadYamlCnxFile(filename string) (Config, error) {
	var config Config

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("error reading YAML file: %w", err)
	}

	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing YAML file: %w", err)
	}

	if config.S3.S3cfgFile != "" {
		if err := config.S3.ApplyS3cfg(config.S3.S3cfgFile); err != nil {
			return config, err
		}
	}
	config.ApplyDefaults()
	return config, nil
}

// ApplyDefaults fills the empty fields with their default value.
func (c *Config) ApplyDefaults() {
	if c.S3.Provider == "" {
		c.S3.Provider = ProviderAWS
	}
	if c.S3.R2AccountID != "" {
		if c.S3.Endpoint == "" {
			c.S3.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.S3.R2AccountID)
		}
		if c.S3.Region == "" {
			c.S3.Region = "auto"
		}
	}
	if c.Transfer.PreviewMaxSize <= 0 {
		c.Transfer.PreviewMaxSize = DefaultPreviewMaxSize
	}
	if c.Transfer.PresignTTL <= 0 {
		c.Transfer.PresignTTL = DefaultPresignTTL
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Stats.CronSchedule == "" {
		c.Stats.CronSchedule = DefaultStatsSchedule
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the consistency of the configuration.
func (c Config) Validate() error {
	switch c.S3.Provider {
	case ProviderAWS:
	case ProviderMinio:
		if c.S3.Endpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.S3.Provider)
	}
	if c.Transfer.Workers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}
