// Package cmd implements the s3browse command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sgaunet/s3browse/pkg/config"
)

var (
	version = "development"

	cfgFile      string
	bucketFlag   string
	providerFlag string
	endpointFlag string
	logLevelFlag string
	workersFlag  int

	cfg config.Config
	logger = slog.New(slog.DiscardHandler)
)

// ErrNoConfig is returned when neither a config file nor a bucket is given.
var ErrNoConfig = errors.New("no configuration: use --config or --bucket")

var rootCmd = &cobra.Command{
	Use:           "s3browse",
	Short:         "Browse and transfer files in S3 compatible buckets",
	Long:          "s3browse presents S3 buckets as folders and files, and uploads, downloads, moves, renames and deletes them.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "f", "", "configuration file")
	flags.StringVarP(&bucketFlag, "bucket", "b", "", "bucket, overrides the configuration")
	flags.StringVar(&providerFlag, "provider", "", "backend: aws or minio")
	flags.StringVar(&endpointFlag, "endpoint", "", "S3 endpoint, overrides the configuration")
	flags.StringVar(&logLevelFlag, "loglevel", "", "debug, info, warn or error")
	flags.IntVarP(&workersFlag, "workers", "w", -1, "concurrent uploads, overrides the configuration")
}

// loadConfig reads the configuration file, applies the flags and sets up logging.
func loadConfig(cmd *cobra.Command) error {
	var err error
	switch {
	case cfgFile != "":
		if cfg, err = config.ReadYamlCnxFile(cfgFile); err != nil {
			return err
		}
	case bucketFlag != "" || cmd.Name() == "buckets":
		cfg = config.Config{}
		cfg.ApplyDefaults()
	default:
		return ErrNoConfig
	}

	if bucketFlag != "" {
		cfg.S3.Bucket = bucketFlag
	}
	if providerFlag != "" {
		cfg.S3.Provider = providerFlag
	}
	if endpointFlag != "" {
		cfg.S3.Endpoint = endpointFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if workersFlag >= 0 {
		cfg.Transfer.Workers = workersFlag
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = initTrace(cfg.LogLevel, cmd.ErrOrStderr())
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}
