package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// ApplyS3cfg loads credentials and endpoint from an s3cmd compatible
// .s3cfg file. Values already present in the YAML configuration win.
func (c *S3Config) ApplyS3cfg(path string) error {
	cfg, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load .s3cfg: %w", err)
	}
	section := cfg.Section("default")

	if c.AccessKey == "" {
		c.AccessKey = section.Key("access_key").String()
	}
	if c.SecretKey == "" {
		c.SecretKey = section.Key("secret_key").String()
	}
	if c.Region == "" {
		c.Region = section.Key("bucket_location").MustString("us-east-1")
	}
	if c.Endpoint == "" {
		if host := section.Key("host_base").String(); host != "" && host != "s3.amazonaws.com" {
			protocol := "https"
			if !section.Key("use_https").MustBool(true) {
				protocol = "http"
			}
			c.Endpoint = fmt.Sprintf("%s://%s", protocol, strings.TrimSuffix(host, "/"))
			c.UsePathStyle = true
		}
	}
	return nil
}
