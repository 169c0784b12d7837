package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

const (
	BlobStoreFS = "fs"
	BlobStoreS3 = "s3"
)

// Config holds runtime settings for both front-ends.
type Config struct {
	// APIURL is the base URL of the backend API. Uploads need it.
	APIURL     string
	ListenAddr string
	DBPath     string
	// SessionKey is the local storage key holding the user record.
	SessionKey string

	UploadTimeout  time.Duration
	MaxUploadBytes int64
	CropQuality    int
	CropMaxSide    int
	// CropMaxPixels rejects selected images whose width*height exceeds it.
	CropMaxPixels int

	BlobStore      string
	BlobDir        string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3URLTTL       time.Duration

	// StorageSecret, when set, seals the stored session at rest.
	StorageSecret string

	LogLevel  string
	LogFormat string

	CORSOrigins []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = ""
	c.ListenAddr = "127.0.0.1:8090"
	c.DBPath = "skillip.db"
	c.SessionKey = "token"
	c.UploadTimeout = 30 * time.Second
	c.MaxUploadBytes = 10 << 20
	c.CropQuality = 100
	c.CropMaxSide = 1024
	c.CropMaxPixels = 40_000_000
	c.BlobStore = BlobStoreFS
	c.BlobDir = "blobs"
	c.S3Region = "us-east-1"
	c.S3URLTTL = 15 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.CORSOrigins = nil
}

// Load builds a Config from defaults, the optional file at path, the
// environment and the changed flags in fs. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if fs != nil {
		if err := cfg.applyFlags(fs); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.BlobStore {
	case BlobStoreFS:
		if c.BlobDir == "" {
			errs = append(errs, errors.New("blob_dir is required for the fs blob store"))
		}
	case BlobStoreS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3_bucket is required for the s3 blob store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob_store %q", c.BlobStore))
	}
	if c.CropQuality < 1 || c.CropQuality > 100 {
		errs = append(errs, fmt.Errorf("crop_quality must be within 1..100, got %d", c.CropQuality))
	}
	if c.CropMaxPixels <= 0 {
		errs = append(errs, errors.New("crop_max_pixels must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if c.UploadTimeout <= 0 {
		errs = append(errs, errors.New("upload_timeout must be positive"))
	}
	if c.SessionKey == "" {
		errs = append(errs, errors.New("session_key must not be empty"))
	}
	return errors.Join(errs...)
}
