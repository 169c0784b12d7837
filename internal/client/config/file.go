package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/skillip/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape. Pointer fields tell absent keys apart
// from zero values, so a file only overrides what it mentions.
type fileConfig struct {
	APIURL         *string         `json:"api_url" yaml:"api_url"`
	ListenAddr     *string         `json:"listen_addr" yaml:"listen_addr"`
	DBPath         *string         `json:"db_path" yaml:"db_path"`
	SessionKey     *string         `json:"session_key" yaml:"session_key"`
	UploadTimeout  *timex.Duration `json:"upload_timeout" yaml:"upload_timeout"`
	MaxUploadBytes *int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	CropQuality    *int            `json:"crop_quality" yaml:"crop_quality"`
	CropMaxSide    *int            `json:"crop_max_side" yaml:"crop_max_side"`
	CropMaxPixels  *int            `json:"crop_max_pixels" yaml:"crop_max_pixels"`
	BlobStore      *string         `json:"blob_store" yaml:"blob_store"`
	BlobDir        *string         `json:"blob_dir" yaml:"blob_dir"`
	S3Bucket       *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3URLTTL       *timex.Duration `json:"s3_url_ttl" yaml:"s3_url_ttl"`
	StorageSecret  *string         `json:"storage_secret" yaml:"storage_secret"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	LogFormat      *string         `json:"log_format" yaml:"log_format"`
	CORSOrigins    []string        `json:"cors_origins" yaml:"cors_origins"`
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(c)
	return nil
}

func (fc fileConfig) apply(c *Config) {
	setString(&c.APIURL, fc.APIURL)
	setString(&c.ListenAddr, fc.ListenAddr)
	setString(&c.DBPath, fc.DBPath)
	setString(&c.SessionKey, fc.SessionKey)
	if fc.UploadTimeout != nil {
		c.UploadTimeout = fc.UploadTimeout.Duration
	}
	if fc.MaxUploadBytes != nil {
		c.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.CropQuality != nil {
		c.CropQuality = *fc.CropQuality
	}
	if fc.CropMaxSide != nil {
		c.CropMaxSide = *fc.CropMaxSide
	}
	if fc.CropMaxPixels != nil {
		c.CropMaxPixels = *fc.CropMaxPixels
	}
	setString(&c.BlobStore, fc.BlobStore)
	setString(&c.BlobDir, fc.BlobDir)
	setString(&c.S3Bucket, fc.S3Bucket)
	setString(&c.S3Region, fc.S3Region)
	setString(&c.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&c.S3AccessKey, fc.S3AccessKey)
	setString(&c.S3SecretKey, fc.S3SecretKey)
	if fc.S3URLTTL != nil {
		c.S3URLTTL = fc.S3URLTTL.Duration
	}
	setString(&c.StorageSecret, fc.StorageSecret)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)
	if fc.CORSOrigins != nil {
		c.CORSOrigins = fc.CORSOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
