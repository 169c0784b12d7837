package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// apiURLVars are checked in order; the first one set wins.
var apiURLVars = []string{"SKILLIP_API_URL", "API_URL", "VITE_API_URL"}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, name := range apiURLVars {
		if v, ok := lookup(name); ok && v != "" {
			c.APIURL = v
			break
		}
	}

	strs := map[string]*string{
		"SKILLIP_LISTEN_ADDR":      &c.ListenAddr,
		"SKILLIP_DB_PATH":          &c.DBPath,
		"SKILLIP_SESSION_KEY":      &c.SessionKey,
		"SKILLIP_BLOB_STORE":       &c.BlobStore,
		"SKILLIP_BLOB_DIR":         &c.BlobDir,
		"SKILLIP_S3_BUCKET":        &c.S3Bucket,
		"SKILLIP_S3_REGION":        &c.S3Region,
		"SKILLIP_S3_BASE_ENDPOINT": &c.S3BaseEndpoint,
		"SKILLIP_S3_ACCESS_KEY":    &c.S3AccessKey,
		"SKILLIP_S3_SECRET_KEY":    &c.S3SecretKey,
		"SKILLIP_STORAGE_SECRET":   &c.StorageSecret,
		"SKILLIP_LOG_LEVEL":        &c.LogLevel,
		"SKILLIP_LOG_FORMAT":       &c.LogFormat,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"SKILLIP_UPLOAD_TIMEOUT": &c.UploadTimeout,
		"SKILLIP_S3_URL_TTL":     &c.S3URLTTL,
	}
	for name, dst := range durations {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"SKILLIP_CROP_QUALITY":    &c.CropQuality,
		"SKILLIP_CROP_MAX_SIDE":   &c.CropMaxSide,
		"SKILLIP_CROP_MAX_PIXELS": &c.CropMaxPixels,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("SKILLIP_MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SKILLIP_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}

	if v, ok := lookup("SKILLIP_CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
