package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds the config flags to fs. Defaults shown in help come
// from LoadDefaults; only flags the user sets override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("api-url", d.APIURL, "base URL of the backend API")
	fs.StringP("listen", "l", d.ListenAddr, "address the web frontend listens on")
	fs.String("db", d.DBPath, "path of the local SQLite database")
	fs.Duration("upload-timeout", d.UploadTimeout, "profile image upload timeout")
	fs.String("blob-store", d.BlobStore, "where selected images are staged (fs or s3)")
	fs.String("blob-dir", d.BlobDir, "directory for the fs blob store")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.String("log-format", d.LogFormat, "log format (text or json)")
	fs.StringSlice("cors-origin", nil, "allowed CORS origin (repeatable)")
}

func (c *Config) applyFlags(fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return err == nil && f != nil && f.Changed
	}

	if changed("api-url") {
		c.APIURL, err = fs.GetString("api-url")
	}
	if changed("listen") {
		c.ListenAddr, err = fs.GetString("listen")
	}
	if changed("db") {
		c.DBPath, err = fs.GetString("db")
	}
	if changed("upload-timeout") {
		c.UploadTimeout, err = fs.GetDuration("upload-timeout")
	}
	if changed("blob-store") {
		c.BlobStore, err = fs.GetString("blob-store")
	}
	if changed("blob-dir") {
		c.BlobDir, err = fs.GetString("blob-dir")
	}
	if changed("log-level") {
		c.LogLevel, err = fs.GetString("log-level")
	}
	if changed("log-format") {
		c.LogFormat, err = fs.GetString("log-format")
	}
	if changed("cors-origin") {
		c.CORSOrigins, err = fs.GetStringSlice("cors-origin")
	}
	return err
}
