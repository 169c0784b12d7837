package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "127.0.0.1:8090", c.ListenAddr)
	assert.Equal(t, "skillip.db", c.DBPath)
	assert.Equal(t, "token", c.SessionKey)
	assert.Equal(t, 30*time.Second, c.UploadTimeout)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
	assert.Equal(t, 100, c.CropQuality)
	assert.Equal(t, 1024, c.CropMaxSide)
	assert.Equal(t, 40_000_000, c.CropMaxPixels)
	assert.Equal(t, BlobStoreFS, c.BlobStore)
	assert.Equal(t, 15*time.Minute, c.S3URLTTL)
	assert.NoError(t, c.Validate())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{
		"api_url": "http://api:8080",
		"upload_timeout": "45s",
		"crop_quality": 90,
		"crop_max_pixels": 4000000,
		"cors_origins": ["http://a", "http://b"]
	}`)

	c := defaults()
	require.NoError(t, c.loadFile(path))

	want := defaults()
	want.APIURL = "http://api:8080"
	want.UploadTimeout = 45 * time.Second
	want.CropQuality = 90
	want.CropMaxPixels = 4_000_000
	want.CORSOrigins = []string{"http://a", "http://b"}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
blob_store: s3
s3_bucket: avatars
s3_base_endpoint: http://127.0.0.1:9000
s3_url_ttl: 5m
max_upload_bytes: 2048
`)

	c := defaults()
	require.NoError(t, c.loadFile(path))

	want := defaults()
	want.BlobStore = BlobStoreS3
	want.S3Bucket = "avatars"
	want.S3BaseEndpoint = "http://127.0.0.1:9000"
	want.S3URLTTL = 5 * time.Minute
	want.MaxUploadBytes = 2048
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadFile_Errors(t *testing.T) {
	c := defaults()
	require.ErrorContains(t, c.loadFile(filepath.Join(t.TempDir(), "missing.json")), "read config")
	require.ErrorContains(t, c.loadFile(writeFile(t, "bad.json", `{`)), "parse config")
	require.ErrorContains(t, c.loadFile(writeFile(t, "bad.yml", "upload_timeout: [1")), "parse config")
	require.Error(t, c.loadFile(writeFile(t, "dur.json", `{"upload_timeout": "soon"}`)))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"API_URL":                  "http://fallback",
		"SKILLIP_API_URL":          "http://primary",
		"SKILLIP_UPLOAD_TIMEOUT":   "10s",
		"SKILLIP_CROP_MAX_SIDE":    "512",
		"SKILLIP_CROP_MAX_PIXELS":  "1000000",
		"SKILLIP_MAX_UPLOAD_BYTES": "1000",
		"SKILLIP_CORS_ORIGINS":     " http://a , ,http://b",
		"SKILLIP_STORAGE_SECRET":   "pepper",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	c := defaults()
	require.NoError(t, c.applyEnv(lookup))

	want := defaults()
	want.APIURL = "http://primary"
	want.UploadTimeout = 10 * time.Second
	want.CropMaxSide = 512
	want.CropMaxPixels = 1_000_000
	want.MaxUploadBytes = 1000
	want.CORSOrigins = []string{"http://a", "http://b"}
	want.StorageSecret = "pepper"
	assert.Empty(t, cmp.Diff(want, c))
}

func TestApplyEnv_APIURLFallbacks(t *testing.T) {
	c := defaults()
	require.NoError(t, c.applyEnv(func(k string) (string, bool) {
		if k == "VITE_API_URL" {
			return "http://vite", true
		}
		return "", false
	}))
	assert.Equal(t, "http://vite", c.APIURL)
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, kv := range [][2]string{
		{"SKILLIP_UPLOAD_TIMEOUT", "forever"},
		{"SKILLIP_CROP_QUALITY", "high"},
		{"SKILLIP_MAX_UPLOAD_BYTES", "lots"},
	} {
		c := defaults()
		err := c.applyEnv(func(k string) (string, bool) {
			if k == kv[0] {
				return kv[1], true
			}
			return "", false
		})
		require.ErrorContains(t, err, kv[0])
	}
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag", "-l", ":9999", "--upload-timeout", "1m", "--cors-origin", "http://x"}))

	c := defaults()
	c.DBPath = "from-file.db"
	require.NoError(t, c.applyFlags(fs))

	want := defaults()
	want.DBPath = "from-file.db"
	want.APIURL = "http://flag"
	want.ListenAddr = ":9999"
	want.UploadTimeout = time.Minute
	want.CORSOrigins = []string{"http://x"}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"api_url": "http://file", "listen_addr": ":1", "db_path": "file.db"}`)
	t.Setenv("SKILLIP_API_URL", "http://env")
	t.Setenv("SKILLIP_LISTEN_ADDR", ":2")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--listen", ":3"}))

	c, err := Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "http://env", c.APIURL)
	assert.Equal(t, ":3", c.ListenAddr)
	assert.Equal(t, "file.db", c.DBPath)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeFile(t, "cfg.yaml", "blob_store: s3\n")
	_, err := Load(path, nil)
	require.ErrorContains(t, err, "s3_bucket is required")
}

func TestValidate(t *testing.T) {
	c := defaults()
	c.BlobStore = "ftp"
	c.CropQuality = 0
	c.CropMaxPixels = 0
	c.MaxUploadBytes = 0
	c.UploadTimeout = 0
	c.SessionKey = ""
	err := c.Validate()
	require.Error(t, err)
	for _, msg := range []string{"unknown blob_store", "crop_quality", "crop_max_pixels", "max_upload_bytes", "upload_timeout", "session_key"} {
		assert.Contains(t, err.Error(), msg)
	}

	c = defaults()
	c.BlobDir = ""
	require.ErrorContains(t, c.Validate(), "blob_dir")
}
