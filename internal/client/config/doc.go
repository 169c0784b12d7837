// Package config loads runtime configuration for the skillip client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config. Files ending in .yaml or
//     .yml are read as YAML, anything else as JSON.
//  3. Environment variables (SKILLIP_*). A .env file in the working
//     directory is loaded into the environment by the command tree first.
//  4. Command-line flags registered with RegisterFlags, when set.
//
// Later sources override earlier ones.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30s" or
// integer nanoseconds:
//
//	api_url: http://127.0.0.1:8080
//	listen_addr: 127.0.0.1:8090
//	upload_timeout: 30s
//	blob_store: s3
//	s3_bucket: avatars
//	cors_origins: [http://localhost:5173]
package config
