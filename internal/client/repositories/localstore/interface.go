// Package localstore is the on-device key/value storage of the client.
// It plays the part a browser's local storage plays for a web app:
// a handful of keys, each holding one serialized record.
//
// Get returns (nil, nil) for a missing key so callers can treat absence as
// a normal state rather than an error.
package localstore

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetIfAbsent stores value unless key already exists and returns
	// whichever value is stored afterwards.
	SetIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}
