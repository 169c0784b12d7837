// Package blob stages uploaded bytes under a short-lived URL so a page can
// display them before they are committed anywhere. Every object put here
// must eventually be revoked.
package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Object is a staged blob and the URL it can be fetched from.
type Object struct {
	ID          string
	Name        string
	ContentType string
	URL         string
	Size        int
}

type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (Object, error)
	Get(ctx context.Context, id string) ([]byte, string, error)
	Revoke(ctx context.Context, id string) error
}
