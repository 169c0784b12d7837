package netx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsUnreachable_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewHTTPClient().Get("http://" + addr + "/")
	require.Error(t, err)
	require.True(t, IsUnreachable(err))
	require.False(t, IsTimeout(err))
}

func TestIsTimeout_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = NewHTTPClient().Do(req)
	require.Error(t, err)
	require.True(t, IsTimeout(err))
	require.False(t, IsUnreachable(err))
}

func TestClassify_Nil_AndPlainErrors(t *testing.T) {
	require.False(t, IsTimeout(nil))
	require.False(t, IsUnreachable(nil))
	require.False(t, IsUnreachable(errors.New("boom")))
	require.True(t, IsUnreachable(&net.DNSError{Err: "no such host", Name: "nowhere.invalid"}))
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"text/html", false},
		{"", false},
		{"garbage;;", false},
	}
	for _, tt := range tests {
		h := http.Header{}
		h.Set("Content-Type", tt.ct)
		require.Equal(t, tt.want, IsJSON(h), tt.ct)
	}
}
