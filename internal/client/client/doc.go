// Package client talks to the skillip backend over HTTP/JSON.
//
// # Overview
//
// Client is the transport-agnostic contract the session store depends on:
// Login, Register, UploadProfileImage and Ping. HTTPClient is the concrete
// implementation.
//
// # Error Handling
//
// Transport failures are exposed as sentinel errors that callers match with
// errors.Is: ErrUnavailable when the server cannot be reached, ErrTimeout
// when the request deadline passes, ErrNotJSON when a reply is not JSON.
// Non-2xx replies surface as *APIError carrying the status and the message
// the server sent, or a fallback text.
//
// All operations accept context.Context and honor cancellation and
// deadlines. HTTPClient is safe for concurrent use.
package client
