package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable = errors.New("Cannot connect to server. Please check your internet connection.")
	ErrTimeout     = errors.New("Request timed out. Please try again.")
	ErrNotJSON     = errors.New("Server response was not JSON")
)

// APIError is a non-2xx reply from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Server error: %d", e.Status)
}
