package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/skillip/internal/client/client"
	"github.com/dmitrijs2005/skillip/internal/client/validate"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unavailable", fmt.Errorf("login: %w", client.ErrUnavailable), "Cannot connect to server. Please check your internet connection."},
		{"timeout", fmt.Errorf("%w: %w", client.ErrTimeout, errors.New("context deadline exceeded")), "Request timed out. Please try again."},
		{"not json", client.ErrNotJSON, "Server response was not JSON"},
		{"api message", fmt.Errorf("login: %w", &client.APIError{Status: 401, Message: "Bad password"}), "Bad password"},
		{"api status", &client.APIError{Status: 502}, "Server error: 502"},
		{"email", validate.ErrInvalidEmail, "Enter valid email!"},
		{"passwords", validate.ErrPasswordMismatch, "Passwords do not match!"},
		{"image", ErrInvalidImage, "Invalid image file"},
		{"auth", ErrNotAuthenticated, "User not authenticated"},
		{"api url", ErrAPINotConfigured, "API URL not configured"},
		{"other", errors.New("disk full"), "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Message(tt.err))
		})
	}
}
