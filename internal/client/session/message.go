package session

import (
	"errors"

	"github.com/dmitrijs2005/skillip/internal/client/client"
	"github.com/dmitrijs2005/skillip/internal/client/validate"
)

// Message turns err into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	for _, sentinel := range []error{
		client.ErrTimeout,
		client.ErrUnavailable,
		client.ErrNotJSON,
		validate.ErrInvalidEmail,
		validate.ErrPasswordMismatch,
		ErrInvalidImage,
		ErrNotAuthenticated,
		ErrAPINotConfigured,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return err.Error()
}
