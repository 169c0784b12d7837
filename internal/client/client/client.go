package client

import (
	"context"

	"github.com/dmitrijs2005/skillip/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, creds models.Credentials) (*models.User, error)
	UploadProfileImage(ctx context.Context, email, token string, upload *models.Upload) (*models.UploadResult, error)
}
