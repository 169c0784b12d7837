package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/skillip/internal/client/models"
	"github.com/dmitrijs2005/skillip/internal/netx"
)

const (
	loginPath    = "/user_auth/login"
	registerPath = "/users/"

	maxResponseBytes = 1 << 20
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the API rooted at baseURL. A nil hc
// gets the netx default client.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = netx.NewHTTPClient()
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

type messageBody struct {
	Message string `json:"message"`
}

// Ping succeeds when the server answers at all, whatever the status.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return resp.Body.Close()
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return c.postUser(ctx, loginPath, creds, "Login failed")
}

func (c *HTTPClient) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return c.postUser(ctx, registerPath, creds, "Failed to create user!")
}

func (c *HTTPClient) postUser(ctx context.Context, path string, creds models.Credentials, fallback string) (*models.User, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, mapError(err)
	}

	if !ok(resp.StatusCode) {
		var m messageBody
		_ = json.Unmarshal(data, &m)
		if m.Message == "" {
			m.Message = fallback
		}
		return nil, &APIError{Status: resp.StatusCode, Message: m.Message}
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return &user, nil
}

func (c *HTTPClient) UploadProfileImage(ctx context.Context, email, token string, upload *models.Upload) (*models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Name))
	ct := upload.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(email) + "/profile-image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	if !netx.IsJSON(resp.Header) {
		return nil, ErrNotJSON
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, mapError(err)
	}

	var result models.UploadResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
	}

	if !ok(resp.StatusCode) {
		return nil, &APIError{Status: resp.StatusCode, Message: result.Message}
	}

	return &result, nil
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case netx.IsTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case netx.IsUnreachable(err):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}
