package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/utils/logger"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultUserAgent is sent when Config.UserAgent is empty.
const DefaultUserAgent = "permadmin/1.0"

// Client talks to the hospital REST API.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	tokens     oauth2.TokenSource
	log        *logger.Logger

	Permissions *PermissionsService
	Users       *UsersService
}

// Config represents client configuration
type Config struct {
	BaseURL string
	// Tokens supplies the bearer token. A nil source, or one that fails,
	// sends requests unauthenticated and lets the server reject them.
	Tokens     oauth2.TokenSource
	UserAgent  string
	Timeout    time.Duration
	RetryCount int
	Debug      bool
	Logger     *logger.Logger
}

// NewClient creates a new API client
func NewClient(config *Config) *Client {
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logger.Discard()
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetRetryCount(config.RetryCount).
		AddRetryCondition(retryIdempotent).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	if config.Debug {
		httpClient.SetDebug(true)
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    config.BaseURL,
		tokens:     config.Tokens,
		log:        config.Logger,
	}
	c.Permissions = &PermissionsService{client: c}
	c.Users = &UsersService{client: c}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Request-ID", uuid.NewString())
		c.setAuth(req)
		return nil
	})
	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		return handleError(resp)
	})

	return c
}

// retryIdempotent retries GET and PUT requests that failed in transport or
// with a 5xx. POSTs and DELETEs are never resent.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodPut:
	default:
		return false
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return true
	}
	var apiErr *APIError
	return err != nil && !errors.As(err, &apiErr)
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// setAuth attaches the bearer token when one is available. Absence is not an error.
func (c *Client) setAuth(req *resty.Request) {
	if c.tokens == nil {
		return
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		if err != nil {
			c.log.Debug("no bearer token available, sending unauthenticated: %v", err)
		}
		return
	}
	if !tok.Expiry.IsZero() && !tok.Valid() {
		c.log.Warn("stored bearer token expired at %s; sending it anyway", tok.Expiry.Format(time.RFC3339))
	}
	req.SetAuthToken(tok.AccessToken)
}

// handleError maps non-2xx responses to *APIError.
func handleError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var errorResp dto.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errorResp); err == nil && errorResp.Error != "" {
		return NewAPIError(resp.StatusCode(), errorResp.Error, "", errorResp.Message)
	}

	switch resp.StatusCode() {
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 500:
		return ErrInternalServer
	default:
		return NewAPIError(resp.StatusCode(), "Unknown error", "", string(resp.Body()))
	}
}

func (c *Client) do(ctx context.Context, method, path string, pathParams map[string]string, body, result interface{}) error {
	req := c.httpClient.R().SetContext(ctx)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	_, err := req.Execute(method, path)
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &NetworkError{Operation: method, URL: c.baseURL + path, Err: err}
}
