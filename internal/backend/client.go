package backend

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	apiURL         = "http://localhost:8000"
	userAgent      = "hire-nerd-console"
	defaultTimeout = 2 * time.Minute

	requestIDHeader = "X-Request-ID"
)

// Options configures the backend client. Zero values fall back to defaults.
type Options struct {
	APIURL    string
	Timeout   time.Duration
	UserAgent string
	// Token is sent as a bearer token when set.
	Token string
}

// Client talks to the HireNerd backend. Every call blocks until the backend
// answers, the transport fails or ctx is done.
type Client struct {
	logger    *zap.Logger
	rest      *resty.Client
	APIURL    string
	UserAgent string
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	url := strings.TrimRight(strings.TrimSpace(opts.APIURL), "/")
	if url == "" {
		url = apiURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = userAgent
	}

	rest := resty.New().
		SetBaseURL(url).
		SetTimeout(timeout).
		SetHeader("User-Agent", ua).
		SetHeader("Accept", contentType)

	if token := strings.TrimSpace(opts.Token); token != "" {
		rest.SetAuthToken(token)
	}

	return &Client{
		logger:    logger,
		rest:      rest,
		APIURL:    url,
		UserAgent: ua,
	}
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.rest.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
}
