// Package httpclient builds the outbound REST client used to talk to the
// portal backend (catalog reads, ticket forwarding).
package httpclient

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GiornoGiovanaJoJo/deiw2-sub000/pkg/logging"
)

// Options configures a client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RetryMax > 0 retries at the transport level with backoff. Keep it at
	// zero for lead forwarding: one attempt per user submit.
	RetryMax int
	Logger   *logging.Logger
}

// New creates a resty client over a retryablehttp transport.
func New(opts Options) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 250 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	var client *resty.Client
	if opts.RetryMax > 0 {
		client = resty.NewWithClient(retryClient.StandardClient())
	} else {
		client = resty.New()
		client.SetTransport(retryClient.HTTPClient.Transport)
	}

	client.
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "deiw2-booking/1.0")

	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	if opts.Logger != nil {
		logger := opts.Logger
		client.OnError(func(req *resty.Request, err error) {
			logger.Warn("outbound request failed", "method", req.Method, "url", req.URL, "error", err)
		})
	}
	return client
}
