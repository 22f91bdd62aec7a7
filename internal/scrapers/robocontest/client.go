package robocontest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"robobadge/internal/components/assert"
	"robobadge/internal/components/restyutil"
	"robobadge/internal/components/telemetry"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_profile = "client.fetch-profile"
)

var tracer = otel.Tracer("robobadge/robocontest")

var ErrUnexpectedStatus = errors.New("unexpected response status")

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// UserAgent is sent on every request, it also wins over the random browser
	// user agent the cloudflare bypass adds to requests without one.
	UserAgent string `json:"user_agent"`
	// RequestsPerSecond limits outbound requests to the origin, 0 disables the limit.
	// Requests over the limit wait for their turn (bounded by the request context).
	RequestsPerSecond       float64 `json:"requests_per_second"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
	// TrafficOutput receives a plain text copy of every exchange with the origin, nil discards them.
	TrafficOutput restyutil.InstrumentOutput `json:"-"`
}

// DefaultClientOptions targets robocontest.uz with a 10 second timeout.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		BaseUrl:        "https://robocontest.uz",
		TimeoutSeconds: 10,
		UserAgent:      defaultUserAgent,
	}
}

// Client fetches profile pages, one GET per call, without retries or caching.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (Client, error) {
	assert.NotNil(tel, "telemetry")
	tel = telemetry.NewScopedAPI("robocontest", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return Client{}, fmt.Errorf("base url %q must be absolute", opts.BaseUrl)
	}

	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl.String())
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	if !opts.DisableCloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	if opts.RequestsPerSecond > 0 {
		burst := int(math.Ceil(opts.RequestsPerSecond))
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	restyutil.InstrumentClient(httpClient, tracer, opts.TrafficOutput)
	telemetry.InstrumentResty(httpClient, tel)

	return Client{
		http: httpClient,
		tel:  tel,
	}, nil
}

// FetchProfile returns the raw html of a user's profile page. Transport errors,
// timeouts and non-2xx statuses are all returned as errors.
func (c Client) FetchProfile(ctx context.Context, username string) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("username", username).
		Get("/profile/{username}")
	if err != nil {
		c.tel.ReportWarning(
			report_client_fetch_profile,
			fmt.Errorf("fetch: %w", err),
			username,
		)
		return "", fmt.Errorf("fetch profile %q: %w", username, err)
	}

	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		err := fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status())
		c.tel.ReportWarning(report_client_fetch_profile, err, username)
		return "", fmt.Errorf("fetch profile %q: %w", username, err)
	}

	return res.String(), nil
}
