package service

import (
	"context"
	"robobadge/internal/badge"
	"robobadge/internal/components/assert"
	"robobadge/internal/components/telemetry"
	"robobadge/internal/profile"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("robobadge/service")

const (
	report_badge_fetch = "badge.fetch"
)

// ProfileFetcher obtains the raw html of a user's profile page.
//
// note: fault injection point
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, username string) (string, error)
}

// ProfileExtractor turns a profile page into statistics. It must never fail.
type ProfileExtractor interface {
	Extract(page, username string) profile.Result
}

// BadgeService produces badges by fetching, extracting and rendering a profile.
type BadgeService struct {
	fetcher   ProfileFetcher
	extractor ProfileExtractor
	tel       telemetry.API
	renders   metric.Int64Counter
}

type badgeServiceConfig struct {
	tel   telemetry.API
	meter metric.Meter
}

type BadgeServiceOption func(cfg *badgeServiceConfig)

func WithCustomTelemetryAPI(tel telemetry.API) BadgeServiceOption {
	return func(cfg *badgeServiceConfig) {
		cfg.tel = tel
	}
}

func WithMeter(meter metric.Meter) BadgeServiceOption {
	return func(cfg *badgeServiceConfig) {
		cfg.meter = meter
	}
}

func NewBadgeService(fetcher ProfileFetcher, extractor ProfileExtractor, options ...BadgeServiceOption) (BadgeService, error) {
	assert.NotNil(fetcher, "profile fetcher")
	assert.NotNil(extractor, "profile extractor")

	cfg := badgeServiceConfig{
		tel:   telemetry.SlogAPI{},
		meter: otel.Meter("robobadge/service"),
	}
	for _, opt := range options {
		opt(&cfg)
	}

	renders, err := cfg.meter.Int64Counter(
		"badge.renders",
		metric.WithDescription("Number of badges rendered, by extraction status."),
	)
	if err != nil {
		return BadgeService{}, err
	}

	return BadgeService{
		fetcher:   fetcher,
		extractor: extractor,
		tel:       telemetry.NewScopedAPI("service", cfg.tel),
		renders:   renders,
	}, nil
}

// Badge always returns a renderable svg, failures are folded into the error card.
func (s BadgeService) Badge(ctx context.Context, username string) (string, profile.Result) {
	ctx, span := tracer.Start(ctx, "service:Badge")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	res := s.Stats(ctx, username)

	span.SetAttributes(attribute.String("status", res.Status.String()))
	if res.Status == profile.StatusUnavailable {
		span.SetStatus(codes.Error, "stats unavailable")
	}
	s.renders.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", res.Status.String()),
	))

	return badge.Render(res), res
}

// Stats fetches and extracts a profile, a failed fetch yields an unavailable result.
func (s BadgeService) Stats(ctx context.Context, username string) profile.Result {
	page, err := s.fetcher.FetchProfile(ctx, username)
	if err != nil {
		s.tel.ReportWarning(report_badge_fetch, err, username)
		return profile.Unavailable(username, err)
	}
	return s.extractor.Extract(page, username)
}
