package main

import (
	"fmt"
	"robobadge/internal/components/telemetry"
	"robobadge/internal/scrapers/robocontest"
	"robobadge/internal/service"
)

func InitBadgeService(cfg Config) (service.BadgeService, error) {
	tel := telemetry.SlogAPI{}

	client, err := robocontest.NewClient(cfg.Origin, tel)
	if err != nil {
		return service.BadgeService{}, fmt.Errorf("robocontest client: %w", err)
	}
	extractor, err := robocontest.NewExtractor(cfg.Layout, tel)
	if err != nil {
		return service.BadgeService{}, fmt.Errorf("robocontest extractor: %w", err)
	}

	return service.NewBadgeService(client, extractor, service.WithCustomTelemetryAPI(tel))
}
