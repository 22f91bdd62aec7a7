package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"robobadge/internal/components/serviceutil"
	"robobadge/internal/components/telemetry"
)

// InitTelemetry installs the slog handler and, when a telemetry.json5 can be found,
// the global otel providers.
func InitTelemetry(ctx context.Context, verbose bool) telemetry.Telemetry {
	telemetry.InitSlog(verbose)

	t, err := telemetry.SetupFromEnv(ctx, "badge-server")
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("telemetry.json5 not found, traces and metrics will not be exported")
		return telemetry.Telemetry{}
	}
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	telemetry.InstrumentPerfStats(ctx)

	return t
}
