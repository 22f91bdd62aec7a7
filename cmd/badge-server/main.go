package main

import (
	"context"
	"flag"
	"robobadge/internal/components/configutil"
	"robobadge/internal/components/restyutil"
	"robobadge/internal/components/serviceutil"
	"robobadge/internal/scrapers/robocontest"
	"robobadge/internal/service"
	"time"
)

type Config struct {
	Port   int                       `json:"port"`
	Origin robocontest.ClientOptions `json:"origin"`
	Layout robocontest.Layout        `json:"layout"`
}

func defaultConfig() Config {
	return Config{
		Port:   8000,
		Origin: robocontest.DefaultClientOptions(),
		Layout: robocontest.DefaultLayout(),
	}
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	config := flag.String("config", "config.json5", "Path to the server configuration.")
	dumpDir := flag.String("dump-traffic", "", "Write every exchange with robocontest to this directory.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	t := InitTelemetry(ctx, *verbose)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t.Shutdown(shutdownCtx)
	}()

	cfg, err := configutil.ReadWithDefaults(*config, defaultConfig())
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	if *dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(*dumpDir)
		if err != nil {
			serviceutil.Fatal("prepare traffic dump", err)
		}
		cfg.Origin.TrafficOutput = output
	}

	svc, err := InitBadgeService(cfg)
	if err != nil {
		serviceutil.Fatal("init badge service", err)
	}

	err = serviceutil.StartHttpServer(ctx, cfg.Port, service.NewHandler(svc, cfg.Origin.BaseUrl))
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
