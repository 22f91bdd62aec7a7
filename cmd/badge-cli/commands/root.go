package commands

import (
	"context"
	"fmt"
	"os"
	"robobadge/internal/components/configutil"
	"robobadge/internal/components/restyutil"
	"robobadge/internal/components/serviceutil"
	"robobadge/internal/components/telemetry"
	"robobadge/internal/scrapers/robocontest"
	"robobadge/internal/service"

	"github.com/spf13/cobra"
)

type Config struct {
	Origin robocontest.ClientOptions `json:"origin"`
	Layout robocontest.Layout        `json:"layout"`
}

var (
	configPath *string
	baseUrl    *string
	dumpDir    *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "Path to the configuration shared with badge-server.")
	baseUrl = rootCmd.PersistentFlags().String("base-url", "", "Overrides the robocontest origin.")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "Write every exchange with the origin to this directory.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "badge-cli",
	Short: "badge-cli fetches, extracts and renders robocontest profile badges without the http server.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() Config {
	cfg, err := configutil.ReadWithDefaults(*configPath, Config{
		Origin: robocontest.DefaultClientOptions(),
		Layout: robocontest.DefaultLayout(),
	})
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if *baseUrl != "" {
		cfg.Origin.BaseUrl = *baseUrl
	}
	if *dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(*dumpDir)
		if err != nil {
			serviceutil.Fatal("failed to prepare dump directory", err)
		}
		cfg.Origin.TrafficOutput = output
	}
	return cfg
}

func createExtractor(cfg Config) robocontest.Extractor {
	extractor, err := robocontest.NewExtractor(cfg.Layout, telemetry.SlogAPI{})
	if err != nil {
		serviceutil.Fatal("failed to initialize extractor", err)
	}
	return extractor
}

func createService() service.BadgeService {
	cfg := readConfig()

	client, err := robocontest.NewClient(cfg.Origin, telemetry.SlogAPI{})
	if err != nil {
		serviceutil.Fatal("failed to initialize robocontest client", err)
	}
	svc, err := service.NewBadgeService(client, createExtractor(cfg))
	if err != nil {
		serviceutil.Fatal("failed to initialize badge service", err)
	}
	return svc
}

func writeOutput(path, svg string) {
	if path == "" || path == "-" {
		fmt.Println(svg)
		return
	}
	err := os.WriteFile(path, []byte(svg), 0644)
	if err != nil {
		serviceutil.Fatal("failed to write svg", err)
	}
}
