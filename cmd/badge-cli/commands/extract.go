package commands

import (
	"os"
	"robobadge/internal/badge"
	"robobadge/internal/components/serviceutil"

	"github.com/spf13/cobra"
)

var (
	extractFile     *string
	extractUsername *string
	extractSvg      *string
)

func init() {
	extractFile = extractCmd.Flags().String("file", "", "A saved profile page.")
	extractUsername = extractCmd.Flags().String("username", "", "The username the page belongs to.")
	extractSvg = extractCmd.Flags().String("svg", "", "Also render the badge to this file.")
	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract --file <page.html> --username <name> [--svg <badge.svg>]",
	Short: "Runs the extractor against a saved profile page, useful when the site layout changes.",
	Run: func(cmd *cobra.Command, args []string) {
		page, err := os.ReadFile(*extractFile)
		if err != nil {
			serviceutil.Fatal("failed to read page", err)
		}

		extractor := createExtractor(readConfig())
		res := extractor.Extract(string(page), *extractUsername)
		printResult(res)

		if *extractSvg != "" {
			writeOutput(*extractSvg, badge.Render(res))
		}
	},
}
