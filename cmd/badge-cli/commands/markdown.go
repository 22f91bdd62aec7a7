package commands

import (
	"fmt"
	"robobadge/internal/service"

	"github.com/spf13/cobra"
)

var markdownHost *string

func init() {
	markdownHost = markdownCmd.Flags().String("host", "http://localhost:8000", "Origin badge-server is reachable at.")
	rootCmd.AddCommand(markdownCmd)
}

var markdownCmd = &cobra.Command{
	Use:   "markdown <username> [--host <origin>]",
	Short: "Prints the markdown that embeds a user's badge, linked to their profile.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		embed := service.NewEmbed(*markdownHost, cfg.Origin.BaseUrl, args[0])
		fmt.Println(embed.Markdown)
	},
}
