package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var renderOut *string

func init() {
	renderOut = renderCmd.Flags().StringP("out", "o", "-", "File to write the svg to, - for stdout.")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <username> [-o <path/to/badge.svg>]",
	Short: "Renders the badge the server would return for a user.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		svg, res := svc.Badge(cmd.Context(), args[0])
		if err := res.Err(); err != nil {
			slog.Warn("badge rendered with issues", "status", res.Status.String(), "err", err)
		}
		writeOutput(*renderOut, svg)
	},
}
