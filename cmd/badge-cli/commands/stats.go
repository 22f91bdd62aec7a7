package commands

import (
	"fmt"
	"os"
	"robobadge/internal/profile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printResult(res profile.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Username", res.Stats.Username},
		{"Status", res.Status.String()},
		{"Rank", res.Stats.Rank},
		{"Rating", res.Stats.Rating},
		{"Solved", res.Stats.Solved},
		{"Total", res.Stats.Total},
	})
	for _, issue := range res.Issues {
		t.AppendRow(table.Row{"Issue", issue.Error()})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var statsCmd = &cobra.Command{
	Use:   "stats <username>",
	Short: "Fetches a profile and prints the extracted statistics.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := createService()
		res := svc.Stats(cmd.Context(), args[0])
		printResult(res)

		if res.Status == profile.StatusUnavailable {
			fmt.Fprintln(os.Stderr, "profile is unavailable")
			os.Exit(1)
		}
	},
}
