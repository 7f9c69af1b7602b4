package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Inspect client records",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients the way the admin dashboard shows them",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := buildApp(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		channels, err := a.service.PendingChannels(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(channels)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCOMPANY\tSTATUS\tCHANNEL\tCREATED")
		for _, ch := range channels {
			channel := ch.YouTubeChannelID
			if channel == "" {
				channel = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ch.ID, ch.CompanyName, ch.Status, channel, ch.CreatedAt)
		}
		return tw.Flush()
	},
}

func init() {
	clientsListCmd.Flags().Bool("json", false, "print JSON instead of a table")
	clientsCmd.AddCommand(clientsListCmd)
}
