package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func creditsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show the remaining message credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			credits, err := client.Credits(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(credits)
			return nil
		},
	}
}
