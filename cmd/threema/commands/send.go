package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// send <recipient> <message>: encrypt and send a text message.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <recipient> <message>",
		Short: "Encrypt and send a text message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}

			msgID, err := client.SendText(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(msgID)
			return nil
		},
	}
}
