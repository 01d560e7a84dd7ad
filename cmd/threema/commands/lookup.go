package commands

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// lookup <id|email|phone>: resolve directory entries. An argument
// containing '@' is treated as an email address, one starting with '+'
// or consisting of digits as a phone number, anything else as an
// identity whose public key is fetched.
func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <id|email|phone>",
		Short: "Look up an identity or its public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildClient()
			if err != nil {
				return err
			}
			query := args[0]

			switch {
			case strings.Contains(query, "@"):
				id, err := client.LookupIDByEmail(cmd.Context(), query)
				if err != nil {
					return err
				}
				fmt.Println(id)
			case strings.HasPrefix(query, "+") || isDigits(query):
				id, err := client.LookupIDByPhone(cmd.Context(), query)
				if err != nil {
					return err
				}
				fmt.Println(id)
			default:
				key, err := client.LookupPublicKey(cmd.Context(), query)
				if err != nil {
					return err
				}
				fmt.Println(hex.EncodeToString(key))
			}
			return nil
		},
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
