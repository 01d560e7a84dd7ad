package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	threema "github.com/bluec0re/threema-go"
)

// generate <id>: create a fresh key pair for an identity and print the
// key material. With --password, also prints an encrypted backup
// string instead of the raw private key.
func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <id>",
		Short: "Generate a fresh identity key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := threema.GenerateIdentity(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("identity:   %s\n", identity.ID)
			fmt.Printf("public key: %s\n", hex.EncodeToString(identity.PublicKey()))

			if password != "" {
				backup, err := identity.Backup(password)
				if err != nil {
					return err
				}
				fmt.Printf("backup:     %s\n", backup)
				return nil
			}

			log.Warning("printing the private key in the clear; use --password for an encrypted backup")
			fmt.Printf("private key: %s\n", hex.EncodeToString(identity.PrivateKey()))
			return nil
		},
	}
}
