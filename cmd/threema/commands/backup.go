package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	threema "github.com/bluec0re/threema-go"
)

// backup: decrypt the configured identity backup and re-encrypt it
// under a new password.
func backupCmd() *cobra.Command {
	var newPassword string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Re-encrypt an identity backup under a new password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backup == "" || password == "" {
				return fmt.Errorf("backup and password required (--backup/--password)")
			}

			identity, err := threema.IdentityFromBackup(backup, password)
			if err != nil {
				return err
			}
			log.Debugf("decrypted backup for %s", identity.ID)

			reencrypted, err := identity.Backup(newPassword)
			if err != nil {
				return err
			}
			fmt.Println(reencrypted)
			return nil
		},
	}

	cmd.Flags().StringVar(&newPassword, "new-password", "", "password for the re-encrypted backup")
	_ = cmd.MarkFlagRequired("new-password")
	return cmd
}
