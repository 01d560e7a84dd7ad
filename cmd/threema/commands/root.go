package commands

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	logging "gopkg.in/op/go-logging.v1"

	threema "github.com/bluec0re/threema-go"
)

var log = logging.MustGetLogger("threema")

var (
	identityID string
	apiSecret  string
	privateKey string
	backup     string
	password   string
	verbose    bool
)

func Execute() error {
	err := rootCmd().Execute()
	if err != nil {
		log.Error(err.Error())
	}
	return err
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "threema",
		Short:         "End-to-end encrypted messaging through the Threema gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A missing .env is not an error; flags and the process
			// environment still apply.
			_ = godotenv.Load()

			setupLogging()

			if identityID == "" {
				identityID = os.Getenv("THREEMA_ID")
			}
			if apiSecret == "" {
				apiSecret = os.Getenv("THREEMA_SECRET")
			}
			if privateKey == "" {
				privateKey = os.Getenv("THREEMA_PRIVATE_KEY")
			}
			if backup == "" {
				backup = os.Getenv("THREEMA_BACKUP")
			}
			if password == "" {
				password = os.Getenv("THREEMA_PASSWORD")
			}
		},
	}

	root.PersistentFlags().StringVarP(&identityID, "identity", "i", "", "gateway identity (e.g. *YOURGWID)")
	root.PersistentFlags().StringVarP(&apiSecret, "secret", "s", "", "gateway API secret")
	root.PersistentFlags().StringVarP(&privateKey, "private-key", "k", "", "hex-encoded private key")
	root.PersistentFlags().StringVarP(&backup, "backup", "b", "", "identity backup string")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "backup password")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(sendCmd(), lookupCmd(), creditsCmd(), generateCmd(), backupCmd())

	return root
}

func setupLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend,
		logging.MustStringFormatter("%{time:15:04:05.000} %{level:.4s} %{module}: %{message}"))
	leveled := logging.AddModuleLevel(formatted)
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	} else {
		leveled.SetLevel(logging.WARNING, "")
	}
	logging.SetBackend(leveled)
}

// buildClient assembles a client from the private key if one is given,
// otherwise from the identity backup.
func buildClient() (*threema.Client, error) {
	if apiSecret == "" {
		return nil, fmt.Errorf("API secret required (--secret or THREEMA_SECRET)")
	}

	if privateKey != "" {
		if identityID == "" {
			return nil, fmt.Errorf("identity required (--identity or THREEMA_ID)")
		}
		key, err := hex.DecodeString(privateKey)
		if err != nil {
			return nil, fmt.Errorf("private key is not hex: %w", err)
		}
		log.Debugf("using identity %s with explicit private key", identityID)
		return threema.New(identityID, apiSecret, key)
	}

	if backup != "" {
		if password == "" {
			return nil, fmt.Errorf("backup password required (--password or THREEMA_PASSWORD)")
		}
		log.Debug("restoring identity from backup")
		return threema.NewFromBackup(backup, password, apiSecret)
	}

	return nil, fmt.Errorf("no identity material: provide --private-key or --backup")
}
