package main

import (
	"os"

	"github.com/spf13/cobra"

	"servicedirectory/pkg/client"
)

const defaultAPIURL = "http://localhost:5000/api"

type globalOptions struct {
	apiURL      string
	sessionPath string
}

func (o *globalOptions) client() (*client.Client, error) {
	path := o.sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, err
		}
	}
	return client.New(o.apiURL, client.WithSessionStore(client.NewSessionStore(path))), nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	apiURL := os.Getenv("DIRECTORY_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	cmd := &cobra.Command{
		Use:           "directory-cli",
		Short:         "Find mosques, hotels and hospitals by postal code",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", apiURL, "directory API base URL (env DIRECTORY_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.sessionPath, "session", "", "session file (default: user config dir)")

	cmd.AddCommand(
		newListCmd(opts),
		newSearchCmd(opts),
		newAddCmd(opts),
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newStatusCmd(opts),
		newLocateCmd(opts),
	)
	return cmd
}
