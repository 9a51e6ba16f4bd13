// Package cli implements storefrontctl, a command-line client for the storefront API.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cloud-wave-best-zizon/storefront-service/pkg/client"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server string
	Token  string
	Format string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

// Session returns the session built from --token or $STOREFRONT_TOKEN.
func (o *RootOptions) Session() client.Session {
	return client.Session{Token: o.Token}
}

func (o *RootOptions) Client() *client.Client {
	return client.New(o.Server)
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "storefrontctl",
		Short:         "Command-line client for the storefront API",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Token == "" {
				opts.Token = os.Getenv("STOREFRONT_TOKEN")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:8080", "storefront API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", "", "bearer token (defaults to $STOREFRONT_TOKEN)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))

	return cmd
}
