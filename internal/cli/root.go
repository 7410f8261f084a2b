// Package cli implements bakery-cart, a terminal client that keeps a cart in
// sync with the bakery server the same way the storefront does.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/bakery/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ServerURL string
	CacheDir  string
	Debounce  time.Duration
	Format    string // "text" | "json"
	Verbose   bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the bakery-cart command tree with defaults from cfg.
func NewRootCommand(cfg *config.ClientConfig) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bakery-cart",
		Short: "Manage your bakery cart from the terminal",
		Long: `Manage your bakery cart from the terminal.

Without a session the cart is kept on this device. After login it is synced
to your account and shared with every other signed-in session.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", cfg.ServerURL, "bakery server URL")
	cmd.PersistentFlags().StringVar(&opts.CacheDir, "cache-dir", cfg.CacheDir, "directory for the local cart and session")
	cmd.PersistentFlags().DurationVar(&opts.Debounce, "debounce", cfg.Debounce, "delay before changes are saved")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewSetQuantityCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
