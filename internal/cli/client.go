package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/bakery/internal/cartsync"
	"github.com/mmynk/bakery/pkg/api/apiconnect"
	"github.com/mmynk/bakery/pkg/logging"
)

var errNotSignedIn = errors.New("not signed in, run bakery-cart login first")

// client bundles the Connect clients and the cart syncer for one invocation.
type client struct {
	opts    *RootOptions
	cmd     *cobra.Command
	session *Session

	auth    apiconnect.AuthServiceClient
	catalog apiconnect.CatalogServiceClient
	orders  apiconnect.OrderServiceClient
	carts   *cartsync.Syncer
}

func newClient(cmd *cobra.Command, opts *RootOptions) (*client, error) {
	session, err := loadSession(opts.CacheDir)
	if err != nil {
		return nil, err
	}
	local, err := cartsync.NewFileStore(opts.CacheDir)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(cmd.ErrOrStderr(), level, "text")

	c := &client{
		opts:    opts,
		cmd:     cmd,
		session: session,
		auth:    apiconnect.NewAuthServiceClient(http.DefaultClient, opts.ServerURL),
		catalog: apiconnect.NewCatalogServiceClient(http.DefaultClient, opts.ServerURL),
		orders:  apiconnect.NewOrderServiceClient(http.DefaultClient, opts.ServerURL),
	}

	remote := cartsync.NewConnectRemote(
		apiconnect.NewCartServiceClient(http.DefaultClient, opts.ServerURL),
		func(ctx context.Context, userID string) (string, error) {
			if c.session == nil || c.session.UserID != userID {
				return "", errNotSignedIn
			}
			return c.session.Token, nil
		},
		logger,
	)
	notifier := cartsync.NotifierFunc(func(n cartsync.Notification) {
		fmt.Fprintf(cmd.ErrOrStderr(), "! %s\n", n.Message)
	})
	c.carts = cartsync.New(local, remote,
		cartsync.WithDebounce(opts.Debounce),
		cartsync.WithNotifier(notifier),
		cartsync.WithLogger(logger),
	)
	return c, nil
}

// start loads the session's cart: the account cart when signed in, the
// device cart otherwise.
func (c *client) start(ctx context.Context) error {
	if c.session == nil {
		c.carts.Load(ctx)
		return nil
	}
	_, err := c.carts.SignIn(ctx, c.session.UserID, false)
	return err
}

// finish saves pending changes and releases the syncer.
func (c *client) finish(ctx context.Context) {
	c.carts.Flush(ctx)
	c.carts.Close()
}

func (c *client) requireSession() error {
	if c.session == nil {
		return errNotSignedIn
	}
	return nil
}

func authed[T any](c *client, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if c.session != nil {
		req.Header().Set("Authorization", "Bearer "+c.session.Token)
	}
	return req
}
