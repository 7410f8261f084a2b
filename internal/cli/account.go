package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/pkg/api"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
	Merge    bool
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and sync the device cart to your account",
		Long: `Sign in and sync the device cart to your account.

If your account has no cart yet, the device cart becomes your account cart.
Otherwise the account cart is used; with --merge, device lines it does not
have are added to it. The password may also be given in BAKERY_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	cmd.Flags().BoolVar(&opts.Merge, "merge", true, "add device cart lines to the account cart")
	cmd.MarkFlagRequired("email")

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	password := opts.Password
	if password == "" {
		password = os.Getenv("BAKERY_PASSWORD")
	}
	if password == "" {
		return errors.New("password required: use --password or BAKERY_PASSWORD")
	}

	c, err := newClient(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	resp, err := c.auth.Login(ctx, authed(c, &api.LoginRequest{Email: opts.Email, Password: password}))
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.session = &Session{Token: resp.Msg.Token, UserID: resp.Msg.User.Id, Email: resp.Msg.User.Email}
	if err := saveSession(opts.CacheDir, c.session); err != nil {
		return err
	}

	state, err := c.carts.SignIn(ctx, c.session.UserID, opts.Merge)
	if err != nil {
		return err
	}
	defer c.carts.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Signed in as %s\n", resp.Msg.User.Email)
	return printCart(cmd.OutOrStdout(), opts.Format, state)
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; the account keeps its cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newClient(cmd, opts)
			if err != nil {
				return err
			}
			if c.session == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Not signed in.")
				return nil
			}
			if err := c.start(ctx); err != nil {
				return err
			}
			c.carts.SignOut(ctx)
			c.carts.Close()

			if _, err := c.auth.Logout(ctx, authed(c, &api.LogoutRequest{})); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "! server logout failed: %v\n", err)
			}
			if err := clearSession(opts.CacheDir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Signed out.")
			return nil
		},
	}
}

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Name         string
	Phone        string
	Delivery     bool
	Street       string
	City         string
	PostalCode   string
	PickupIn     time.Duration
	Instructions string
	Payment      string
	Notes        string
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the account cart",
		Long: `Place an order for the account cart and empty it.

Example:
  bakery-cart checkout --name Sam --pickup-in 3h --pay cash
  bakery-cart checkout --name Sam --phone 555-0100 --delivery \
      --street "1 Main St" --city Austin --postal-code 78701 --pay card`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone (required for delivery)")
	cmd.Flags().BoolVar(&opts.Delivery, "delivery", false, "deliver instead of pickup")
	cmd.Flags().StringVar(&opts.Street, "street", "", "delivery street")
	cmd.Flags().StringVar(&opts.City, "city", "", "delivery city")
	cmd.Flags().StringVar(&opts.PostalCode, "postal-code", "", "delivery postal code")
	cmd.Flags().DurationVar(&opts.PickupIn, "pickup-in", 2*time.Hour, "pickup time from now")
	cmd.Flags().StringVar(&opts.Instructions, "instructions", "", "fulfillment instructions")
	cmd.Flags().StringVar(&opts.Payment, "pay", "card", "payment method (card|cash)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "order notes")

	return cmd
}

func runCheckout(opts *CheckoutOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	c, err := newClient(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	if err := c.requireSession(); err != nil {
		return err
	}
	if err := c.start(ctx); err != nil {
		return err
	}
	defer c.carts.Close()

	state := c.carts.State()
	if len(state.Items) == 0 {
		return errors.New("your cart is empty")
	}

	f := &api.Fulfillment{
		Method:       "pickup",
		ContactName:  opts.Name,
		Phone:        opts.Phone,
		Instructions: opts.Instructions,
	}
	if opts.Delivery {
		f.Method = "delivery"
		f.Street, f.City, f.PostalCode = opts.Street, opts.City, opts.PostalCode
	} else {
		f.PickupTime = time.Now().Add(opts.PickupIn).Unix()
	}

	resp, err := c.orders.CreateOrder(ctx, authed(c, &api.CreateOrderRequest{
		Items:         state.Items,
		Fulfillment:   f,
		PaymentMethod: opts.Payment,
		Notes:         opts.Notes,
		ClearCart:     true,
	}))
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	// The server already emptied the account cart; mirror it without a
	// second write.
	c.carts.Dispatch(cart.ClearCart())
	c.carts.Close()

	o := resp.Msg.Order
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), o)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %s, payment %s, total $%.2f\n", o.Id, o.Status, o.PaymentStatus, o.Total)
	return nil
}

// OrdersOptions holds flags for the orders command.
type OrdersOptions struct {
	*RootOptions
	Limit int
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd, opts.RootOptions)
			if err != nil {
				return err
			}
			if err := c.requireSession(); err != nil {
				return err
			}
			resp, err := c.orders.ListOrderHistory(cmd.Context(), authed(c, &api.ListOrderHistoryRequest{Limit: opts.Limit}))
			if err != nil {
				return fmt.Errorf("failed to list orders: %w", err)
			}
			return printOrders(cmd.OutOrStdout(), opts.Format, resp.Msg.Orders, resp.Msg.Collapsed)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum orders to show")

	return cmd
}
