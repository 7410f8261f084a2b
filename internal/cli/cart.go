package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/bakery/internal/cart"
	"github.com/mmynk/bakery/internal/models"
	"github.com/mmynk/bakery/pkg/api"
)

// cartCommand runs fn against a started client, saves and prints the cart.
func cartCommand(opts *RootOptions, cmd *cobra.Command, fn func(c *client) error) error {
	ctx := cmd.Context()
	c, err := newClient(cmd, opts)
	if err != nil {
		return err
	}
	if err := c.start(ctx); err != nil {
		return err
	}
	defer c.carts.Close()

	if err := fn(c); err != nil {
		return err
	}
	c.finish(ctx)
	return printCart(cmd.OutOrStdout(), opts.Format, c.carts.State())
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cartCommand(opts, cmd, func(*client) error { return nil })
		},
	}
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Size     string
	Quantity int
	Note     string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <cake-id>",
		Short: "Add a cake to the cart",
		Long: `Add a cake to the cart. Adding the same cake, size and note again
increases the quantity of the existing line.

Example:
  bakery-cart add 6f1c... --size "8 inch" --qty 2 --note "Happy Birthday"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cartCommand(opts.RootOptions, cmd, func(c *client) error {
				return addCake(c, opts, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.Size, "size", "", "size label (default: the first size)")
	cmd.Flags().IntVarP(&opts.Quantity, "qty", "q", 1, "quantity")
	cmd.Flags().StringVar(&opts.Note, "note", "", "special instructions")

	return cmd
}

func addCake(c *client, opts *AddOptions, cakeID string) error {
	resp, err := c.catalog.GetCake(c.cmd.Context(), authed(c, &api.GetCakeRequest{CakeId: cakeID}))
	if err != nil {
		return fmt.Errorf("failed to look up cake: %w", err)
	}
	cake := resp.Msg.Cake
	if !cake.Available {
		return fmt.Errorf("%s is not available", cake.Name)
	}
	if len(cake.Sizes) == 0 {
		return fmt.Errorf("%s has no sizes", cake.Name)
	}

	size := cake.Sizes[0]
	if opts.Size != "" {
		found := false
		for _, s := range cake.Sizes {
			if s.Label == opts.Size {
				size, found = s, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s has no size %q", cake.Name, opts.Size)
		}
	}

	c.carts.Dispatch(cart.AddItem(models.CartItem{
		CakeID:              cake.Id,
		Name:                cake.Name,
		Price:               size.Price,
		Quantity:            opts.Quantity,
		Size:                size,
		SpecialInstructions: opts.Note,
		ImageURL:            cake.ImageUrl,
		Customizable:        cake.Customizable,
	}))
	return nil
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cartCommand(opts, cmd, func(c *client) error {
				c.carts.Dispatch(cart.RemoveItem(args[0]))
				return nil
			})
		},
	}
}

// NewSetQuantityCommand creates the set-qty command.
func NewSetQuantityCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-qty <line-id> <quantity>",
		Short: "Change the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			return cartCommand(opts, cmd, func(c *client) error {
				c.carts.Dispatch(cart.UpdateQuantity(args[0], qty))
				return nil
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cartCommand(opts, cmd, func(c *client) error {
				c.carts.Dispatch(cart.ClearCart())
				return nil
			})
		},
	}
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the account cart whenever another session changes it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := newClient(cmd, opts)
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

			out := cmd.OutOrStdout()
			if err := printCart(out, opts.Format, c.carts.State()); err != nil {
				return err
			}
			c.carts.OnChange(func(state models.CartState) {
				fmt.Fprintln(out)
				printCart(out, opts.Format, state)
			})

			<-ctx.Done()
			return nil
		},
	}
}
