package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloud-wave-best-zizon/storefront-service/pkg/client"
)

var errNoToken = errors.New("no token: pass --token or set STOREFRONT_TOKEN")

func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:          "login",
		Short:        "Sign in and print a bearer token",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, user, err := rootOpts.Client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return formatter(rootOpts, cmd).Success(map[string]any{"token": session.Token, "user": user}, func(w io.Writer) {
				fmt.Fprintln(w, session.Token)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		q                  client.ProductQuery
		minPrice, maxPrice float64
	)

	cmd := &cobra.Command{
		Use:          "products",
		Short:        "List products matching the given filters",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-price") {
				q.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				q.MaxPrice = &maxPrice
			}
			products, err := rootOpts.Client().ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			return formatter(rootOpts, cmd).Success(products, func(w io.Writer) {
				for _, p := range products {
					fmt.Fprintf(w, "%s\t%-30s\t%8.2f\t%s\n", p.ID, p.Name, p.Price, p.Category)
				}
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&q.Collection, "collection", "", "collection name or \"all\"")
	f.StringVar(&q.Category, "category", "", "category or \"all\"")
	f.StringSliceVar(&q.Brands, "brand", nil, "brands (comma separated)")
	f.StringSliceVar(&q.Sizes, "size", nil, "sizes (comma separated)")
	f.StringVar(&q.Color, "color", "", "color")
	f.StringVar(&q.Gender, "gender", "", "gender")
	f.StringVar(&q.Material, "material", "", "material")
	f.Float64Var(&minPrice, "min-price", 0, "minimum price")
	f.Float64Var(&maxPrice, "max-price", 0, "maximum price")
	f.StringVar(&q.Search, "search", "", "case-insensitive name/description search")
	f.StringVar(&q.SortBy, "sort", "", "priceAsc|priceDesc|popularity")
	f.IntVar(&q.Limit, "limit", 0, "maximum number of results")
	return cmd
}

func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	var guestID string

	cmd := &cobra.Command{
		Use:          "cart",
		Short:        "Show the current cart",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart, err := rootOpts.Client().GetCart(cmd.Context(), rootOpts.Session(), guestID)
			if err != nil {
				return err
			}
			return formatter(rootOpts, cmd).Success(cart, func(w io.Writer) {
				printCart(w, cart)
			})
		},
	}

	cmd.Flags().StringVar(&guestID, "guest-id", "", "guest cart id when not signed in")
	return cmd
}

func printCart(w io.Writer, cart *client.Cart) {
	for _, item := range cart.Products {
		fmt.Fprintf(w, "%s\t%-30s\t%s/%s\tx%d\t%8.2f\n", item.ProductID, item.Name, item.Size, item.Color, item.Quantity, item.Price)
	}
	fmt.Fprintf(w, "total\t%.2f\n", cart.TotalPrice)
}

// referencePayment reports a payment captured outside this tool under a known reference.
type referencePayment struct {
	ref string
}

func (p referencePayment) Capture(_ context.Context, co *client.Checkout) (map[string]any, error) {
	return map[string]any{
		"id":     p.ref,
		"status": "COMPLETED",
		"amount": co.TotalPrice,
	}, nil
}

func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		addr       client.ShippingAddress
		method     string
		paymentRef string
	)

	cmd := &cobra.Command{
		Use:          "checkout",
		Short:        "Check out the signed-in user's cart",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Token == "" {
				return errNoToken
			}
			c := rootOpts.Client()
			session := rootOpts.Session()

			cart, err := c.GetCart(cmd.Context(), session, "")
			if err != nil {
				return err
			}
			flow := &client.CheckoutFlow{Client: c, Payments: referencePayment{ref: paymentRef}}
			order, err := flow.Run(cmd.Context(), session, cart, addr, method)
			if err != nil {
				var stepErr *client.StepError
				if errors.As(err, &stepErr) && stepErr.CheckoutID != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "checkout %s can be resumed\n", stepErr.CheckoutID)
				}
				return err
			}
			return formatter(rootOpts, cmd).Success(order, func(w io.Writer) {
				fmt.Fprintf(w, "order %s\t%s\t%.2f\n", order.OrderID, order.Status, order.TotalPrice)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr.Address, "address", "", "street address")
	f.StringVar(&addr.City, "city", "", "city")
	f.StringVar(&addr.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&addr.Country, "country", "", "country")
	f.StringVar(&addr.FirstName, "first-name", "", "recipient first name")
	f.StringVar(&addr.LastName, "last-name", "", "recipient last name")
	f.StringVar(&addr.Phone, "phone", "", "recipient phone")
	f.StringVar(&method, "payment-method", "card", "payment method label")
	f.StringVar(&paymentRef, "payment-ref", "", "reference of the captured payment")
	for _, name := range []string{"address", "city", "postal-code", "country", "payment-ref"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
