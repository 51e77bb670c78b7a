package agents

import (
	"context"

	"github.com/spf13/cobra"

	"ticketdash/internal/application/control"
	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/interfaces/cli/app"
	"ticketdash/internal/shared/utils"
)

var (
	vendorName        string
	eventName         string
	ticketsPerRelease string
	releaseInterval   string
	totalTickets      string
	price             string

	customerName      string
	retrievalInterval string
	quantity          string
)

// NewVendorCommand returns the vendor command group.
func NewVendorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Add or remove vendors",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Register a vendor that releases tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := simulation.VendorForm(vendorName, eventName, ticketsPerRelease, releaseInterval, totalTickets, price)
			return runForm(cmd, control.FormAddVendor, form)
		},
	}
	add.Flags().StringVar(&vendorName, "name", "", "Vendor name")
	add.Flags().StringVar(&eventName, "event", "", "Event the tickets are for")
	add.Flags().StringVar(&ticketsPerRelease, "tickets-per-release", "", "Tickets released at each interval")
	add.Flags().StringVar(&releaseInterval, "release-interval", "", "Seconds between releases")
	add.Flags().StringVar(&totalTickets, "total-tickets", "", "Total tickets the vendor releases")
	add.Flags().StringVar(&price, "price", "", "Ticket price")

	cmd.AddCommand(add, newRemoveCommand("vendor", control.FormRemoveVendor))
	return cmd
}

// NewCustomerCommand returns the customer command group.
func NewCustomerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Add or remove customers",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Register a customer that retrieves tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := simulation.CustomerForm(customerName, retrievalInterval, quantity)
			return runForm(cmd, control.FormAddCustomer, form)
		},
	}
	add.Flags().StringVar(&customerName, "name", "", "Customer name")
	add.Flags().StringVar(&retrievalInterval, "retrieval-interval", "", "Seconds between retrievals")
	add.Flags().StringVar(&quantity, "quantity", "", "Tickets the customer retrieves")

	cmd.AddCommand(add, newRemoveCommand("customer", control.FormRemoveCustomer))
	return cmd
}

func newRemoveCommand(agent string, kind control.FormKind) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a " + agent + " by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, kind, simulation.RemovalForm(args[0]))
		},
	}
}

func runForm(cmd *cobra.Command, kind control.FormKind, form utils.Form) error {
	return app.Execute(cmd, func(ctx context.Context, panel *control.Panel) (*control.Result, error) {
		return panel.Run(ctx, kind, form)
	})
}
