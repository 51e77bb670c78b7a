package simulation

import (
	"strconv"

	"ticketdash/internal/shared/utils"
)

// Form field names as the backend expects them in query parameters.
const (
	FieldName              = "name"
	FieldEventName         = "eventName"
	FieldTicketsPerRelease = "ticketsPerRelease"
	FieldReleaseInterval   = "releaseInterval"
	FieldTotalTickets      = "totalTickets"
	FieldPrice             = "price"
	FieldRetrievalInterval = "retrievalInterval"
	FieldQuantity          = "quantity"
	FieldMaxCapacity       = "maxCapacity"
)

// Vendor is a ticket-releasing agent registration.
type Vendor struct {
	Name              string  `json:"name"`
	EventName         string  `json:"eventName"`
	TicketsPerRelease int     `json:"ticketsPerRelease"`
	ReleaseInterval   int     `json:"releaseInterval"`
	TotalTickets      int     `json:"totalTickets"`
	Price             float64 `json:"price"`
}

// Form renders the vendor as the add-vendor form.
func (v Vendor) Form() utils.Form {
	return VendorForm(
		v.Name,
		v.EventName,
		strconv.Itoa(v.TicketsPerRelease),
		strconv.Itoa(v.ReleaseInterval),
		strconv.Itoa(v.TotalTickets),
		strconv.FormatFloat(v.Price, 'f', -1, 64),
	)
}

// VendorForm builds the add-vendor form from raw operator input.
func VendorForm(name, eventName, ticketsPerRelease, releaseInterval, totalTickets, price string) utils.Form {
	return utils.NewForm(
		utils.Text(FieldName, name),
		utils.Text(FieldEventName, eventName),
		utils.Numeric(FieldTicketsPerRelease, ticketsPerRelease),
		utils.Numeric(FieldReleaseInterval, releaseInterval),
		utils.Numeric(FieldTotalTickets, totalTickets),
		utils.Numeric(FieldPrice, price),
	)
}

// Customer is a ticket-retrieving agent registration.
type Customer struct {
	Name              string `json:"name"`
	RetrievalInterval int    `json:"retrievalInterval"`
	// Quantity travels as totalTickets on the wire.
	Quantity int `json:"quantity"`
}

// Form renders the customer as the add-customer form.
func (c Customer) Form() utils.Form {
	return CustomerForm(c.Name, strconv.Itoa(c.RetrievalInterval), strconv.Itoa(c.Quantity))
}

// CustomerForm builds the add-customer form from raw operator input.
func CustomerForm(name, retrievalInterval, quantity string) utils.Form {
	return utils.NewForm(
		utils.Text(FieldName, name),
		utils.Numeric(FieldRetrievalInterval, retrievalInterval),
		utils.Numeric(FieldQuantity, quantity),
	)
}

// RemovalForm builds the form used to remove an agent by name.
func RemovalForm(name string) utils.Form {
	return utils.NewForm(utils.Text(FieldName, name))
}

// CapacityForm builds the start form for an explicit capacity.
func CapacityForm(maxCapacity string) utils.Form {
	return utils.NewForm(utils.Numeric(FieldMaxCapacity, maxCapacity))
}
