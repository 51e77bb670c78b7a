package handlers

import "encoding/json"

// Numeric fields are json.Number so both 5 and "5" are accepted and the raw
// text reaches form validation unchanged.

// StartRequest starts the engine. Without maxCapacity the engine picks its default.
type StartRequest struct {
	MaxCapacity *json.Number `json:"maxCapacity"`
}

// AddVendorRequest registers a vendor.
type AddVendorRequest struct {
	Name              string      `json:"name"`
	EventName         string      `json:"eventName"`
	TicketsPerRelease json.Number `json:"ticketsPerRelease"`
	ReleaseInterval   json.Number `json:"releaseInterval"`
	TotalTickets      json.Number `json:"totalTickets"`
	Price             json.Number `json:"price"`
}

// AddCustomerRequest registers a customer.
type AddCustomerRequest struct {
	Name              string      `json:"name"`
	RetrievalInterval json.Number `json:"retrievalInterval"`
	Quantity          json.Number `json:"quantity"`
}
