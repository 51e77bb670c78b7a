package ticketapi

import "net/url"

// Endpoints relative to the backend base URL.
const (
	EndpointStart          = "/start"
	EndpointStop           = "/stop"
	EndpointVendorAdd      = "/vendor/add"
	EndpointVendorRemove   = "/vendor/remove"
	EndpointCustomerAdd    = "/customer/add"
	EndpointCustomerRemove = "/customer/remove"
	EndpointStatus         = "/status"
	EndpointTickets        = "/tickets"
	EndpointSales          = "/sales"
	EndpointLogs           = "/logs"
)

// StatusSuccess is the envelope status of an accepted request.
const StatusSuccess = "success"

// Command is a state-changing request. All arguments travel as query parameters.
type Command struct {
	Name     string
	Method   string
	Endpoint string
	Params   url.Values
}

// MessageResponse is the envelope every command and the status endpoint answer with.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ticketStatusPayload struct {
	Status       string            `json:"status"`
	Message      string            `json:"message"`
	TicketStatus *ticketStatusWire `json:"ticketStatus"`
}

type ticketStatusWire struct {
	CurrentSize       *int `json:"currentSize"`
	TotalTicketsAdded *int `json:"totalTicketsAdded"`
	MaxCapacity       *int `json:"maxCapacity"`
	ActiveVendors     *int `json:"activeVendors"`
	ActiveCustomers   *int `json:"activeCustomers"`
}

type salesPayload struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	TicketSales *float64 `json:"ticketSales"`
}

type logsPayload struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Logs    *[]string `json:"logs"`
}
