// Package control validates and sends operator commands to the ticket service and
// tracks the forms they are entered through.
package control

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/infrastructure/ticketapi"
	"ticketdash/internal/shared/errors"
	"ticketdash/internal/shared/logger"
	"ticketdash/internal/shared/utils"
)

// DefaultCapacityLimit is the largest capacity an operator may request explicitly.
const DefaultCapacityLimit = 100

// CommandName identifies a command kind.
type CommandName string

const (
	CommandStart          CommandName = "start"
	CommandStop           CommandName = "stop"
	CommandAddVendor      CommandName = "add_vendor"
	CommandRemoveVendor   CommandName = "remove_vendor"
	CommandAddCustomer    CommandName = "add_customer"
	CommandRemoveCustomer CommandName = "remove_customer"
)

type commandMessages struct {
	success   string
	transport string
}

var messages = map[CommandName]commandMessages{
	CommandStart:          {"System started successfully with max capacity.", "Failed to start the system."},
	CommandStop:           {"System stopped successfully", "Failed to stop the system."},
	CommandAddVendor:      {"Vendor added and processing tickets", "Error occurred while adding vendor"},
	CommandRemoveVendor:   {"Vendor removed", "Error occurred while removing vendor"},
	CommandAddCustomer:    {"Customer added and retrieving tickets", "Error occurred while adding customer"},
	CommandRemoveCustomer: {"Customer removed", "Error occurred while removing customer"},
}

const defaultCapacityMessage = "System started successfully with default capacity."

// API sends commands to the ticket service.
type API interface {
	Execute(ctx context.Context, cmd ticketapi.Command) (*ticketapi.MessageResponse, error)
}

// Request is a validated command ready to send.
type Request struct {
	Name           CommandName
	command        ticketapi.Command
	successMessage string
}

// Result is the outcome of an accepted command.
type Result struct {
	Command CommandName `json:"command"`
	Message string      `json:"message"`
}

// Dispatcher turns operator input into backend requests and interprets the
// answers. It never touches view state.
type Dispatcher struct {
	api           API
	capacityLimit int
	logger        logger.Interface
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCapacityLimit bounds explicit start capacities.
func WithCapacityLimit(limit int) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.capacityLimit = limit
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(log logger.Interface) Option {
	return func(d *Dispatcher) {
		d.logger = log
	}
}

func NewDispatcher(api API, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		api:           api,
		capacityLimit: DefaultCapacityLimit,
		logger:        logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.Named("dispatcher")
	return d
}

// CapacityLimit returns the largest accepted explicit capacity.
func (d *Dispatcher) CapacityLimit() int {
	return d.capacityLimit
}

// PrepareStart validates an explicit capacity form.
func (d *Dispatcher) PrepareStart(form utils.Form) (*Request, error) {
	if appErr := utils.ValidateForm(form); appErr != nil {
		return nil, appErr
	}
	raw := strings.TrimSpace(form.Get(simulation.FieldMaxCapacity))
	capacity, err := strconv.Atoi(raw)
	if err != nil || capacity > d.capacityLimit {
		return nil, errors.NewValidationError(simulation.FieldMaxCapacity,
			fmt.Sprintf("Please enter a valid max capacity between 0 and %d.", d.capacityLimit))
	}
	return d.startRequest(capacity, messages[CommandStart].success), nil
}

// PrepareStartDefault builds the start request that lets the engine pick its
// own capacity. It needs no validation.
func (d *Dispatcher) PrepareStartDefault() *Request {
	return d.startRequest(0, defaultCapacityMessage)
}

func (d *Dispatcher) startRequest(capacity int, success string) *Request {
	return &Request{
		Name: CommandStart,
		command: ticketapi.Command{
			Name:     string(CommandStart),
			Method:   http.MethodPost,
			Endpoint: ticketapi.EndpointStart,
			Params:   url.Values{simulation.FieldMaxCapacity: {strconv.Itoa(capacity)}},
		},
		successMessage: success,
	}
}

// PrepareStop builds the stop request.
func (d *Dispatcher) PrepareStop() *Request {
	return &Request{
		Name: CommandStop,
		command: ticketapi.Command{
			Name:     string(CommandStop),
			Method:   http.MethodPost,
			Endpoint: ticketapi.EndpointStop,
		},
		successMessage: messages[CommandStop].success,
	}
}

// PrepareAddVendor validates an add-vendor form.
func (d *Dispatcher) PrepareAddVendor(form utils.Form) (*Request, error) {
	return d.prepareForm(CommandAddVendor, http.MethodPost, ticketapi.EndpointVendorAdd, form, nil)
}

// PrepareRemoveVendor validates a remove-vendor form.
func (d *Dispatcher) PrepareRemoveVendor(form utils.Form) (*Request, error) {
	return d.prepareForm(CommandRemoveVendor, http.MethodDelete, ticketapi.EndpointVendorRemove, form, nil)
}

// PrepareAddCustomer validates an add-customer form. Quantity is sent as totalTickets.
func (d *Dispatcher) PrepareAddCustomer(form utils.Form) (*Request, error) {
	rename := map[string]string{simulation.FieldQuantity: simulation.FieldTotalTickets}
	return d.prepareForm(CommandAddCustomer, http.MethodPost, ticketapi.EndpointCustomerAdd, form, rename)
}

// PrepareRemoveCustomer validates a remove-customer form.
func (d *Dispatcher) PrepareRemoveCustomer(form utils.Form) (*Request, error) {
	return d.prepareForm(CommandRemoveCustomer, http.MethodDelete, ticketapi.EndpointCustomerRemove, form, nil)
}

func (d *Dispatcher) prepareForm(name CommandName, method, endpoint string, form utils.Form, rename map[string]string) (*Request, error) {
	if form.Len() == 0 {
		return nil, errors.NewValidationError(simulation.FieldName)
	}
	if appErr := utils.ValidateForm(form); appErr != nil {
		return nil, appErr
	}
	params := url.Values{}
	for _, field := range form.Fields() {
		key := field.Name
		if wire, ok := rename[key]; ok {
			key = wire
		}
		params.Set(key, strings.TrimSpace(field.Value))
	}
	return &Request{
		Name: name,
		command: ticketapi.Command{
			Name:     string(name),
			Method:   method,
			Endpoint: endpoint,
			Params:   params,
		},
		successMessage: messages[name].success,
	}, nil
}

// Send executes a prepared request. A request that never got an answer becomes a
// transport error with the command's generic message.
func (d *Dispatcher) Send(ctx context.Context, req *Request) (*Result, error) {
	resp, err := d.api.Execute(ctx, req.command)
	if err != nil {
		if errors.IsTransportError(err) || !errors.IsAppError(err) {
			err = errors.NewTransportError(messages[req.Name].transport, err)
		}
		d.logger.Warnw("command failed", "command", req.Name, "error", err)
		return nil, err
	}

	message := resp.Message
	if message == "" {
		message = req.successMessage
	}
	d.logger.Infow("command accepted", "command", req.Name, "message", message)
	return &Result{Command: req.Name, Message: message}, nil
}

// Start starts the engine. A nil capacity takes the engine's default.
func (d *Dispatcher) Start(ctx context.Context, maxCapacity *int) (*Result, error) {
	if maxCapacity == nil {
		return d.Send(ctx, d.PrepareStartDefault())
	}
	req, err := d.PrepareStart(simulation.CapacityForm(strconv.Itoa(*maxCapacity)))
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, req)
}

// Stop stops the engine.
func (d *Dispatcher) Stop(ctx context.Context) (*Result, error) {
	return d.Send(ctx, d.PrepareStop())
}

// AddVendor registers a vendor.
func (d *Dispatcher) AddVendor(ctx context.Context, v simulation.Vendor) (*Result, error) {
	return d.prepareAndSend(ctx, d.PrepareAddVendor, v.Form())
}

// RemoveVendor removes a vendor by name.
func (d *Dispatcher) RemoveVendor(ctx context.Context, name string) (*Result, error) {
	return d.prepareAndSend(ctx, d.PrepareRemoveVendor, simulation.RemovalForm(name))
}

// AddCustomer registers a customer.
func (d *Dispatcher) AddCustomer(ctx context.Context, c simulation.Customer) (*Result, error) {
	return d.prepareAndSend(ctx, d.PrepareAddCustomer, c.Form())
}

// RemoveCustomer removes a customer by name.
func (d *Dispatcher) RemoveCustomer(ctx context.Context, name string) (*Result, error) {
	return d.prepareAndSend(ctx, d.PrepareRemoveCustomer, simulation.RemovalForm(name))
}

func (d *Dispatcher) prepareAndSend(ctx context.Context, prepare func(utils.Form) (*Request, error), form utils.Form) (*Result, error) {
	req, err := prepare(form)
	if err != nil {
		return nil, err
	}
	return d.Send(ctx, req)
}
