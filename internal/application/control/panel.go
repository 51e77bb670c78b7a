package control

import (
	"context"
	"fmt"
	"sync"

	"ticketdash/internal/domain/simulation"
	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/shared/errors"
	"ticketdash/internal/shared/logger"
	"ticketdash/internal/shared/utils"
)

// FormKind identifies one of the control panel's forms.
type FormKind string

const (
	FormStart          FormKind = "start"
	FormAddVendor      FormKind = "add_vendor"
	FormAddCustomer    FormKind = "add_customer"
	FormRemoveVendor   FormKind = "remove_vendor"
	FormRemoveCustomer FormKind = "remove_customer"
)

// FormKinds lists every form in display order.
var FormKinds = []FormKind{FormStart, FormAddVendor, FormAddCustomer, FormRemoveVendor, FormRemoveCustomer}

// SystemStatusSink receives the engine state implied by a successful start or stop.
type SystemStatusSink interface {
	CommandApplied(state vo.SystemState)
}

// FailureRecorder keeps a trail of failed commands.
type FailureRecorder interface {
	RecordFailure(source string, err error)
}

// FormSnapshot is the render state of one form.
type FormSnapshot struct {
	State vo.FormState      `json:"state"`
	Error string            `json:"error,omitempty"`
	Field string            `json:"field,omitempty"`
	Draft map[string]string `json:"draft,omitempty"`
}

// Snapshot is the render state of the control panel.
type Snapshot struct {
	Message string                    `json:"message"`
	Error   string                    `json:"error,omitempty"`
	Forms   map[FormKind]FormSnapshot `json:"forms"`
}

type formSlot struct {
	machine *simulation.FormMachine
	draft   utils.Form
}

// Panel is the operator control panel: one state machine per form, a shared
// status message and the last command error.
type Panel struct {
	dispatcher *Dispatcher
	sink       SystemStatusSink
	recorder   FailureRecorder
	onChange   func()
	logger     logger.Interface

	mu      sync.Mutex
	forms   map[FormKind]*formSlot
	message string
	lastErr string
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

func WithRecorder(r FailureRecorder) PanelOption {
	return func(p *Panel) {
		p.recorder = r
	}
}

// WithOnChange registers a callback run after every state change, outside the lock.
func WithOnChange(fn func()) PanelOption {
	return func(p *Panel) {
		p.onChange = fn
	}
}

func WithPanelLogger(log logger.Interface) PanelOption {
	return func(p *Panel) {
		p.logger = log
	}
}

func NewPanel(d *Dispatcher, sink SystemStatusSink, opts ...PanelOption) *Panel {
	p := &Panel{
		dispatcher: d,
		sink:       sink,
		logger:     logger.NewNop(),
		forms:      make(map[FormKind]*formSlot, len(FormKinds)),
		message:    vo.NotStartedLabel,
	}
	for _, kind := range FormKinds {
		p.forms[kind] = &formSlot{machine: simulation.NewFormMachine()}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Panel) slot(kind FormKind) (*formSlot, error) {
	s, ok := p.forms[kind]
	if !ok {
		return nil, fmt.Errorf("unknown form %q", kind)
	}
	return s, nil
}

// Open shows a form.
func (p *Panel) Open(kind FormKind) error {
	return p.update(kind, func(s *formSlot) error { return s.machine.Open() })
}

// Cancel hides a visible form, keeping nothing of what was typed.
func (p *Panel) Cancel(kind FormKind) error {
	return p.update(kind, func(s *formSlot) error {
		if err := s.machine.Cancel(); err != nil {
			return err
		}
		s.draft = utils.Form{}
		return nil
	})
}

func (p *Panel) update(kind FormKind, fn func(*formSlot) error) error {
	p.mu.Lock()
	s, err := p.slot(kind)
	if err == nil {
		err = fn(s)
	}
	p.mu.Unlock()
	if err == nil {
		p.changed()
	}
	return err
}

// Submit validates the form's input and, if valid, sends the command. The form
// stays visible with the error on rejection or failure and closes on success.
func (p *Panel) Submit(ctx context.Context, kind FormKind, form utils.Form) (*Result, error) {
	return p.submit(ctx, kind, func() (*Request, error) { return p.prepare(kind, form) }, form)
}

// StartWithDefault submits the visible start form without a capacity.
func (p *Panel) StartWithDefault(ctx context.Context) (*Result, error) {
	return p.submit(ctx, FormStart, func() (*Request, error) {
		return p.dispatcher.PrepareStartDefault(), nil
	}, utils.Form{})
}

func (p *Panel) submit(ctx context.Context, kind FormKind, prepare func() (*Request, error), form utils.Form) (*Result, error) {
	p.mu.Lock()
	s, err := p.slot(kind)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if !s.machine.State().IsVisible() {
		state := s.machine.State()
		p.mu.Unlock()
		return nil, fmt.Errorf("form %s is %s", kind, state)
	}
	s.draft = form

	req, err := prepare()
	if err != nil {
		_ = s.machine.Reject(err)
		p.mu.Unlock()
		p.changed()
		return nil, err
	}
	if err := s.machine.Submit(); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.mu.Unlock()
	p.changed()

	res, err := p.dispatcher.Send(ctx, req)

	p.mu.Lock()
	if err != nil {
		_ = s.machine.Fail(err)
	} else {
		_ = s.machine.Succeed()
		s.draft = utils.Form{}
	}
	p.mu.Unlock()

	p.settle(req.Name, res, err)
	return res, err
}

// Run sends a command without going through a form. Outcomes still update the
// shared message and the system status.
func (p *Panel) Run(ctx context.Context, kind FormKind, form utils.Form) (*Result, error) {
	req, err := p.prepare(kind, form)
	if err != nil {
		return nil, err
	}
	return p.send(ctx, req)
}

// RunStartDefault starts the engine with its default capacity without a form.
func (p *Panel) RunStartDefault(ctx context.Context) (*Result, error) {
	return p.send(ctx, p.dispatcher.PrepareStartDefault())
}

// Stop stops the engine. It has no form.
func (p *Panel) Stop(ctx context.Context) (*Result, error) {
	return p.send(ctx, p.dispatcher.PrepareStop())
}

func (p *Panel) send(ctx context.Context, req *Request) (*Result, error) {
	res, err := p.dispatcher.Send(ctx, req)
	p.settle(req.Name, res, err)
	return res, err
}

// settle records a command outcome on the panel and forwards start/stop to the sink.
func (p *Panel) settle(name CommandName, res *Result, err error) {
	p.mu.Lock()
	if err != nil {
		p.lastErr = errorText(err)
	} else {
		p.message = res.Message
		p.lastErr = ""
	}
	p.mu.Unlock()

	if err != nil {
		if p.recorder != nil {
			p.recorder.RecordFailure("command."+string(name), err)
		}
	} else if p.sink != nil {
		switch name {
		case CommandStart:
			p.sink.CommandApplied(vo.StateRunning)
		case CommandStop:
			p.sink.CommandApplied(vo.StateStopped)
		}
	}
	p.changed()
}

func (p *Panel) prepare(kind FormKind, form utils.Form) (*Request, error) {
	switch kind {
	case FormStart:
		return p.dispatcher.PrepareStart(form)
	case FormAddVendor:
		return p.dispatcher.PrepareAddVendor(form)
	case FormAddCustomer:
		return p.dispatcher.PrepareAddCustomer(form)
	case FormRemoveVendor:
		return p.dispatcher.PrepareRemoveVendor(form)
	case FormRemoveCustomer:
		return p.dispatcher.PrepareRemoveCustomer(form)
	}
	return nil, fmt.Errorf("unknown form %q", kind)
}

// Message is the shared status line.
func (p *Panel) Message() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

// Snapshot returns the render state of every form.
func (p *Panel) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Message: p.message,
		Error:   p.lastErr,
		Forms:   make(map[FormKind]FormSnapshot, len(p.forms)),
	}
	for kind, s := range p.forms {
		fs := FormSnapshot{State: s.machine.State()}
		if err := s.machine.Err(); err != nil {
			fs.Error = errorText(err)
			if appErr := errors.GetAppError(err); appErr != nil {
				fs.Field = appErr.Field
			}
		}
		if s.draft.Len() > 0 {
			fs.Draft = make(map[string]string, s.draft.Len())
			for _, field := range s.draft.Fields() {
				fs.Draft[field.Name] = field.Value
			}
		}
		snap.Forms[kind] = fs
	}
	return snap
}

func (p *Panel) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}

// errorText renders an error for the operator without the type prefix.
func errorText(err error) string {
	if appErr := errors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
