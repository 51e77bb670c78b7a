// Package tui renders the operator dashboard in the terminal with bubbletea.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"ticketdash/internal/application/control"
	"ticketdash/internal/interfaces/dashboard"
	"ticketdash/internal/shared/utils"
)

// Source provides panel state and signals when it changes.
type Source interface {
	Snapshot() dashboard.Snapshot
	Changes() <-chan struct{}
}

// Controller runs operator commands. It is satisfied by *control.Panel.
type Controller interface {
	Open(kind control.FormKind) error
	Cancel(kind control.FormKind) error
	Submit(ctx context.Context, kind control.FormKind, form utils.Form) (*control.Result, error)
	StartWithDefault(ctx context.Context) (*control.Result, error)
	Stop(ctx context.Context) (*control.Result, error)
}

// changedMsg is delivered when the source signals a change.
type changedMsg struct{}

// commandDoneMsg is sent when an asynchronous command returns.
type commandDoneMsg struct {
	kind   control.FormKind
	result *control.Result
	err    error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx        context.Context
	source     Source
	controller Controller

	keys    KeyMap
	theme   Theme
	help    help.Model
	printer *message.Printer

	snapshot dashboard.Snapshot
	editor   *formEditor
	// notice shows errors that did not come from a form, such as a failed open.
	notice string

	width  int
	height int
}

func NewModel(ctx context.Context, source Source, controller Controller) Model {
	return Model{
		ctx:        ctx,
		source:     source,
		controller: controller,
		keys:       DefaultKeyMap,
		theme:      DefaultTheme,
		help:       help.New(),
		printer:    message.NewPrinter(language.English),
		snapshot:   source.Snapshot(),
	}
}

// Run starts the dashboard program and blocks until the operator quits or ctx ends.
func Run(ctx context.Context, source Source, controller Controller) error {
	program := tea.NewProgram(NewModel(ctx, source, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return listenForChanges(model.source.Changes())
}

// listenForChanges returns a tea.Cmd that blocks until the source signals.
func listenForChanges(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		model.snapshot = model.source.Snapshot()
		return model, listenForChanges(model.source.Changes())

	case commandDoneMsg:
		model.snapshot = model.source.Snapshot()
		if msg.err == nil && model.editor != nil && model.editor.kind == msg.kind {
			model.editor = nil
		}
		return model, nil

	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.help.Width = msg.Width
		return model, nil

	case tea.KeyMsg:
		if key.Matches(msg, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		if model.editor != nil {
			return model.handleFormKeys(msg)
		}
		return model.handlePanelKeys(msg)
	}

	if model.editor != nil {
		return model, model.editor.Update(msg)
	}
	return model, nil
}

func (model Model) handlePanelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(msg, model.keys.Stop):
		model.notice = ""
		return model, model.run("", model.controller.Stop)
	case key.Matches(msg, model.keys.Start):
		return model.openForm(control.FormStart)
	case key.Matches(msg, model.keys.AddVendor):
		return model.openForm(control.FormAddVendor)
	case key.Matches(msg, model.keys.AddCustomer):
		return model.openForm(control.FormAddCustomer)
	case key.Matches(msg, model.keys.RemoveVendor):
		return model.openForm(control.FormRemoveVendor)
	case key.Matches(msg, model.keys.RemoveCustomer):
		return model.openForm(control.FormRemoveCustomer)
	}
	return model, nil
}

func (model Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editor := model.editor
	// A submit runs off the update loop, so read the live state.
	model.snapshot = model.source.Snapshot()
	submitting := model.formState(editor.kind).State.IsSubmitting()

	switch {
	case key.Matches(msg, model.keys.Cancel):
		if submitting {
			return model, nil
		}
		if err := model.controller.Cancel(editor.kind); err != nil {
			model.notice = err.Error()
			return model, nil
		}
		model.notice = ""
		model.editor = nil
		model.snapshot = model.source.Snapshot()
		return model, nil
	case key.Matches(msg, model.keys.NextField):
		return model, editor.move(1)
	case key.Matches(msg, model.keys.PrevField):
		return model, editor.move(-1)
	case key.Matches(msg, model.keys.Submit):
		if submitting {
			return model, nil
		}
		kind, form := editor.kind, editor.Form()
		return model, model.run(kind, func(ctx context.Context) (*control.Result, error) {
			return model.controller.Submit(ctx, kind, form)
		})
	case key.Matches(msg, model.keys.StartDefault) && editor.kind == control.FormStart:
		if submitting {
			return model, nil
		}
		return model, model.run(control.FormStart, model.controller.StartWithDefault)
	}
	return model, editor.Update(msg)
}

// openForm shows a form, closing any other open one first. A form the panel
// still holds open, for example one whose submission failed after its editor
// was closed, gets an editor again with the values last submitted.
func (model Model) openForm(kind control.FormKind) (tea.Model, tea.Cmd) {
	model.notice = ""
	if model.editor != nil {
		_ = model.controller.Cancel(model.editor.kind)
		model.editor = nil
	}

	state := model.source.Snapshot().Control.Forms[kind].State
	if !state.IsVisible() && !state.IsSubmitting() {
		if err := model.controller.Open(kind); err != nil {
			model.notice = err.Error()
			model.snapshot = model.source.Snapshot()
			return model, nil
		}
	}

	model.snapshot = model.source.Snapshot()
	editor := newFormEditor(kind)
	for name, value := range model.formState(kind).Draft {
		editor.SetValue(name, value)
	}
	model.editor = editor
	return model, textinput.Blink
}

// run executes a command off the update loop.
func (model Model) run(kind control.FormKind, fn func(context.Context) (*control.Result, error)) tea.Cmd {
	ctx := model.ctx
	return func() tea.Msg {
		result, err := fn(ctx)
		return commandDoneMsg{kind: kind, result: result, err: err}
	}
}

func (model Model) formState(kind control.FormKind) control.FormSnapshot {
	return model.snapshot.Control.Forms[kind]
}
