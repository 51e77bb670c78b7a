package simulation

import (
	"fmt"

	vo "ticketdash/internal/domain/simulation/valueobjects"
)

// FormMachine tracks one command form. Hidden --open--> Visible --submit-->
// Submitting --success--> Hidden; a failed submission returns to Visible with the
// error kept. It is not safe for concurrent use.
type FormMachine struct {
	state   vo.FormState
	lastErr error
}

// NewFormMachine returns a machine in the Hidden state.
func NewFormMachine() *FormMachine {
	return &FormMachine{state: vo.FormHidden}
}

func (m *FormMachine) State() vo.FormState {
	if m.state == "" {
		return vo.FormHidden
	}
	return m.state
}

// Err is the error of the last rejected or failed submission.
func (m *FormMachine) Err() error {
	return m.lastErr
}

func (m *FormMachine) transition(next vo.FormState) error {
	current := m.State()
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("form cannot go from %s to %s", current, next)
	}
	m.state = next
	return nil
}

// Open shows the form with no error.
func (m *FormMachine) Open() error {
	if err := m.transition(vo.FormVisible); err != nil {
		return err
	}
	m.lastErr = nil
	return nil
}

// Cancel hides a visible form.
func (m *FormMachine) Cancel() error {
	if !m.State().IsVisible() {
		return fmt.Errorf("form cannot be cancelled while %s", m.State())
	}
	return m.transition(vo.FormHidden)
}

// Reject keeps a visible form visible and records why its input was refused.
func (m *FormMachine) Reject(err error) error {
	if !m.State().IsVisible() {
		return fmt.Errorf("form cannot reject input while %s", m.State())
	}
	m.lastErr = err
	return nil
}

// Submit moves a visible form to Submitting.
func (m *FormMachine) Submit() error {
	if err := m.transition(vo.FormSubmitting); err != nil {
		return err
	}
	m.lastErr = nil
	return nil
}

// Succeed closes a submitting form.
func (m *FormMachine) Succeed() error {
	if !m.State().IsSubmitting() {
		return fmt.Errorf("form cannot succeed while %s", m.State())
	}
	return m.transition(vo.FormHidden)
}

// Fail returns a submitting form to Visible and keeps err.
func (m *FormMachine) Fail(err error) error {
	if !m.State().IsSubmitting() {
		return fmt.Errorf("form cannot fail while %s", m.State())
	}
	if err := m.transition(vo.FormVisible); err != nil {
		return err
	}
	m.lastErr = err
	return nil
}
