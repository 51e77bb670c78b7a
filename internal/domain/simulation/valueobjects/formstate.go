package valueobjects

import "fmt"

type FormState string

const (
	FormHidden     FormState = "hidden"
	FormVisible    FormState = "visible"
	FormSubmitting FormState = "submitting"
)

var formStateTransitions = map[FormState][]FormState{
	FormHidden: {
		FormVisible,
	},
	FormVisible: {
		FormHidden,
		FormSubmitting,
	},
	FormSubmitting: {
		FormHidden,
		FormVisible,
	},
}

func (fs FormState) String() string {
	return string(fs)
}

func (fs FormState) IsValid() bool {
	_, ok := formStateTransitions[fs]
	return ok
}

func (fs FormState) CanTransitionTo(next FormState) bool {
	for _, allowed := range formStateTransitions[fs] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (fs FormState) IsHidden() bool {
	return fs == FormHidden
}

func (fs FormState) IsVisible() bool {
	return fs == FormVisible
}

func (fs FormState) IsSubmitting() bool {
	return fs == FormSubmitting
}

func NewFormState(s string) (FormState, error) {
	fs := FormState(s)
	if !fs.IsValid() {
		return "", fmt.Errorf("invalid form state: %s", s)
	}
	return fs, nil
}
