package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/application/control"
	"ticketdash/internal/domain/simulation"
	"ticketdash/internal/shared/utils"
)

type fieldSpec struct {
	name    string
	label   string
	numeric bool
}

type formSpec struct {
	title  string
	fields []fieldSpec
}

var formSpecs = map[control.FormKind]formSpec{
	control.FormStart: {
		title: "Start system",
		fields: []fieldSpec{
			{simulation.FieldMaxCapacity, "Max capacity", true},
		},
	},
	control.FormAddVendor: {
		title: "Add vendor",
		fields: []fieldSpec{
			{simulation.FieldName, "Name", false},
			{simulation.FieldEventName, "Event name", false},
			{simulation.FieldTicketsPerRelease, "Tickets per release", true},
			{simulation.FieldReleaseInterval, "Release interval", true},
			{simulation.FieldTotalTickets, "Total tickets", true},
			{simulation.FieldPrice, "Price", true},
		},
	},
	control.FormAddCustomer: {
		title: "Add customer",
		fields: []fieldSpec{
			{simulation.FieldName, "Name", false},
			{simulation.FieldRetrievalInterval, "Retrieval interval", true},
			{simulation.FieldQuantity, "Quantity", true},
		},
	},
	control.FormRemoveVendor: {
		title:  "Remove vendor",
		fields: []fieldSpec{{simulation.FieldName, "Vendor name", false}},
	},
	control.FormRemoveCustomer: {
		title:  "Remove customer",
		fields: []fieldSpec{{simulation.FieldName, "Customer name", false}},
	},
}

// formEditor holds the text inputs of the open form. Values stay raw strings;
// validation happens when the form is submitted.
type formEditor struct {
	kind   control.FormKind
	spec   formSpec
	inputs []textinput.Model
	focus  int
}

func newFormEditor(kind control.FormKind) *formEditor {
	spec := formSpecs[kind]
	editor := &formEditor{
		kind:   kind,
		spec:   spec,
		inputs: make([]textinput.Model, len(spec.fields)),
	}
	for i, field := range spec.fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.label
		input.CharLimit = 64
		editor.inputs[i] = input
	}
	editor.inputs[0].Focus()
	return editor
}

func (editor *formEditor) Update(message tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	editor.inputs[editor.focus], cmd = editor.inputs[editor.focus].Update(message)
	return cmd
}

func (editor *formEditor) move(delta int) tea.Cmd {
	editor.inputs[editor.focus].Blur()
	n := len(editor.inputs)
	editor.focus = ((editor.focus+delta)%n + n) % n
	return editor.inputs[editor.focus].Focus()
}

// SetValue fills a field by name. Unknown names are ignored.
func (editor *formEditor) SetValue(name, value string) {
	for i, field := range editor.spec.fields {
		if field.name == name {
			editor.inputs[i].SetValue(value)
		}
	}
}

// Form returns the entered values in field order.
func (editor *formEditor) Form() utils.Form {
	fields := make([]utils.Field, len(editor.spec.fields))
	for i, spec := range editor.spec.fields {
		if spec.numeric {
			fields[i] = utils.Numeric(spec.name, editor.inputs[i].Value())
		} else {
			fields[i] = utils.Text(spec.name, editor.inputs[i].Value())
		}
	}
	return utils.NewForm(fields...)
}

func (editor *formEditor) View(theme Theme, state control.FormSnapshot, width int) string {
	labelWidth := 0
	for _, field := range editor.spec.fields {
		labelWidth = max(labelWidth, len(field.label))
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	label := lipgloss.NewStyle().Width(labelWidth + 2).Foreground(theme.FaintText)
	invalid := lipgloss.NewStyle().Width(labelWidth + 2).Foreground(theme.ErrorText)

	var b strings.Builder
	b.WriteString(title.Render(editor.spec.title))
	if state.State.IsSubmitting() {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FaintText).Render("  sending..."))
	}
	b.WriteString("\n")
	for i, field := range editor.spec.fields {
		style := label
		if state.Field == field.name {
			style = invalid
		}
		b.WriteString(style.Render(field.label))
		b.WriteString(editor.inputs[i].View())
		b.WriteString("\n")
	}
	if state.Error != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Width(width).Render(state.Error))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
