package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ticketdash/internal/application/control"
	"ticketdash/internal/application/panels"
	"ticketdash/internal/domain/simulation"
)

const (
	defaultWidth = 100
	// logLines is how many of the newest log lines the log panel shows.
	logLines = 8
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// View implements tea.Model.
func (model Model) View() string {
	width := model.width
	if width <= 0 {
		width = defaultWidth
	}
	half := width/2 - 1

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		model.box("Inventory", model.inventoryView(), half),
		model.box("Sales", model.salesView(half-4), half),
	)

	sections := []string{
		model.headerView(width),
		top,
		model.box("Logs", model.logsView(), width-2),
		model.box("Control", model.controlView(width-6), width-2),
		model.helpView(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (model Model) box(title, body string, width int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 1).
		Width(width).
		Render(heading + "\n" + body)
}

func (model Model) headerView(width int) string {
	header := model.snapshot.Header
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground).Render("Ticket Dashboard")
	status := lipgloss.NewStyle().Bold(true).Foreground(model.theme.StatusColor(header.Status.State)).
		Render(header.Status.Label())
	counts := lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(
		model.printer.Sprintf("Vendors: %d  Customers: %d", header.ActiveVendors, header.ActiveCustomers))

	line := title + "  " + status + "  " + counts
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(line)
}

func (model Model) inventoryView() string {
	inventory := model.snapshot.Inventory
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	label := faint.Render(inventory.Label)
	if inventory.Label == panels.ConnectedLabel {
		label = lipgloss.NewStyle().Foreground(model.theme.SuccessText).Render(inventory.Label)
	}
	if !inventory.Received {
		return label
	}

	tickets := inventory.Tickets
	lines := []string{
		label,
		model.printer.Sprintf("Tickets available: %d", tickets.CurrentSize),
		model.printer.Sprintf("Total released:    %d", tickets.TotalTicketsAdded),
		"Max capacity:      " + model.capacityText(tickets),
	}
	return strings.Join(lines, "\n")
}

func (model Model) capacityText(tickets simulation.TicketStatus) string {
	if tickets.DefaultCapacity() {
		return "default"
	}
	return model.printer.Sprintf("%d", tickets.MaxCapacity)
}

func (model Model) salesView(width int) string {
	sales := model.snapshot.Sales
	if sales.Error != "" {
		return lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(sales.Error)
	}
	if len(sales.Samples) == 0 {
		return lipgloss.NewStyle().Foreground(model.theme.FaintText).Render("Waiting for sales data")
	}

	latest := sales.Samples[len(sales.Samples)-1]
	lines := []string{
		model.printer.Sprintf("Ticket sales: %.2f", latest.TicketSales),
		lipgloss.NewStyle().Foreground(model.theme.ChartColor).Render(sparkline(sales.Samples, width)),
		lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(
			"Updated " + latest.CapturedAt.Format("15:04:05")),
	}
	return strings.Join(lines, "\n")
}

// sparkline draws the newest samples that fit in width, scaled between the
// smallest and largest of them.
func sparkline(samples []simulation.SalesSample, width int) string {
	if width <= 0 || len(samples) == 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	lo, hi := samples[0].TicketSales, samples[0].TicketSales
	for _, s := range samples[1:] {
		lo = min(lo, s.TicketSales)
		hi = max(hi, s.TicketSales)
	}

	top := len(sparkBlocks) - 1
	out := make([]rune, len(samples))
	for i, s := range samples {
		level := 0
		if hi > lo {
			level = int((s.TicketSales - lo) / (hi - lo) * float64(top))
		}
		out[i] = sparkBlocks[level]
	}
	return string(out)
}

func (model Model) logsView() string {
	logs := model.snapshot.Logs
	var lines []string
	if logs.Error != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(logs.Error))
	}
	if len(logs.Entries) == 0 {
		if logs.Error == "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.FaintText).Render(panels.NoLogsMessage))
		}
		return strings.Join(lines, "\n")
	}

	entries := logs.Entries
	if len(entries) > logLines {
		entries = entries[len(entries)-logLines:]
	}
	for _, entry := range entries {
		lines = append(lines, entry.Line)
	}
	return strings.Join(lines, "\n")
}

func (model Model) controlView(width int) string {
	ctl := model.snapshot.Control
	lines := []string{ctl.Message}
	if ctl.Error != "" && model.editor == nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(ctl.Error))
	}
	if model.notice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(model.theme.ErrorText).Render(model.notice))
	}
	if model.editor != nil {
		lines = append(lines, "", model.editor.View(model.theme, model.formState(model.editor.kind), width))
	}
	return strings.Join(lines, "\n")
}

func (model Model) helpView() string {
	if model.editor != nil {
		return model.help.View(formHelp{keys: model.keys, withDefault: model.editor.kind == control.FormStart})
	}
	return model.help.View(model.keys)
}
