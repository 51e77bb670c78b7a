package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vo "ticketdash/internal/domain/simulation/valueobjects"
	"ticketdash/internal/shared/utils"
)

func TestTicketStatusValidate(t *testing.T) {
	tests := []struct {
		name    string
		status  TicketStatus
		wantErr bool
	}{
		{"within capacity", TicketStatus{CurrentSize: 10, MaxCapacity: 100}, false},
		{"full", TicketStatus{CurrentSize: 100, MaxCapacity: 100}, false},
		{"default capacity is never interpreted", TicketStatus{CurrentSize: 5000, MaxCapacity: 0}, false},
		{"over capacity", TicketStatus{CurrentSize: 101, MaxCapacity: 100}, true},
		{"negative vendors", TicketStatus{ActiveVendors: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.True(t, TicketStatus{}.DefaultCapacity())
}

func TestSystemStatus(t *testing.T) {
	assert.Equal(t, "System not started", NotStartedStatus().Label())

	running := NewSystemStatus("Running")
	assert.Equal(t, vo.StateRunning, running.State)
	assert.Equal(t, "Running", running.Label())

	assert.Equal(t, "Stopped", SystemStatus{State: vo.StateStopped}.Label())
}

func TestVendorForm(t *testing.T) {
	v := Vendor{Name: "V1", EventName: "Show", TicketsPerRelease: 10, ReleaseInterval: 2, TotalTickets: 50, Price: 25.5}

	form := v.Form()
	fields := form.Fields()

	assert.Len(t, fields, 6)
	assert.Equal(t, FieldName, fields[0].Name)
	assert.Equal(t, utils.FieldText, fields[1].Kind)
	assert.Equal(t, "25.5", form.Get(FieldPrice))
	assert.Nil(t, utils.ValidateForm(form))
}

func TestCustomerFormZeroQuantity(t *testing.T) {
	form := Customer{Name: "C1", RetrievalInterval: 3, Quantity: 0}.Form()

	err := utils.ValidateForm(form)

	if assert.NotNil(t, err) {
		assert.Equal(t, FieldQuantity, err.Field)
	}
}

func TestLogEntries(t *testing.T) {
	assert.Equal(t, []LogEntry{{Line: "a"}, {Line: "b"}}, LogEntries([]string{"a", "b"}))
	assert.Empty(t, LogEntries(nil))
}
