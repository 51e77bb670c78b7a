package valueobjects

import "strings"

type SystemState string

const (
	StateNotStarted SystemState = "not_started"
	StateRunning    SystemState = "running"
	StateStopped    SystemState = "stopped"
)

// NotStartedLabel is shown whenever the backend cannot be reached.
const NotStartedLabel = "System not started"

var systemStateLabels = map[SystemState]string{
	StateNotStarted: NotStartedLabel,
	StateRunning:    "Running",
	StateStopped:    "Stopped",
}

func (s SystemState) String() string {
	return string(s)
}

func (s SystemState) IsValid() bool {
	_, ok := systemStateLabels[s]
	return ok
}

// Label is the operator-facing text for the state.
func (s SystemState) Label() string {
	if label, ok := systemStateLabels[s]; ok {
		return label
	}
	return NotStartedLabel
}

func (s SystemState) IsRunning() bool {
	return s == StateRunning
}

func (s SystemState) IsStopped() bool {
	return s == StateStopped
}

func (s SystemState) IsNotStarted() bool {
	return s == StateNotStarted
}

// ParseSystemState classifies the backend's status message. Any non-empty message
// other than a stop or not-started notice means the engine is running.
func ParseSystemState(message string) SystemState {
	normalized := strings.ToLower(strings.TrimSpace(message))
	switch {
	case normalized == "":
		return StateNotStarted
	case strings.Contains(normalized, "not started"):
		return StateNotStarted
	case strings.Contains(normalized, "stopped"):
		return StateStopped
	default:
		return StateRunning
	}
}
