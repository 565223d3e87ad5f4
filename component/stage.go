package component

// Stage is a point in a component's lifecycle. Stages advance
// monotonically within a single phase: a component leaves a stage only
// into that phase's target stage, possibly via cancellation.
type Stage int

const (
	// StageNull is the initial stage, and the stage every component
	// returns to once ClearComponents has destroyed its instance.
	StageNull Stage = iota

	// StageCreateCalled is entered the instant a factory's returned
	// instance is stored in the component's slot.
	StageCreateCalled

	// StageRunning is entered once OnAllComponentsLoaded has invoked the
	// component's corresponding lifecycle method.
	StageRunning

	// StageReadyForClearing is entered once OnAllComponentsAreStopping has
	// invoked the component's corresponding lifecycle method.
	StageReadyForClearing
)

func (s Stage) String() string {
	switch s {
	case StageNull:
		return "null"
	case StageCreateCalled:
		return "create_called"
	case StageRunning:
		return "running"
	case StageReadyForClearing:
		return "ready_for_clearing"
	default:
		return "unknown"
	}
}
