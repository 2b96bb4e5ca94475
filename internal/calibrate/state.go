package calibrate

// State is a stage of the calibration sequence.
type State int

const (
	Idle State = iota
	Waiting
	PreRefreshStarted
	PreRefreshOk
	MassRefreshStarted
	MassRefreshOk
	NeutralPoseStarted
	NeutralPoseOk
	Done
)

var stateNames = [...]string{
	"idle",
	"waiting",
	"pre-refresh-started",
	"pre-refresh-ok",
	"mass-refresh-started",
	"mass-refresh-ok",
	"neutral-pose-started",
	"neutral-pose-ok",
	"done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
