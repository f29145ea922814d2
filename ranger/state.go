package ranger

// A State is where a *Ranger is in its lifecycle:
//
//	Stopped => Starting => Running => Stopping => Stopped
type State int

const (
	Stopped State = iota
	Starting
	Running
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "stopped"
	}
}
