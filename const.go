package pinns

// Phase is a step of a pin run
type Phase uint16

const (
	PhaseValidate Phase = iota + 10
	PhaseUnshare
	PhaseBind
)

var Phase2Names = map[Phase]string{
	PhaseValidate: "validate",
	PhaseUnshare:  "unshare",
	PhaseBind:     "bind",
}

func (p Phase) String() string {
	if name, exists := Phase2Names[p]; exists {
		return name
	}
	return "unknown"
}
