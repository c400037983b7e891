package session

// Mode is the interaction state of the modeller.
type Mode int

const (
	Mode0 Mode = iota // idle
	Mode1             // major-axis drag
	Mode2             // minor-axis drag
	Mode3             // spine / cross-section accumulation
)

func (m Mode) String() string {
	switch m {
	case Mode0:
		return "mode_0"
	case Mode1:
		return "mode_1"
	case Mode2:
		return "mode_2"
	case Mode3:
		return "mode_3"
	}
	return "mode_?"
}
