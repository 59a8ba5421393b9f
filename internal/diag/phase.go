package diag

// Phase identifies the compiler stage that produced a diagnostic.
type Phase uint8

const (
	PhaseLex Phase = iota
	PhaseParse
	PhaseLower
	PhaseLink
	PhaseGenerate
)

func (p Phase) String() string {
	switch p {
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseLower:
		return "lower"
	case PhaseLink:
		return "link"
	case PhaseGenerate:
		return "generate"
	}
	return "unknown"
}
