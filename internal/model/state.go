package model

// Phase identifies which variant of ViewState is active.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ViewState is the value published by the state container. Items is only
// meaningful for PhaseSuccess and Detail only for PhaseError; use the
// constructors rather than building the struct by hand.
type ViewState struct {
	Phase  Phase
	Items  []ListItem
	Detail *string
}

// Loading is the transient state while a fetch cycle is running.
func Loading() ViewState {
	return ViewState{Phase: PhaseLoading}
}

// Success carries the transformed items of a completed cycle. A nil slice is
// normalised to an empty one so an empty result is still distinguishable
// from an error.
func Success(items []ListItem) ViewState {
	if items == nil {
		items = []ListItem{}
	}
	return ViewState{Phase: PhaseSuccess, Items: items}
}

// Failure is the terminal error state without any detail.
func Failure() ViewState {
	return ViewState{Phase: PhaseError}
}

// FailureWithDetail is the terminal error state with a detail message.
func FailureWithDetail(detail string) ViewState {
	return ViewState{Phase: PhaseError, Detail: &detail}
}

func (s ViewState) IsLoading() bool { return s.Phase == PhaseLoading }
func (s ViewState) IsSuccess() bool { return s.Phase == PhaseSuccess }
func (s ViewState) IsError() bool   { return s.Phase == PhaseError }

// IsTerminal reports whether the state ends a fetch cycle.
func (s ViewState) IsTerminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseError
}

// Equal compares the active variant and its payload.
func (s ViewState) Equal(other ViewState) bool {
	if s.Phase != other.Phase {
		return false
	}
	switch s.Phase {
	case PhaseSuccess:
		return ItemsEqual(s.Items, other.Items)
	case PhaseError:
		if s.Detail == nil || other.Detail == nil {
			return s.Detail == nil && other.Detail == nil
		}
		return *s.Detail == *other.Detail
	default:
		return true
	}
}
