package pipeline

import (
	"fmt"
	"strings"
)

type State string

const (
	StateDrafting          State = "drafting"
	StateValidating        State = "validating"
	StateSynthesizingAudio State = "synthesizing_audio"
	StateRenderingFrames   State = "rendering_frames"
	StateAssemblingVideo   State = "assembling_video"
	StatePersisting        State = "persisting"
	StateDone              State = "done"
	StateFailed            State = "failed"
)

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// canFail lists the states a run may abort from. Media stages degrade instead.
func (s State) canFail() bool {
	switch s {
	case StateDrafting, StateValidating, StatePersisting:
		return true
	}
	return false
}

// RunError is returned by Run when a run ends in StateFailed.
type RunError struct {
	State State
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("lesson run failed while %s: %v", e.State, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// ValidationError carries the validator's messages for a rejected draft.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "script failed validation"
	}
	return "script failed validation: " + strings.Join(e.Errors, "; ")
}
