// Package pipeline models one recording session as an explicit
// state machine: record -> trim -> upload -> done. Transitions
// are pure functions of (state, event); back-events discard
// downstream payloads so exactly one blob is current per stage.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/avoronin/clipcast/internal/models"
)

type Stage int

const (
	StageRecord Stage = iota
	StageTrim
	StageUpload
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageRecord:
		return "record"
	case StageTrim:
		return "trim"
	case StageUpload:
		return "upload"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// State is one session snapshot. Payload fields are only set
// for the stages that own them.
type State struct {
	Stage    Stage
	Recorded models.Blob
	Trimmed  models.Blob
	ShareURL string
}

// Initial returns a fresh session waiting for capture.
func Initial() State {
	return State{Stage: StageRecord}
}

// Current returns the blob owned by the present stage.
func (s State) Current() models.Blob {
	switch s.Stage {
	case StageTrim:
		return s.Recorded
	case StageUpload:
		return s.Trimmed
	}
	return models.Blob{}
}

type Event interface {
	isEvent()
	name() string
}

// RecordingDone carries the captured blob out of the record stage.
type RecordingDone struct{ Blob models.Blob }

// TrimDone carries the trimmed (or skipped-through) blob.
type TrimDone struct{ Blob models.Blob }

// TrimCancelled returns to capture, discarding the recording.
type TrimCancelled struct{}

// UploadDone carries the share link.
type UploadDone struct{ URL string }

// BackToTrim discards the trimmed blob and re-enters trim.
type BackToTrim struct{}

// Reset discards the finished session.
type Reset struct{}

func (RecordingDone) isEvent() {}
func (TrimDone) isEvent()      {}
func (TrimCancelled) isEvent() {}
func (UploadDone) isEvent()    {}
func (BackToTrim) isEvent()    {}
func (Reset) isEvent()         {}

func (RecordingDone) name() string { return "recording done" }
func (TrimDone) name() string      { return "trim done" }
func (TrimCancelled) name() string { return "trim cancelled" }
func (UploadDone) name() string    { return "upload done" }
func (BackToTrim) name() string    { return "back to trim" }
func (Reset) name() string         { return "reset" }

var ErrBadTransition = errors.New("bad transition")

// Next applies an event to a state. The input state is never
// mutated; invalid pairs return the state unchanged with
// ErrBadTransition.
func Next(s State, e Event) (State, error) {
	switch e := e.(type) {
	case RecordingDone:
		if s.Stage != StageRecord {
			return s, badTransition(s, e)
		}
		return State{Stage: StageTrim, Recorded: e.Blob}, nil

	case TrimDone:
		if s.Stage != StageTrim {
			return s, badTransition(s, e)
		}
		return State{Stage: StageUpload, Recorded: s.Recorded, Trimmed: e.Blob}, nil

	case TrimCancelled:
		if s.Stage != StageTrim {
			return s, badTransition(s, e)
		}
		return Initial(), nil

	case UploadDone:
		if s.Stage != StageUpload {
			return s, badTransition(s, e)
		}
		return State{Stage: StageDone, ShareURL: e.URL}, nil

	case BackToTrim:
		if s.Stage != StageUpload {
			return s, badTransition(s, e)
		}
		return State{Stage: StageTrim, Recorded: s.Recorded}, nil

	case Reset:
		if s.Stage != StageDone {
			return s, badTransition(s, e)
		}
		return Initial(), nil
	}

	return s, badTransition(s, e)
}

func badTransition(s State, e Event) error {
	return fmt.Errorf("%w: %s in stage %s", ErrBadTransition, e.name(), s.Stage)
}
