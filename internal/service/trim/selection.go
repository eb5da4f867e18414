package trim

import "time"

// MinGap is the minimum separation between the trim bounds,
// so a selection can never become empty or inverted.
const MinGap = 100 * time.Millisecond

// Selection is a sub-range of a clip. The invariant
// 0 <= start < end <= duration holds after any sequence
// of adjustments: each bound clamps against the other.
type Selection struct {
	start    time.Duration
	end      time.Duration
	duration time.Duration
}

// NewSelection covers the whole clip. Duration must be
// at least MinGap.
func NewSelection(duration time.Duration) Selection {
	return Selection{
		start:    0,
		end:      duration,
		duration: duration,
	}
}

// SetStart moves the left bound, clamped to [0, end-MinGap].
func (s *Selection) SetStart(v time.Duration) {
	if v > s.end-MinGap {
		v = s.end - MinGap
	}
	if v < 0 {
		v = 0
	}
	s.start = v
}

// SetEnd moves the right bound, clamped to [start+MinGap, duration].
func (s *Selection) SetEnd(v time.Duration) {
	if v < s.start+MinGap {
		v = s.start + MinGap
	}
	if v > s.duration {
		v = s.duration
	}
	s.end = v
}

func (s Selection) Start() time.Duration {
	return s.start
}

func (s Selection) End() time.Duration {
	return s.end
}

func (s Selection) Duration() time.Duration {
	return s.duration
}

// Len returns the selected range length.
func (s Selection) Len() time.Duration {
	return s.end - s.start
}
