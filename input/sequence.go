package input

import "time"

// GodModeCode is the classic up up down down left right left right b a.
var GodModeCode = []Action{
	ActionLookUp, ActionLookUp, ActionLookDown, ActionLookDown,
	ActionLookLeft, ActionLookRight, ActionLookLeft, ActionLookRight,
	ActionB, ActionA,
}

// DefaultSequenceTimeout is the idle time after which a partial sequence
// is forgotten.
const DefaultSequenceTimeout = 3 * time.Second

// Sequence recognizes a fixed series of presses. Only the most recent
// len(code) presses are kept, and a pause longer than Timeout starts over.
type Sequence struct {
	Code    []Action
	Timeout time.Duration

	recent   []Action
	lastSeen time.Duration
	started  bool
}

func NewSequence(code []Action, timeout time.Duration) *Sequence {
	return &Sequence{Code: code, Timeout: timeout}
}

// Feed records the presses of one frame at time now and reports whether they
// completed the code. A completed code is cleared.
func (s *Sequence) Feed(pressed []Action, now time.Duration) bool {
	matched := false
	for _, a := range pressed {
		if s.started && now-s.lastSeen > s.Timeout {
			s.recent = s.recent[:0]
		}
		s.started = true
		s.lastSeen = now

		s.recent = append(s.recent, a)
		if len(s.recent) > len(s.Code) {
			s.recent = s.recent[1:]
		}
		if s.complete() {
			s.recent = s.recent[:0]
			matched = true
		}
	}
	return matched
}

func (s *Sequence) complete() bool {
	if len(s.Code) == 0 || len(s.recent) != len(s.Code) {
		return false
	}
	for i, a := range s.Code {
		if s.recent[i] != a {
			return false
		}
	}
	return true
}

// Reset forgets any partial progress.
func (s *Sequence) Reset() {
	s.recent = s.recent[:0]
	s.started = false
}
