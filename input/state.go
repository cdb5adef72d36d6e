// Package input turns device-agnostic input snapshots into camera motion.
// A host adapter fills a State each frame from whatever keyboard, mouse or
// gamepad it has; nothing here talks to devices.
package input

import (
	stdmath "math"

	"solidcast/math"
)

// StickDeadZone is the analog stick magnitude below which an axis reads zero.
const StickDeadZone = 0.15

// Action names a digital input.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionStrafeLeft
	ActionStrafeRight
	ActionJump
	ActionSprint
	ActionLookUp
	ActionLookDown
	ActionLookLeft
	ActionLookRight
	ActionA
	ActionB
	actionCount
)

var actionNames = [actionCount]string{
	ActionForward:     "forward",
	ActionBackward:    "backward",
	ActionStrafeLeft:  "left",
	ActionStrafeRight: "right",
	ActionJump:        "jump",
	ActionSprint:      "sprint",
	ActionLookUp:      "lookUp",
	ActionLookDown:    "lookDown",
	ActionLookLeft:    "lookLeft",
	ActionLookRight:   "lookRight",
	ActionA:           "a",
	ActionB:           "b",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a name such as "jump" back to its Action.
func ParseAction(name string) (Action, bool) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), true
		}
	}
	return 0, false
}

// State is one frame of input. Stick axes are in [-1, 1] with +y down, as
// gamepads report them; mouse deltas are in pixels.
type State struct {
	Forward     bool `json:"forward,omitempty"`
	Backward    bool `json:"backward,omitempty"`
	StrafeLeft  bool `json:"left,omitempty"`
	StrafeRight bool `json:"right,omitempty"`
	Jump        bool `json:"jump,omitempty"`
	Sprint      bool `json:"sprint,omitempty"`
	LookUp      bool `json:"lookUp,omitempty"`
	LookDown    bool `json:"lookDown,omitempty"`
	LookLeft    bool `json:"lookLeft,omitempty"`
	LookRight   bool `json:"lookRight,omitempty"`
	A           bool `json:"a,omitempty"`
	B           bool `json:"b,omitempty"`

	MoveX   float64 `json:"moveX,omitempty"`
	MoveY   float64 `json:"moveY,omitempty"`
	LookX   float64 `json:"lookX,omitempty"`
	LookY   float64 `json:"lookY,omitempty"`
	MouseDX float64 `json:"mouseDX,omitempty"`
	MouseDY float64 `json:"mouseDY,omitempty"`
}

// Down reports whether the digital input for a is held.
func (s State) Down(a Action) bool {
	switch a {
	case ActionForward:
		return s.Forward
	case ActionBackward:
		return s.Backward
	case ActionStrafeLeft:
		return s.StrafeLeft
	case ActionStrafeRight:
		return s.StrafeRight
	case ActionJump:
		return s.Jump
	case ActionSprint:
		return s.Sprint
	case ActionLookUp:
		return s.LookUp
	case ActionLookDown:
		return s.LookDown
	case ActionLookLeft:
		return s.LookLeft
	case ActionLookRight:
		return s.LookRight
	case ActionA:
		return s.A
	case ActionB:
		return s.B
	}
	return false
}

// Axes folds keys and the movement stick into forward and strafe amounts in
// [-1, 1]. Stick input inside StickDeadZone is ignored.
func (s State) Axes() (forward, strafe float64) {
	if s.Forward {
		forward++
	}
	if s.Backward {
		forward--
	}
	if s.StrafeRight {
		strafe++
	}
	if s.StrafeLeft {
		strafe--
	}
	forward -= deadZone(s.MoveY)
	strafe += deadZone(s.MoveX)
	return math.Clamp(forward, -1, 1), math.Clamp(strafe, -1, 1)
}

// StickActive reports whether either stick is outside the dead zone.
func (s State) StickActive() bool {
	return deadZone(s.MoveX) != 0 || deadZone(s.MoveY) != 0 || deadZone(s.LookX) != 0 || deadZone(s.LookY) != 0
}

func deadZone(v float64) float64 {
	if stdmath.Abs(v) <= StickDeadZone {
		return 0
	}
	return v
}
