package input

// Tracker remembers the previous frame so callers can tell a fresh press
// from a held key.
type Tracker struct {
	current  State
	previous State
}

// Update should be called once per frame with the latest snapshot.
func (t *Tracker) Update(s State) {
	t.previous = t.current
	t.current = s
}

func (t *Tracker) State() State { return t.current }

func (t *Tracker) Down(a Action) bool {
	return t.current.Down(a)
}

// Pressed reports a key that went down this frame.
func (t *Tracker) Pressed(a Action) bool {
	return t.current.Down(a) && !t.previous.Down(a)
}

// Released reports a key that went up this frame.
func (t *Tracker) Released(a Action) bool {
	return !t.current.Down(a) && t.previous.Down(a)
}

// PressedActions lists every action pressed this frame in Action order.
func (t *Tracker) PressedActions() []Action {
	var out []Action
	for a := Action(0); a < actionCount; a++ {
		if t.Pressed(a) {
			out = append(out, a)
		}
	}
	return out
}
