package domain

// RosterSlot is one selected player within a roster.
type RosterSlot struct {
	Player  Player
	Captain bool // captain's scoring events count double
}

// Roster is the fixed team configuration simulated by a run batch.
// Immutable for the duration of a batch; trials never mutate it.
type Roster struct {
	Name  string
	Slots []RosterSlot
}

// Captain returns the captain slot index, or -1 if none is set.
func (r *Roster) Captain() int {
	for i, s := range r.Slots {
		if s.Captain {
			return i
		}
	}
	return -1
}
