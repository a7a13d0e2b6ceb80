// Package rowstate drives the per-row edit and delete interactions of a
// resource list. Transitions are pure functions over model.ResourceRow; Table
// applies them to the collection owned by the list synchronizer.
package rowstate

import "github.com/Veraticus/expense-console/internal/model"

// Kind is the dominant interaction phase of a row.
type Kind int

// Row phases.
const (
	Rest Kind = iota
	Editing
	ConfirmingDelete
)

func (k Kind) String() string {
	switch k {
	case Editing:
		return "editing"
	case ConfirmingDelete:
		return "confirmingDelete"
	default:
		return "rest"
	}
}

// PhaseOf reports the dominant phase of r. The delete confirmation is
// independent of editing, so a row can be editing while it also waits for
// a delete confirmation; editing wins.
func PhaseOf(r model.ResourceRow) Kind {
	switch {
	case r.Editing():
		return Editing
	case r.ConfirmingDelete():
		return ConfirmingDelete
	default:
		return Rest
	}
}

// Event is an interaction applied to a single row.
type Event int

// Row events.
const (
	// EnterEdit unlocks the row and switches its edit control to save.
	EnterEdit Event = iota
	// Yield is sent to every other row when one row enters edit.
	Yield
	// Settle returns the row to rest keeping the displayed value, used while
	// a save is in flight.
	Settle
	// Committed makes the displayed value the committed one.
	Committed
	// RolledBack restores the displayed value from the committed one.
	RolledBack
	// Blur reverts an emptied input to the committed value.
	Blur
	// RequestDelete arms the delete confirmation.
	RequestDelete
	// DeleteFailed disarms the delete confirmation.
	DeleteFailed
)

// Transition applies ev to r and returns the new row. Only interaction
// fields and the displayed value change.
func Transition(r model.ResourceRow, ev Event) model.ResourceRow {
	switch ev {
	case EnterEdit:
		r.EditPhase = model.EditPhaseSave
		r.Locked = false

	case Yield:
		if r.Editing() {
			r.Input = r.Label
			r.InputStatement = r.HasStatement
			r.EditPhase = model.EditPhaseEdit
			r.Locked = true
		}

	case Settle:
		r = rest(r)

	case Committed:
		r.Label = r.Input
		r.HasStatement = r.InputStatement
		r = rest(r)

	case RolledBack:
		r.Input = r.Label
		r.InputStatement = r.HasStatement
		r = rest(r)

	case Blur:
		if r.Input == "" {
			r.Input = r.Label
		}

	case RequestDelete:
		r.DeletePhase = model.DeletePhaseConfirm

	case DeleteFailed:
		r.DeletePhase = model.DeletePhaseDelete
	}

	return r
}

func rest(r model.ResourceRow) model.ResourceRow {
	r.EditPhase = model.EditPhaseEdit
	r.DeletePhase = model.DeletePhaseDelete
	r.Locked = true
	return r
}
