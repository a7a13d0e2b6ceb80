package model

// EditPhase is the state of a row's edit control.
type EditPhase string

// Edit phases.
const (
	EditPhaseEdit EditPhase = "edit"
	EditPhaseSave EditPhase = "save"
)

// DeletePhase is the state of a row's delete control.
type DeletePhase string

// Delete phases.
const (
	DeletePhaseDelete  DeletePhase = "delete"
	DeletePhaseConfirm DeletePhase = "confirm"
)

// ResourceRow is the view model of one rendered entity: projected data plus
// transient interaction state.
type ResourceRow struct {
	ID          string
	Label       string // last committed label
	LabelField  string
	Input       string // displayed label, possibly uncommitted
	CreatedAt   string
	UpdatedAt   string
	EditPhase   EditPhase
	DeletePhase DeletePhase

	// Expense projection.
	FormattedAmount string
	Date            string
	DueDate         string
	Category        string
	PaymentType     string
	Bank            string
	Store           string
	Type            ExpenseType
	Amount          int64

	HasStatement   bool
	InputStatement bool
	Locked         bool
}

// NewRow returns a row in the rest state: locked, edit and delete phases.
func NewRow(id, label, labelField string) ResourceRow {
	return ResourceRow{
		ID:          id,
		Label:       label,
		LabelField:  labelField,
		Input:       label,
		EditPhase:   EditPhaseEdit,
		DeletePhase: DeletePhaseDelete,
		Locked:      true,
	}
}

// Editing reports whether the row currently accepts input.
func (r ResourceRow) Editing() bool {
	return r.EditPhase == EditPhaseSave
}

// ConfirmingDelete reports whether the row waits for a delete confirmation.
func (r ResourceRow) ConfirmingDelete() bool {
	return r.DeletePhase == DeletePhaseConfirm
}

// Dirty reports whether the displayed values differ from the committed ones.
func (r ResourceRow) Dirty() bool {
	return r.Input != r.Label || r.InputStatement != r.HasStatement
}
