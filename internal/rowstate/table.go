package rowstate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// Table errors.
var (
	ErrUnknownRow    = errors.New("unknown row")
	ErrRowLocked     = errors.New("row is not being edited")
	ErrPending       = errors.New("row has a request in flight")
	ErrNotConfirming = errors.New("row delete is not armed")
)

// Updater persists a partial update of one entity.
type Updater interface {
	Update(ctx context.Context, resource model.Resource, id string, patch model.Patch) error
}

// Deleter removes one entity.
type Deleter interface {
	Delete(ctx context.Context, resource model.Resource, id string) error
}

// Outcome tells what a commit did.
type Outcome int

// Commit outcomes.
const (
	// Unchanged means the value equaled the committed one; no request was made.
	Unchanged Outcome = iota
	// Saved means the update request succeeded.
	Saved
)

// Commit is a prepared update of one row.
type Commit struct {
	Patch   model.Patch
	ID      string
	Changed bool
}

// Table is the row collection of one resource list. Rows are replaced
// wholesale by the list synchronizer; Table itself never adds or removes
// rows, it only changes their interaction state and displayed values.
type Table struct {
	pending  map[string]bool
	resource model.Resource
	rows     []model.ResourceRow
	mu       sync.Mutex
}

// NewTable creates an empty table for resource.
func NewTable(resource model.Resource) *Table {
	return &Table{
		resource: resource,
		pending:  make(map[string]bool),
	}
}

// Resource returns the resource the rows belong to.
func (t *Table) Resource() model.Resource {
	return t.resource
}

// Replace swaps the whole collection. Rows keep no state across a replace
// except requests still in flight.
func (t *Table) Replace(rows []model.ResourceRow) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append([]model.ResourceRow(nil), rows...)
}

// Rows returns a copy of the collection.
func (t *Table) Rows() []model.ResourceRow {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]model.ResourceRow(nil), t.rows...)
}

// Row returns the row with id.
func (t *Table) Row(id string) (model.ResourceRow, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return model.ResourceRow{}, false
	}
	return t.rows[i], true
}

// Pending reports whether id has a request in flight.
func (t *Table) Pending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pending[id]
}

func (t *Table) index(id string) int {
	for i := range t.rows {
		if t.rows[i].ID == id {
			return i
		}
	}
	return -1
}

// locate returns the index of id or ErrUnknownRow. Callers hold mu.
func (t *Table) locate(id string) (int, error) {
	i := t.index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	return i, nil
}

// EnterEdit puts id in edit mode. Every other row that was editing yields:
// its uncommitted value is dropped and it is locked again.
func (t *Table) EnterEdit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	target, err := t.locate(id)
	if err != nil {
		return err
	}
	if t.pending[id] {
		return ErrPending
	}

	for i := range t.rows {
		if i == target {
			t.rows[i] = Transition(t.rows[i], EnterEdit)
			continue
		}
		t.rows[i] = Transition(t.rows[i], Yield)
	}
	return nil
}

// SetInput changes the displayed label of an editing row.
func (t *Table) SetInput(id, value string) error {
	return t.edit(id, func(r *model.ResourceRow) { r.Input = value })
}

// SetStatement changes the displayed statement flag of an editing row.
func (t *Table) SetStatement(id string, checked bool) error {
	return t.edit(id, func(r *model.ResourceRow) { r.InputStatement = checked })
}

func (t *Table) edit(id string, fn func(*model.ResourceRow)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.locate(id)
	if err != nil {
		return err
	}
	if t.rows[i].Locked {
		return ErrRowLocked
	}
	fn(&t.rows[i])
	return nil
}

// Blur reverts an emptied input to the committed label. No request is made.
func (t *Table) Blur(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.locate(id)
	if err != nil {
		return err
	}
	t.rows[i] = Transition(t.rows[i], Blur)
	return nil
}

// PrepareCommit reads the displayed values of an editing row. When nothing
// changed the row returns to rest and Changed is false. Otherwise the row
// returns to rest showing the new value while the update is in flight.
// A blank label is a validation error; the input is reverted and the row
// keeps editing.
func (t *Table) PrepareCommit(id string) (Commit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.locate(id)
	if err != nil {
		return Commit{}, err
	}
	if t.pending[id] {
		return Commit{}, ErrPending
	}

	row := t.rows[i]
	if !row.Editing() {
		return Commit{}, ErrRowLocked
	}

	if strings.TrimSpace(row.Input) == "" {
		t.rows[i].Input = row.Label
		return Commit{}, common.NewValidationError(row.LabelField, fmt.Sprintf("%s is required", t.resource.Label()))
	}

	if !row.Dirty() {
		t.rows[i] = Transition(row, Settle)
		return Commit{ID: id}, nil
	}

	t.rows[i] = Transition(row, Settle)
	t.pending[id] = true

	return Commit{ID: id, Changed: true, Patch: t.patch(row)}, nil
}

func (t *Table) patch(row model.ResourceRow) model.Patch {
	value := row.Input
	var p model.Patch
	if row.LabelField == "name" {
		p.Name = &value
	} else {
		p.Description = &value
	}
	if t.resource.HasStatement() {
		checked := row.InputStatement
		p.HasStatement = &checked
	}
	return p
}

// ResolveCommit settles a prepared commit. On success the displayed value
// becomes the committed one; on failure it is rolled back. Either way the
// row stays at rest. Rows that disappeared meanwhile are ignored.
func (t *Table) ResolveCommit(c Commit, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, c.ID)

	i := t.index(c.ID)
	if i < 0 {
		return
	}
	if err != nil {
		t.rows[i] = Transition(t.rows[i], RolledBack)
		return
	}
	t.rows[i] = Transition(t.rows[i], Committed)
}

// Commit runs PrepareCommit, the update request and ResolveCommit. The lock
// is not held during the request.
func (t *Table) Commit(ctx context.Context, id string, up Updater) (Outcome, error) {
	c, err := t.PrepareCommit(id)
	if err != nil {
		return Unchanged, err
	}
	if !c.Changed {
		return Unchanged, nil
	}

	err = up.Update(ctx, t.resource, c.ID, c.Patch)
	t.ResolveCommit(c, err)
	if err != nil {
		return Unchanged, err
	}
	return Saved, nil
}

// PressEdit is the edit control: it enters edit mode from rest and commits
// from edit mode.
func (t *Table) PressEdit(ctx context.Context, id string, up Updater) (Outcome, error) {
	row, ok := t.Row(id)
	if !ok {
		return Unchanged, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	if !row.Editing() {
		return Unchanged, t.EnterEdit(id)
	}
	return t.Commit(ctx, id, up)
}

// RequestDelete arms the two-step delete. No request is made.
func (t *Table) RequestDelete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.locate(id)
	if err != nil {
		return err
	}
	t.rows[i] = Transition(t.rows[i], RequestDelete)
	return nil
}

// PrepareConfirmDelete checks that the delete of id is armed and marks it in
// flight.
func (t *Table) PrepareConfirmDelete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.locate(id)
	if err != nil {
		return err
	}
	if t.pending[id] {
		return ErrPending
	}
	if !t.rows[i].ConfirmingDelete() {
		return ErrNotConfirming
	}
	t.pending[id] = true
	return nil
}

// ResolveDelete settles a confirmed delete. A failed delete disarms the
// confirmation so the user can try again. A successful one leaves the row
// in place; the caller re-fetches the list to drop it.
func (t *Table) ResolveDelete(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, id)
	if err == nil {
		return
	}
	if i := t.index(id); i >= 0 {
		t.rows[i] = Transition(t.rows[i], DeleteFailed)
	}
}

// ConfirmDelete runs PrepareConfirmDelete, the delete request and
// ResolveDelete.
func (t *Table) ConfirmDelete(ctx context.Context, id string, del Deleter) error {
	if err := t.PrepareConfirmDelete(id); err != nil {
		return err
	}
	err := del.Delete(ctx, t.resource, id)
	t.ResolveDelete(id, err)
	return err
}

// PressDelete is the delete control: the first press arms the confirmation,
// the second one deletes. It reports whether a delete request succeeded.
func (t *Table) PressDelete(ctx context.Context, id string, del Deleter) (bool, error) {
	row, ok := t.Row(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	if !row.ConfirmingDelete() {
		return false, t.RequestDelete(id)
	}
	if err := t.ConfirmDelete(ctx, id, del); err != nil {
		return false, err
	}
	return true, nil
}
