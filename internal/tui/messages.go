package tui

// action names the controller interaction a command ran.
type action string

const (
	actionMount      action = "mount"
	actionPage       action = "page"
	actionSort       action = "sort"
	actionRefresh    action = "refresh"
	actionUpdate     action = "update"
	actionDelete     action = "delete"
	actionCreate     action = "create"
	actionDimension  action = "filter-dimension"
	actionFilter     action = "filter"
	actionDates      action = "dates"
	actionClearDates action = "clear-dates"
)

// resultMsg reports a settled controller interaction. The model re-reads
// the controller state on every one of them.
type resultMsg struct {
	err    error
	action action
}
