// Package tui renders a resource screen in the terminal and forwards key
// presses to its controller.
package tui

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/controller"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/Veraticus/expense-console/internal/tui/components"
	"github.com/Veraticus/expense-console/internal/tui/themes"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is what the key presses currently drive.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeEdit
	ModeFilter
	ModeDates
	ModeCreate
	ModeHelp
)

// Model holds the screen state. Everything durable lives in the
// controller; the model keeps a snapshot of it plus the widgets.
type Model struct {
	ctx       context.Context
	now       func() time.Time
	ctrl      *controller.Controller
	theme     themes.Theme
	view      controller.View
	status    string
	editingID string
	columns   []column
	keymap    KeyMap
	help      help.Model
	form      components.FormModel
	editor    textinput.Model
	table     table.Model
	sortCol   int
	filterDim int
	filterOpt int
	inflight  int
	width     int
	height    int
	mode      Mode
	showHelp  bool
	ready     bool
	quitting  bool
}

// New creates the model of ctrl's screen. Requests made by the screen use
// ctx.
func New(ctx context.Context, ctrl *controller.Controller, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	editor := textinput.New()
	editor.Prompt = "> "
	editor.CharLimit = 80
	_ = editor.Cursor.SetMode(cursor.CursorStatic)

	cols := columnsFor(ctrl.Resource())
	t := table.New(
		table.WithColumns(tableColumns(cols, query.Order{}, false, 0)),
		table.WithFocused(true),
		table.WithHeight(ctrl.Query().PageSize+2),
	)
	s := table.DefaultStyles()
	s.Header = cfg.Theme.Header
	s.Selected = cfg.Theme.Selected
	t.SetStyles(s)

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:       ctx,
		now:       cfg.Now,
		ctrl:      ctrl,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      h,
		editor:    editor,
		table:     t,
		columns:   cols,
		sortCol:   firstSortable(cols),
		filterDim: -1,
		width:     cfg.Width,
		height:    cfg.Height,
		showHelp:  cfg.ShowHelp,
	}
}

// Init mounts the screen.
func (m Model) Init() tea.Cmd {
	return m.mount()
}

// Mode returns what the key presses currently drive.
func (m Model) Mode() Mode {
	return m.mode
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case resultMsg:
		m.inflight = max(m.inflight-1, 0)
		if msg.action == actionMount {
			m.ready = true
		}
		m.refresh()
		m.settle(msg)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

		switch m.mode {
		case ModeEdit:
			return m.updateEdit(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeDates:
			return m.updateDates(msg)
		case ModeCreate:
			return m.updateCreate(msg)
		case ModeHelp:
			m.mode = ModeBrowse
			m.help.ShowAll = false
			return m, nil
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	m.status = ""

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.mode = ModeHelp
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keymap.PrevPage):
		return m, m.run(actionPage, ctrl.OnPrevPage)

	case key.Matches(msg, m.keymap.NextPage):
		return m, m.run(actionPage, ctrl.OnNextPage)

	case key.Matches(msg, m.keymap.GoToPage):
		page, err := strconv.Atoi(msg.String())
		if err != nil {
			return m, nil
		}
		return m, m.run(actionPage, func(ctx context.Context) error {
			return ctrl.OnPageChange(ctx, page)
		})

	case key.Matches(msg, m.keymap.NextColumn):
		m.sortCol = nextSortable(m.columns, m.sortCol)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.Sort):
		if m.sortCol < 0 {
			return m, nil
		}
		column := m.columns[m.sortCol].sortKey
		return m, m.run(actionSort, func(ctx context.Context) error {
			return ctrl.OnSortColumn(ctx, column)
		})

	case key.Matches(msg, m.keymap.Refresh):
		return m, m.run(actionRefresh, ctrl.Refresh)

	case key.Matches(msg, m.keymap.Edit):
		return m.enterEdit()

	case key.Matches(msg, m.keymap.Delete):
		return m.pressDelete()

	case key.Matches(msg, m.keymap.Create):
		m.form = components.NewForm("New "+lower(ctrl.Resource().Label()), createFields(ctrl.Resource(), m.now()), m.theme)
		m.mode = ModeCreate
		return m, nil

	case key.Matches(msg, m.keymap.Filter):
		if ctrl.Resource() != model.Expenses {
			return m, nil
		}
		m.mode = ModeFilter
		m.syncFilterCursor()
		return m, nil

	case key.Matches(msg, m.keymap.Dates):
		if ctrl.Resource() != model.Expenses {
			return m, nil
		}
		r := ctrl.DateForm().Range()
		m.form = components.NewForm("Date range", []components.Field{
			{Key: "startDate", Label: "Start", Placeholder: model.DateLayout, Value: formatDay(r.Start)},
			{Key: "endDate", Label: "End", Placeholder: model.DateLayout, Value: formatDay(r.End)},
		}, m.theme)
		m.mode = ModeDates
		return m, nil
	}

	return m, nil
}

func (m Model) selectedRow() (model.ResourceRow, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return model.ResourceRow{}, false
	}
	return m.view.Rows[i], true
}

func (m Model) enterEdit() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	if err := m.ctrl.OnEnterEdit(row.ID); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.refresh()

	m.editingID = row.ID
	m.editor.SetValue(row.Label)
	m.editor.CursorEnd()
	_ = m.editor.Focus()
	m.mode = ModeEdit
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	id := m.editingID

	switch {
	case key.Matches(msg, m.keymap.Save):
		value := m.editor.Value()
		m.leaveEdit()
		return m, m.run(actionUpdate, func(ctx context.Context) error {
			return ctrl.OnCommitEdit(ctx, id, value)
		})

	case key.Matches(msg, m.keymap.Cancel):
		if row, ok := m.rowByID(id); ok {
			_ = ctrl.OnInput(id, row.Label)
			if ctrl.Resource().HasStatement() {
				_ = ctrl.OnStatementToggle(id, row.HasStatement)
			}
		}
		m.leaveEdit()
		return m, m.run(actionUpdate, func(ctx context.Context) error {
			return ctrl.OnSave(ctx, id)
		})

	case key.Matches(msg, m.keymap.ToggleStatement):
		if row, ok := m.rowByID(id); ok && ctrl.Resource().HasStatement() {
			_ = ctrl.OnStatementToggle(id, !row.InputStatement)
			m.refresh()
		}
		return m, nil

	case msg.Type == tea.KeyTab:
		_ = ctrl.OnBlur(id)
		m.refresh()
		if row, ok := m.rowByID(id); ok {
			m.editor.SetValue(row.Input)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if err := ctrl.OnInput(id, m.editor.Value()); err != nil {
		m.status = err.Error()
	}
	m.refresh()
	return m, cmd
}

func (m *Model) leaveEdit() {
	m.editor.Blur()
	m.mode = ModeBrowse
}

func (m Model) rowByID(id string) (model.ResourceRow, bool) {
	for _, r := range m.view.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return model.ResourceRow{}, false
}

// pressDelete arms the selected row; a second press confirms.
func (m Model) pressDelete() (tea.Model, tea.Cmd) {
	row, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	ctrl := m.ctrl
	if row.ConfirmingDelete() {
		return m, m.run(actionDelete, func(ctx context.Context) error {
			return ctrl.OnConfirmDelete(ctx, row.ID)
		})
	}
	if err := ctrl.OnRequestDelete(row.ID); err != nil {
		m.status = err.Error()
	}
	m.refresh()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl
	form := ctrl.FilterForm()

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.keymap.PrevPage), key.Matches(msg, m.keymap.NextPage):
		step := 1
		if key.Matches(msg, m.keymap.PrevPage) {
			step = -1
		}
		n := len(query.Dimensions)
		m.filterDim = ((m.filterDim+step)%n + n) % n
		m.filterOpt = -1
		dimension := query.Dimensions[m.filterDim].ID
		return m, m.run(actionDimension, func(ctx context.Context) error {
			return ctrl.OnFilterDimension(ctx, dimension)
		})

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down):
		opts := form.Options()
		if form.ValueDisabled() || len(opts) == 0 {
			return m, nil
		}
		step := 1
		if key.Matches(msg, m.keymap.Up) {
			step = -1
		}
		m.filterOpt = ((m.filterOpt+step)%len(opts) + len(opts)) % len(opts)
		if err := ctrl.OnFilterValue(opts[m.filterOpt].ID); err != nil {
			m.status = validationMessage(err)
		}
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		m.filterDim, m.filterOpt = -1, -1
		return m, m.run(actionFilter, func(ctx context.Context) error {
			if err := ctrl.OnFilterDimension(ctx, ""); err != nil {
				return err
			}
			return ctrl.OnFilterFormSubmit(ctx)
		})

	case key.Matches(msg, m.keymap.Save):
		return m, m.run(actionFilter, ctrl.OnFilterFormSubmit)
	}

	return m, nil
}

// syncFilterCursor points the selector cursors at the form's selection.
func (m *Model) syncFilterCursor() {
	m.filterDim, m.filterOpt = -1, -1
	d, value, ok := m.ctrl.FilterForm().Selected()
	if !ok {
		return
	}
	for i, dim := range query.Dimensions {
		if dim.ID == d.ID {
			m.filterDim = i
		}
	}
	for i, o := range m.ctrl.FilterForm().Options() {
		if o.ID == value {
			m.filterOpt = i
		}
	}
}

func (m Model) updateDates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.keymap.Clear):
		return m, m.run(actionClearDates, ctrl.OnClearDateRange)

	case key.Matches(msg, m.keymap.Save):
		start, err := query.ParseDate("startDate", m.form.Value("startDate"))
		if err != nil {
			m.form.SetError(validationMessage(err))
			return m, nil
		}
		end, err := query.ParseDate("endDate", m.form.Value("endDate"))
		if err != nil {
			m.form.SetError(validationMessage(err))
			return m, nil
		}
		m.form.SetError("")
		return m, m.run(actionDates, func(ctx context.Context) error {
			return ctrl.OnDateRangeSubmit(ctx, start, end)
		})
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl

	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, m.keymap.Save):
		values := m.form.Values()
		m.form.SetError("")
		return m, m.run(actionCreate, func(ctx context.Context) error {
			payload, err := buildPayload(ctx, ctrl, values)
			if err != nil {
				return err
			}
			_, err = ctrl.OnCreate(ctx, payload)
			return err
		})
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// refresh pulls a fresh snapshot from the controller into the widgets.
func (m *Model) refresh() {
	m.view = m.ctrl.State()

	m.table.SetColumns(tableColumns(m.columns, m.view.Sort, m.view.Sorted, m.sortCol))
	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		cells := make(table.Row, len(m.columns))
		for i, c := range m.columns {
			cells[i] = c.cell(r)
		}
		rows = append(rows, cells)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// settle reacts to the outcome of a finished interaction. Request failures
// of mutations already raised a notice in the controller.
func (m *Model) settle(msg resultMsg) {
	if msg.err == nil {
		switch msg.action {
		case actionCreate, actionDates, actionClearDates, actionFilter:
			m.mode = ModeBrowse
		}
		return
	}

	validation := controller.Classify(msg.err) == controller.ValidationFailure
	switch msg.action {
	case actionUpdate:
		if validation {
			if row, ok := m.rowByID(m.editingID); ok && row.Editing() {
				m.editor.SetValue(row.Input)
				_ = m.editor.Focus()
				m.mode = ModeEdit
			}
			m.status = validationMessage(msg.err)
		}
	case actionCreate, actionDates, actionClearDates:
		if m.mode == ModeCreate || m.mode == ModeDates {
			if validation {
				m.form.SetError(validationMessage(msg.err))
			} else {
				m.form.SetError(m.lastNoticeOr(msg.err))
			}
		}
	case actionDimension:
		m.status = "Could not load the filter values"
	case actionMount, actionPage, actionSort, actionRefresh:
		if validation {
			m.status = validationMessage(msg.err)
		}
	default:
		if validation {
			m.status = validationMessage(msg.err)
		}
	}
}

func (m Model) lastNoticeOr(err error) string {
	if n := len(m.view.Notices); n > 0 && m.view.Notices[n-1].Kind == controller.NoticeError {
		return m.view.Notices[n-1].Description
	}
	return err.Error()
}

func validationMessage(err error) string {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}
