package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-console/internal/controller"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/Veraticus/expense-console/internal/tui/components"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

type column struct {
	cell    func(model.ResourceRow) string
	title   string
	sortKey string // empty when the column cannot be sorted
	width   int
}

func columnsFor(resource model.Resource) []column {
	status := column{title: "", width: 10, cell: rowStatus}

	if resource == model.Expenses {
		return []column{
			{title: "Date", sortKey: "date", width: 10, cell: func(r model.ResourceRow) string { return r.Date }},
			{title: "Description", sortKey: "description", width: 24, cell: func(r model.ResourceRow) string { return r.Input }},
			{title: "Category", width: 14, cell: func(r model.ResourceRow) string { return r.Category }},
			{title: "Payment", width: 12, cell: func(r model.ResourceRow) string { return r.PaymentType }},
			{title: "Bank", width: 12, cell: func(r model.ResourceRow) string { return r.Bank }},
			{title: "Amount", sortKey: "amount", width: 16, cell: func(r model.ResourceRow) string { return r.FormattedAmount }},
			status,
		}
	}

	cols := []column{{
		title:   titleCase(resource.LabelField()),
		sortKey: resource.LabelField(),
		width:   28,
		cell:    func(r model.ResourceRow) string { return r.Input },
	}}
	if resource.HasStatement() {
		cols = append(cols, column{title: "Statement", width: 10, cell: func(r model.ResourceRow) string {
			if r.InputStatement {
				return "yes"
			}
			return "no"
		}})
	}
	return append(cols,
		column{title: "Created", sortKey: "created_at", width: 12, cell: func(r model.ResourceRow) string { return r.CreatedAt }},
		column{title: "Updated", sortKey: "updated_at", width: 12, cell: func(r model.ResourceRow) string { return r.UpdatedAt }},
		status,
	)
}

func rowStatus(r model.ResourceRow) string {
	switch {
	case r.ConfirmingDelete():
		return "delete?"
	case r.Editing():
		return "editing"
	default:
		return ""
	}
}

// tableColumns titles the columns, marking the sorted one with its
// direction and the focused one with brackets.
func tableColumns(cols []column, order query.Order, sorted bool, focus int) []table.Column {
	out := make([]table.Column, len(cols))
	for i, c := range cols {
		title := c.title
		if sorted && c.sortKey != "" && c.sortKey == order.By {
			if order.Type == model.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		if i == focus {
			title = "[" + title + "]"
		}
		out[i] = table.Column{Title: title, Width: c.width}
	}
	return out
}

func firstSortable(cols []column) int {
	for i, c := range cols {
		if c.sortKey != "" {
			return i
		}
	}
	return -1
}

func nextSortable(cols []column, from int) int {
	for step := 1; step <= len(cols); step++ {
		i := (from + step) % len(cols)
		if cols[i].sortKey != "" {
			return i
		}
	}
	return from
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lower(s string) string {
	return strings.ToLower(s)
}

func pluralTitle(r model.Resource) string {
	switch r {
	case model.Categories:
		return "Categories"
	default:
		return r.Label() + "s"
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.theme.Faint.Render(fmt.Sprintf("Loading %s...", lower(pluralTitle(m.ctrl.Resource()))))
	}
	if m.mode == ModeHelp {
		return m.renderHelp()
	}

	sections := []string{m.theme.Title.Render(pluralTitle(m.view.Resource))}

	if m.view.Resource == model.Expenses {
		sections = append(sections, components.RenderBalance(m.theme, m.view.Balance))
		if scope := m.renderScope(); scope != "" {
			sections = append(sections, scope)
		}
	}

	switch m.mode {
	case ModeFilter:
		sections = append(sections, m.renderFilter())
	case ModeDates, ModeCreate:
		sections = append(sections, m.theme.BorderedBox.Render(m.form.View()))
	case ModeEdit:
		sections = append(sections, m.theme.Editing.Render("Editing ")+m.editor.View())
	}

	sections = append(sections, m.renderList())

	if pager := m.renderPager(); pager != "" {
		sections = append(sections, pager)
	}
	if notices := m.renderNotices(); notices != "" {
		sections = append(sections, notices)
	}
	if m.status != "" {
		sections = append(sections, m.theme.StatusWarning.Render(m.status))
	}
	if m.inflight > 0 {
		sections = append(sections, m.theme.Faint.Render("working..."))
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderList() string {
	title := lower(pluralTitle(m.view.Resource))
	switch {
	case m.view.LoadFailed:
		return m.theme.StatusError.Render(fmt.Sprintf("Could not load %s. Press r to retry.", title))
	case len(m.view.Rows) == 0:
		return m.theme.Faint.Render(fmt.Sprintf("No %s found.", title))
	default:
		return m.table.View()
	}
}

func (m Model) renderPager() string {
	p := m.view.Pager()
	if !p.Visible() {
		return ""
	}

	arrow := func(label string, enabled bool) string {
		if enabled {
			return m.theme.Normal.Render(label)
		}
		return m.theme.Faint.Render(label)
	}

	parts := []string{arrow("‹", p.HasPrev())}
	for _, page := range p.Pages {
		label := strconv.Itoa(page)
		if page == p.Current {
			parts = append(parts, m.theme.Selected.Render(" "+label+" "))
			continue
		}
		parts = append(parts, m.theme.Normal.Render(label))
	}
	parts = append(parts, arrow("›", p.HasNext()))
	return strings.Join(parts, " ")
}

func (m Model) renderScope() string {
	var parts []string
	if f := m.view.Filter; f.By != "" {
		label := f.Value
		for _, o := range m.ctrl.FilterForm().Options() {
			if o.ID == f.Value {
				label = o.Label
			}
		}
		name := f.By
		if d, ok := query.DimensionByParam(f.By); ok {
			name = d.Label
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, label))
	}
	if r := m.view.DateRange; !r.IsZero() {
		parts = append(parts, fmt.Sprintf("%s to %s", model.FormatDate(r.Start), model.FormatDate(r.End)))
	}
	if len(parts) == 0 {
		return ""
	}
	return m.theme.Subtitle.Render(strings.Join(parts, "  |  "))
}

func (m Model) renderFilter() string {
	form := m.ctrl.FilterForm()

	dimension := "choose with ←/→"
	if m.filterDim >= 0 {
		dimension = query.Dimensions[m.filterDim].Label
	}

	value := "choose with ↑/↓"
	switch {
	case m.filterDim < 0:
		value = m.theme.Faint.Render("select a filter first")
	case form.ValueDisabled():
		value = m.theme.Faint.Render("loading...")
	default:
		if _, selected, ok := form.Selected(); ok && selected != "" {
			for _, o := range form.Options() {
				if o.ID == selected {
					value = o.Label
				}
			}
		}
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Filter"),
		m.theme.Subtitle.Render("By    ")+dimension,
		m.theme.Subtitle.Render("Value ")+value,
	)
	return m.theme.BorderedBox.Render(body)
}

func (m Model) renderNotices() string {
	notices := m.view.Notices
	if len(notices) == 0 {
		return ""
	}
	if len(notices) > 3 {
		notices = notices[len(notices)-3:]
	}

	lines := make([]string, 0, len(notices))
	for i := len(notices) - 1; i >= 0; i-- {
		n := notices[i]
		style := m.theme.StatusSuccess
		if n.Kind == controller.NoticeError {
			style = m.theme.StatusError
		}
		lines = append(lines, style.Render(n.Title)+" "+m.theme.Normal.Render(n.Description))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderHelp renders the help screen.
func (m Model) renderHelp() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(pluralTitle(m.view.Resource)+" - Help"),
		m.help.View(m.keymap),
		"",
		m.theme.Faint.Render("Press any key to close help"),
	)
	return m.theme.BorderedBox.Render(content)
}
