package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/controller"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
)

// run executes fn off the event loop and reports back with a resultMsg.
func (m *Model) run(act action, fn func(ctx context.Context) error) tea.Cmd {
	m.inflight++
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{action: act, err: fn(ctx)}
	}
}

func (m *Model) mount() tea.Cmd {
	ctrl := m.ctrl
	return m.run(actionMount, ctrl.OnMount)
}

// Create form keys.
const (
	fieldLabel        = "label"
	fieldHasStatement = "hasStatement"
	fieldDescription  = "description"
	fieldAmount       = "amount"
	fieldDate         = "date"
	fieldType         = "type"
	fieldCategory     = "category"
	fieldPaymentType  = "paymentType"
	fieldBank         = "bank"
	fieldStore        = "store"
)

// buildPayload turns create form values into the payload of resource.
// Lookup fields accept a label or an id.
func buildPayload(ctx context.Context, ctrl *controller.Controller, values map[string]string) (any, error) {
	resource := ctrl.Resource()
	if resource != model.Expenses {
		var p model.NewEntity
		if resource.LabelField() == "name" {
			p.Name = values[fieldLabel]
		} else {
			p.Description = values[fieldLabel]
		}
		if resource.HasStatement() {
			p.HasStatement = parseYes(values[fieldHasStatement])
		}
		return p, nil
	}

	p := model.NewExpense{
		Description: values[fieldDescription],
		Date:        values[fieldDate],
		Type:        model.ExpenseType(strings.ToLower(values[fieldType])),
	}
	if raw := values[fieldAmount]; raw != "" {
		cents, err := model.ParseAmount(raw)
		if err != nil {
			return nil, common.NewValidationError(fieldAmount, "Invalid amount")
		}
		p.Amount = cents
	}

	refs := []struct {
		dst      *string
		field    string
		resource model.Resource
	}{
		{&p.CategoryID, fieldCategory, model.Categories},
		{&p.PaymentTypeID, fieldPaymentType, model.PaymentTypes},
		{&p.BankID, fieldBank, model.Banks},
		{&p.StoreID, fieldStore, model.Stores},
	}
	for _, ref := range refs {
		id, err := resolve(ctx, ctrl, ref.resource, ref.field, values[ref.field])
		if err != nil {
			return nil, err
		}
		*ref.dst = id
	}
	return p, nil
}

func resolve(ctx context.Context, ctrl *controller.Controller, resource model.Resource, field, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	entities, err := ctrl.Lookup(ctx, resource)
	if err != nil {
		return "", err
	}
	for _, e := range entities {
		if e.ID == value || strings.EqualFold(e.Label(), value) {
			return e.ID, nil
		}
	}
	return "", common.NewValidationError(field, fmt.Sprintf("Unknown %s %q", strings.ToLower(resource.Label()), value))
}

func parseYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1", "s", "sim":
		return true
	default:
		return false
	}
}

// createFields lists the create form inputs of resource.
func createFields(resource model.Resource, now time.Time) []components.Field {
	if resource != model.Expenses {
		fields := []components.Field{{
			Key:   fieldLabel,
			Label: titleCase(resource.LabelField()),
		}}
		if resource.HasStatement() {
			fields = append(fields, components.Field{Key: fieldHasStatement, Label: "Has statement", Placeholder: "y/n"})
		}
		return fields
	}

	return []components.Field{
		{Key: fieldDescription, Label: "Description"},
		{Key: fieldAmount, Label: "Amount", Placeholder: "0,00"},
		{Key: fieldDate, Label: "Date", Placeholder: model.DateLayout, Value: now.Format(model.DateLayout)},
		{Key: fieldType, Label: "Type", Placeholder: "income/outcome", Value: string(model.Outcome)},
		{Key: fieldCategory, Label: "Category"},
		{Key: fieldPaymentType, Label: "Payment type"},
		{Key: fieldBank, Label: "Bank"},
		{Key: fieldStore, Label: "Store"},
	}
}
