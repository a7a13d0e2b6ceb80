package listsync

import (
	"github.com/Veraticus/expense-console/internal/model"
)

// ToRow projects a raw entity into a rest-state row.
func ToRow(resource model.Resource, e model.Entity) model.ResourceRow {
	row := model.NewRow(e.ID, e.Label(), resource.LabelField())
	row.CreatedAt = model.FormatDate(e.CreatedAt)
	if e.UpdatedAt != nil {
		row.UpdatedAt = model.FormatDate(*e.UpdatedAt)
	}

	if resource.HasStatement() {
		row.HasStatement = e.HasStatement
		row.InputStatement = e.HasStatement
	}

	if resource == model.Expenses {
		row.Amount = e.Amount
		row.Type = e.Type
		row.FormattedAmount = model.FormatSignedAmount(e.Amount, e.Type)
		if e.Date != nil {
			row.Date = model.FormatDate(*e.Date)
		}
		if e.DueDate != nil {
			row.DueDate = model.FormatDate(*e.DueDate)
		}
		row.Category = e.Category.Label()
		row.PaymentType = e.PaymentType.Label()
		row.Bank = e.Bank.Label()
		row.Store = e.Store.Label()
	}

	return row
}

// ToRows projects every entity of a page.
func ToRows(resource model.Resource, entities []model.Entity) []model.ResourceRow {
	rows := make([]model.ResourceRow, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, ToRow(resource, e))
	}
	return rows
}
