package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
)

// Validate checks the create payload of a management resource.
func (e NewEntity) Validate(resource Resource) error {
	label := e.Description
	if resource.LabelField() == "name" {
		label = e.Name
	}
	if strings.TrimSpace(label) == "" {
		return common.NewValidationError(resource.LabelField(), fmt.Sprintf("%s is required", titleCase(resource.LabelField())))
	}
	return nil
}

// Validate checks the create payload of an expense. requiresBank is true
// when the selected payment type carries a statement.
func (e NewExpense) Validate(requiresBank bool) error {
	switch {
	case strings.TrimSpace(e.Description) == "":
		return common.NewValidationError("description", "Description is required")
	case e.CategoryID == "":
		return common.NewValidationError("category", "Category is required")
	case e.Date == "":
		return common.NewValidationError("date", "Date is required")
	case e.Amount <= 0:
		return common.NewValidationError("amount", "Amount is required")
	case e.PaymentTypeID == "":
		return common.NewValidationError("paymentType", "Payment type is required")
	case requiresBank && e.BankID == "":
		return common.NewValidationError("bank", "Bank is required for this payment type")
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return common.NewValidationError("date", "Invalid date")
	}
	if e.Type != "" && e.Type != Income && e.Type != Outcome {
		return common.NewValidationError("type", "Invalid expense type")
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
