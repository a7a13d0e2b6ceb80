package model

import "time"

// ExpenseType tells incomes from outcomes.
type ExpenseType string

// Expense types.
const (
	Income  ExpenseType = "income"
	Outcome ExpenseType = "outcome"
)

// Ref is a nested reference to another entity as embedded by the API.
type Ref struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Label returns the name or the description of the referenced entity.
func (r *Ref) Label() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Description
}

// Entity is a raw record as returned by the remote resource gateway.
type Entity struct {
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at,omitempty"`
	Date         *time.Time  `json:"date,omitempty"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	Category     *Ref        `json:"category,omitempty"`
	PaymentType  *Ref        `json:"payment_type,omitempty"`
	Bank         *Ref        `json:"bank,omitempty"`
	Store        *Ref        `json:"store,omitempty"`
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	Description  string      `json:"description,omitempty"`
	Type         ExpenseType `json:"type,omitempty"`
	Amount       int64       `json:"amount,omitempty"`
	HasStatement bool        `json:"hasStatement,omitempty"`
}

// Label returns the entity's primary label.
func (e Entity) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Description
}

// Page is one fetched slice of a collection. TotalKnown is false when the
// server did not report a total count.
type Page struct {
	Entities   []Entity
	TotalCount int
	TotalKnown bool
}

// Patch is a partial update. Nil fields are left untouched by the server.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	HasStatement *bool   `json:"hasStatement,omitempty"`
}

// NewEntity is the create payload for the management resources.
type NewEntity struct {
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	HasStatement bool   `json:"hasStatement,omitempty"`
}

// NewExpense is the create payload for an expense.
type NewExpense struct {
	Description   string      `json:"description"`
	CategoryID    string      `json:"category_id"`
	PaymentTypeID string      `json:"payment_type_id"`
	BankID        string      `json:"bank_id,omitempty"`
	StoreID       string      `json:"store_id,omitempty"`
	Date          string      `json:"date"`
	Type          ExpenseType `json:"type,omitempty"`
	Amount        int64       `json:"amount"`
	Personal      bool        `json:"personal"`
	Split         bool        `json:"split"`
}
