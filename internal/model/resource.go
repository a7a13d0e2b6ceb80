// Package model defines the core data types of the expense console.
package model

import (
	"fmt"
	"strings"
)

// Resource identifies a remote collection. The value is the collection path.
type Resource string

// Known resources.
const (
	Banks        Resource = "banks"
	Categories   Resource = "categories"
	PaymentTypes Resource = "paymentType"
	Stores       Resource = "stores"
	Expenses     Resource = "expenses"
)

// ManagedResources are the resources edited in place on the management screens.
var ManagedResources = []Resource{Banks, Categories, PaymentTypes, Stores}

// ParseResource accepts a collection path or a display label (case-insensitive).
func ParseResource(s string) (Resource, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, r := range append(ManagedResources, Expenses) {
		if needle == strings.ToLower(string(r)) || needle == strings.ToLower(r.Label()) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Path returns the collection path without a leading slash.
func (r Resource) Path() string {
	return string(r)
}

// Label is the singular display name.
func (r Resource) Label() string {
	switch r {
	case Banks:
		return "Bank"
	case Categories:
		return "Category"
	case PaymentTypes:
		return "Payment Type"
	case Stores:
		return "Store"
	case Expenses:
		return "Expense"
	default:
		return string(r)
	}
}

// LabelField is the wire name of the primary label: banks and stores carry
// a name, everything else a description.
func (r Resource) LabelField() string {
	switch r {
	case Banks, Stores:
		return "name"
	default:
		return "description"
	}
}

// HasStatement reports whether rows of this resource carry the statement flag.
func (r Resource) HasStatement() bool {
	return r == PaymentTypes
}

// ConflictMessage is the server message returned when a record with the same
// label already exists.
func (r Resource) ConflictMessage() string {
	if r == Expenses {
		return "This expense is already registered"
	}
	return fmt.Sprintf("This %s is already registered", strings.ToLower(r.Label()))
}
