package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// NoticeKind tells success notices from error notices.
type NoticeKind string

// Notice kinds.
const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown after an interaction settles.
type Notice struct {
	Time        time.Time
	Kind        NoticeKind
	Title       string
	Description string
}

// Notifier receives notices as they are raised.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// Failure is the class of a failed interaction.
type Failure int

// Failure classes.
const (
	NoFailure Failure = iota
	ValidationFailure
	ConflictFailure
	RequestFailure
)

func (f Failure) String() string {
	switch f {
	case NoFailure:
		return "none"
	case ValidationFailure:
		return "validation"
	case ConflictFailure:
		return "conflict"
	default:
		return "request"
	}
}

// Classify maps err onto the failure taxonomy. Anything that is neither a
// validation error nor a conflict is a request failure.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return NoFailure
	case errors.Is(err, common.ErrValidation):
		return ValidationFailure
	case errors.Is(err, common.ErrConflict):
		return ConflictFailure
	default:
		return RequestFailure
	}
}

type operation string

const (
	opCreate operation = "create"
	opUpdate operation = "update"
	opDelete operation = "delete"
)

var (
	verbs   = map[operation]string{opCreate: "Create", opUpdate: "Update", opDelete: "Delete"}
	pasts   = map[operation]string{opCreate: "created", opUpdate: "updated", opDelete: "deleted"}
	gerunds = map[operation]string{opCreate: "creating", opUpdate: "updating", opDelete: "deleting"}
)

func successNotice(op operation, resource model.Resource) Notice {
	label := resource.Label()
	title := fmt.Sprintf("%s %s", verbs[op], label)
	if op == opCreate {
		title = fmt.Sprintf("%s %s", verbs[op], strings.ToLower(label))
	}
	return Notice{
		Kind:        NoticeSuccess,
		Title:       title,
		Description: fmt.Sprintf("%s %s successfully", label, pasts[op]),
	}
}

func failureNotice(op operation, resource model.Resource, err error) Notice {
	lower := strings.ToLower(resource.Label())
	n := Notice{
		Kind:        NoticeError,
		Title:       fmt.Sprintf("%s %s error", verbs[op], lower),
		Description: fmt.Sprintf("Error on %s %s", gerunds[op], lower),
	}

	if Classify(err) == ConflictFailure {
		switch {
		case resource == model.Expenses:
			n.Description = "This expense is already registered for this day"
		case op == opCreate:
			n.Description = fmt.Sprintf("%s already exists", resource.Label())
		default:
			n.Description = resource.ConflictMessage()
		}
	}
	return n
}
