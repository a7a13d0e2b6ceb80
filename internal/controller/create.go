package controller

import (
	"context"
	"fmt"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
)

// OnCreate validates payload, posts it and re-fetches the first page. The
// payload is a model.NewEntity on management screens and a
// model.NewExpense on the expenses screen.
func (c *Controller) OnCreate(ctx context.Context, payload any) (model.Entity, error) {
	if err := c.validateCreate(ctx, payload); err != nil {
		return model.Entity{}, err
	}

	created, err := c.gw.Create(ctx, c.resource, payload)
	if err != nil {
		common.LogError(err, "create failed", common.Fields{"resource": c.resource})
		c.notify(failureNotice(opCreate, c.resource, err))
		return model.Entity{}, err
	}

	c.notify(successNotice(opCreate, c.resource))
	c.InvalidateLookups()
	c.sync.Invalidate()
	if err := c.load(ctx, c.sync.Query().WithPage(1)); err != nil {
		common.LogDebug("reload after create failed", common.Fields{"error": err.Error()})
	}
	if c.balance != nil {
		c.balance.Invalidate()
		c.syncBalance(ctx, c.sync.Query().Scope())
	}
	return created, nil
}

func (c *Controller) validateCreate(ctx context.Context, payload any) error {
	switch p := payload.(type) {
	case model.NewEntity:
		if c.resource == model.Expenses {
			return fmt.Errorf("expenses need an expense payload: %w", common.ErrValidation)
		}
		return p.Validate(c.resource)
	case model.NewExpense:
		if c.resource != model.Expenses {
			return fmt.Errorf("%s do not take an expense payload: %w", c.resource, common.ErrValidation)
		}
		requiresBank, err := c.paymentTypeHasStatement(ctx, p.PaymentTypeID)
		if err != nil {
			return err
		}
		return p.Validate(requiresBank)
	default:
		return fmt.Errorf("unsupported payload %T: %w", payload, common.ErrValidation)
	}
}

func (c *Controller) paymentTypeHasStatement(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	types, err := c.Lookup(ctx, model.PaymentTypes)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t.ID == id {
			return t.HasStatement, nil
		}
	}
	return false, common.NewValidationError("paymentType", "Unknown payment type")
}
