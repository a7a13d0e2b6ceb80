package controller

import (
	"context"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/pagination"
)

// OnEnterEdit puts id into edit mode; any other editing row yields.
func (c *Controller) OnEnterEdit(id string) error {
	return c.table.EnterEdit(id)
}

// OnInput updates the displayed label of the editing row.
func (c *Controller) OnInput(id, value string) error {
	return c.table.SetInput(id, value)
}

// OnStatementToggle updates the displayed statement flag of the editing row.
func (c *Controller) OnStatementToggle(id string, checked bool) error {
	return c.table.SetStatement(id, checked)
}

// OnBlur reverts an emptied input to the committed label.
func (c *Controller) OnBlur(id string) error {
	return c.table.Blur(id)
}

// OnCommitEdit saves newValue as the label of id. Unchanged values make no
// request. On failure the displayed value rolls back and an error notice is
// raised; either way the row returns to rest.
func (c *Controller) OnCommitEdit(ctx context.Context, id, newValue string) error {
	if err := c.table.SetInput(id, newValue); err != nil {
		return err
	}
	return c.commit(ctx, id)
}

// OnSave commits whatever the editing row displays.
func (c *Controller) OnSave(ctx context.Context, id string) error {
	return c.commit(ctx, id)
}

func (c *Controller) commit(ctx context.Context, id string) error {
	prepared, err := c.table.PrepareCommit(id)
	if err != nil || !prepared.Changed {
		return err
	}

	err = c.gw.Update(ctx, c.resource, prepared.ID, prepared.Patch)
	c.table.ResolveCommit(prepared, err)
	if err != nil {
		common.LogError(err, "update failed", common.Fields{"resource": c.resource, "id": id})
		c.notify(failureNotice(opUpdate, c.resource, err))
		return err
	}

	c.notify(successNotice(opUpdate, c.resource))
	c.afterMutation(ctx, false)
	return nil
}

// OnRequestDelete arms the delete confirmation of id. No request is made.
func (c *Controller) OnRequestDelete(id string) error {
	return c.table.RequestDelete(id)
}

// OnConfirmDelete deletes an armed row, then re-fetches the current page.
// A failed delete disarms the row and raises an error notice.
func (c *Controller) OnConfirmDelete(ctx context.Context, id string) error {
	if err := c.table.PrepareConfirmDelete(id); err != nil {
		return err
	}

	err := c.gw.Delete(ctx, c.resource, id)
	c.table.ResolveDelete(id, err)
	if err != nil {
		common.LogError(err, "delete failed", common.Fields{"resource": c.resource, "id": id})
		c.notify(failureNotice(opDelete, c.resource, err))
		return err
	}

	c.notify(successNotice(opDelete, c.resource))
	c.sync.Invalidate()
	c.afterMutation(ctx, true)
	return nil
}

// afterMutation re-fetches the list when it was invalidated and refreshes
// the expense balance. A page emptied by a delete falls back to the new
// last page.
func (c *Controller) afterMutation(ctx context.Context, removed bool) {
	if c.balance != nil {
		c.balance.Invalidate()
	}

	if _, err := c.sync.SyncVersion(ctx); ignoreSuperseded(err) != nil {
		common.LogDebug("reload after mutation failed", common.Fields{"error": err.Error()})
	}

	if removed {
		q := c.sync.Query()
		if total, known := c.sync.TotalCount(); known && q.Page > 1 {
			if last := pagination.TotalPages(total, q.PageSize); last >= 1 && q.Page > last {
				if err := c.load(ctx, q.WithPage(last)); ignoreSuperseded(err) != nil {
					common.LogDebug("step back after delete failed", common.Fields{"error": err.Error()})
				}
			}
		}
	}

	c.syncBalance(ctx, c.sync.Query().Scope())
}
