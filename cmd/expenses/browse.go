package main

import (
	"github.com/Veraticus/expense-console/internal/balance"
	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/controller"
	"github.com/Veraticus/expense-console/internal/tui"
	"github.com/Veraticus/expense-console/internal/tui/themes"
	"github.com/spf13/cobra"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [resource]",
		Short: "Open the interactive screen of a resource",
		Long: `Open the paginated screen of a resource: banks, categories, paymentType,
stores or expenses (the default).

Rows are edited in place: press e to edit, enter to save, esc to cancel and
d twice to delete. On the expenses screen f filters, t picks a date window
and the balance cards follow both.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBrowse,
	}

	cmd.Flags().Bool("no-help", false, "hide the key help footer")

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resource, err := resourceArg(args)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			common.LogError(err, "failed to close local database", nil)
		}
	}()

	agg := balance.NewAggregator(a.client, a.store)
	if err := agg.Restore(ctx); err != nil {
		common.LogDebug("no cached balance restored", common.Fields{"error": err.Error()})
	}

	ctrl := controller.New(controller.Config{
		Gateway:  a.client,
		Balance:  agg,
		Resource: resource,
		PageSize: pageSize(a.cfg.Width),
		Now:      clock,
	})

	noHelp, _ := cmd.Flags().GetBool("no-help")
	return tui.Run(ctx, ctrl,
		tui.WithTheme(themes.GetTheme(a.cfg.Theme)),
		tui.WithHelp(!noHelp),
		tui.WithClock(clock),
	)
}
