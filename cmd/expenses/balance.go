package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/expense-console/internal/balance"
	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/tui/components"
	"github.com/Veraticus/expense-console/internal/tui/themes"
	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print the incomes, outcomes and total of a window",
		Long: `Print the balance of every expense matching the filter and date window,
not just one page. Without flags the balance covers every expense.`,
		Args: cobra.NoArgs,
		RunE: runBalance,
	}

	scopeFlags(cmd)
	cmd.Flags().Bool("cached", false, "print the last stored balance without asking the API")

	return cmd
}

func runBalance(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return err
	}

	if cached, _ := cmd.Flags().GetBool("cached"); cached {
		return printCachedBalance(cmd)
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

	snap, err := balance.NewAggregator(a.client, a.store).Refresh(ctx, scope)
	if err != nil {
		return err
	}
	printBalance(cmd.OutOrStdout(), a.cfg.Theme, snap)
	return nil
}

// printCachedBalance needs no sign-in: it only reads the local database.
func printCachedBalance(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			common.LogError(err, "failed to close local database", nil)
		}
	}()

	agg := balance.NewAggregator(nil, store)
	if err := agg.Restore(ctx); err != nil {
		return common.NewUserError("No stored balance yet.", err)
	}
	snap, _ := agg.Snapshot()
	printBalance(cmd.OutOrStdout(), cfg.Theme, snap)
	return nil
}

func printBalance(w io.Writer, theme string, snap model.BalanceSnapshot) {
	fmt.Fprintln(w, components.RenderBalance(themes.GetTheme(theme), &snap))
	if r := snap.Scope.DateRange; !r.IsZero() {
		fmt.Fprintf(w, "%s to %s\n", model.FormatDate(r.Start), model.FormatDate(r.End))
	}
}
