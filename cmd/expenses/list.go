package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/listsync"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/pagination"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [resource]",
		Short: "Print one page of a resource",
		Long: `Print one page of a resource as a table.

Examples:
  # First page of expenses
  expenses list

  # Third page of banks sorted by name, newest first
  expenses list banks --page 3 --sort name --desc

  # Expenses of one category in March
  expenses list --filter categories --value <id> --from 2024-03-01 --to 2024-03-31`,
		Args: cobra.MaximumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().Int("page", 1, "page to print")
	cmd.Flags().Int("limit", pagination.MobilePageSize, "records per page")
	cmd.Flags().String("sort", "", "column to sort by")
	cmd.Flags().Bool("desc", false, "sort descending")
	scopeFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resource, err := resourceArg(args)
	if err != nil {
		return err
	}
	q, err := listQuery(cmd)
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

	page, err := a.client.List(ctx, resource, query.Params(q))
	if err != nil {
		return err
	}

	printPage(cmd.OutOrStdout(), resource, q, page)
	return nil
}

func listQuery(cmd *cobra.Command) (model.QueryState, error) {
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return model.QueryState{}, common.NewValidationError("limit", "Limit must be positive")
	}

	q := model.NewQueryState(limit).WithPage(page)

	if by, _ := cmd.Flags().GetString("sort"); by != "" {
		dir := model.Ascending
		if desc, _ := cmd.Flags().GetBool("desc"); desc {
			dir = model.Descending
		}
		q = q.WithSort(by, dir).WithPage(page)
	}

	scope, err := scopeFromFlags(cmd)
	if err != nil {
		return model.QueryState{}, err
	}
	q.DateRange = scope.DateRange
	q.FilterBy, q.FilterValue = scope.FilterBy, scope.FilterValue
	return q, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printPage(w io.Writer, resource model.Resource, q model.QueryState, page model.Page) {
	rows := listsync.ToRows(resource, page.Entities)
	if len(rows) == 0 {
		fmt.Fprintf(w, "No %s found.\n", resource.Path())
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	if resource == model.Expenses {
		t.Headers("Date", "Description", "Category", "Payment", "Bank", "Amount")
		for _, r := range rows {
			t.Row(r.Date, r.Label, r.Category, r.PaymentType, r.Bank, r.FormattedAmount)
		}
	} else {
		headers := []string{"ID", titleWord(resource.LabelField())}
		if resource.HasStatement() {
			headers = append(headers, "Statement")
		}
		t.Headers(append(headers, "Created", "Updated")...)
		for _, r := range rows {
			cells := []string{r.ID, r.Label}
			if resource.HasStatement() {
				cells = append(cells, strconv.FormatBool(r.HasStatement))
			}
			t.Row(append(cells, r.CreatedAt, r.UpdatedAt)...)
		}
	}

	fmt.Fprintln(w, t.Render())

	if page.TotalKnown {
		fmt.Fprintf(w, "Page %d of %d (%d records)\n", q.Page, max(pagination.TotalPages(page.TotalCount, q.PageSize), 1), page.TotalCount)
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
