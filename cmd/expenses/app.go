package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/config"
	"github.com/Veraticus/expense-console/internal/gateway"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/pagination"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/Veraticus/expense-console/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// app bundles what every API-backed command needs.
type app struct {
	client *gateway.Client
	store  *storage.SQLiteStorage
	cfg    config.Config
}

// Close releases the local database.
func (a *app) Close() error {
	return a.store.Close()
}

// openStore loads the configuration and opens the local session database.
func openStore(ctx context.Context) (config.Config, *storage.SQLiteStorage, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, err
	}

	store, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to open local database: %w", err)
	}
	return cfg, store, nil
}

// newApp opens the local database and signs the API client in.
func newApp(ctx context.Context) (*app, error) {
	cfg, store, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	token, err := resolveToken(ctx, cfg.APIToken, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client, err := gateway.NewClient(cfg.APIURL, gateway.WithToken(token))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{cfg: cfg, store: store, client: client}, nil
}

// SessionLoader reads the persisted sign-in.
type SessionLoader interface {
	LoadSession(ctx context.Context) (model.Session, error)
}

// resolveToken prefers a configured token over the stored session.
func resolveToken(ctx context.Context, configured string, sessions SessionLoader) (string, error) {
	if configured != "" {
		return configured, nil
	}

	session, err := sessions.LoadSession(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return "", common.NewUserError("Not signed in. Run `expenses login` first.", err)
	}
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// pageSize picks the page size from the configured width, measuring the
// terminal when none is set.
func pageSize(width int) int {
	if width <= 0 {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	return pagination.TerminalPolicy.PageSize(width)
}

// resourceArg parses the optional resource argument, defaulting to expenses.
func resourceArg(args []string) (model.Resource, error) {
	if len(args) == 0 {
		return model.Expenses, nil
	}
	r, err := model.ParseResource(args[0])
	if err != nil {
		return "", common.NewUserError(fmt.Sprintf("Unknown resource %q. Use banks, categories, paymentType, stores or expenses.", args[0]), err)
	}
	return r, nil
}

// scopeFlags registers the filter and date window flags shared by list and
// balance.
func scopeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first day of the window (yyyy-MM-dd)")
	cmd.Flags().String("to", "", "last day of the window (yyyy-MM-dd)")
	cmd.Flags().String("filter", "", "filter dimension (categories, paymentType, banks, stores)")
	cmd.Flags().String("value", "", "id of the filter value")
}

// scopeFromFlags reads the flags registered by scopeFlags.
func scopeFromFlags(cmd *cobra.Command) (model.Scope, error) {
	var scope model.Scope

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from != "" || to != "" {
		r, err := parseWindow(from, to)
		if err != nil {
			return model.Scope{}, err
		}
		scope.DateRange = r
	}

	dimension, _ := cmd.Flags().GetString("filter")
	value, _ := cmd.Flags().GetString("value")
	if dimension != "" {
		d, ok := query.DimensionByID(dimension)
		if !ok {
			return model.Scope{}, common.NewValidationError("filterBy", "Unknown filter "+dimension)
		}
		if value == "" {
			return model.Scope{}, common.NewValidationError("filterValue", d.Label+" is required")
		}
		scope.FilterBy, scope.FilterValue = d.Param, value
	}
	return scope, nil
}

// parseWindow parses both bounds of a date window; a single bound is an
// error since the API only filters on complete windows.
func parseWindow(from, to string) (model.DateRange, error) {
	start, err := query.ParseDate("startDate", from)
	if err != nil {
		return model.DateRange{}, err
	}
	end, err := query.ParseDate("endDate", to)
	if err != nil {
		return model.DateRange{}, err
	}
	if end.Before(start) {
		return model.DateRange{}, common.NewValidationError("endDate", "End date must not be before start date")
	}
	return model.DateRange{Start: start, End: end}, nil
}

// clock is swapped in tests.
var clock = time.Now
