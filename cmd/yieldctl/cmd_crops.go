package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-agri-dashboard/dashboard"
	"github.com/jrsteele09/go-agri-dashboard/querystate"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCropsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crops",
		Short: "Browse the crop yield table",
	}
	cmd.AddCommand(newCropsListCmd(a), newCropsGetCmd(a), newCropsOptionsCmd(a))
	return cmd
}

type listFlags struct {
	page      int
	pageSize  int
	sortField string
	sortOrder string
	unsort    bool
	search    string
	query     string
	reset     bool
	filters   map[string]*[]string
}

func newCropsListCmd(a *app) *cobra.Command {
	lf := &listFlags{filters: map[string]*[]string{}}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of the crop table",
		Long: `Show one page of the crop table. The table view (page, page size, search,
sort and filters) is remembered between runs as a query string, so flags
only need to describe what changes. Pass --query to open a shared view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCropsList(cmd, a, lf)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&lf.page, "page", 0, "Page number")
	flags.IntVar(&lf.pageSize, "page-size", 0, "Rows per page (10, 25, 50 or 100)")
	flags.StringVar(&lf.sortField, "sort-field", "", "Column to sort by")
	flags.StringVar(&lf.sortOrder, "sort-order", string(querystate.Ascend), "Sort direction: ascend or descend")
	flags.BoolVar(&lf.unsort, "unsort", false, "Clear the current sort")
	flags.StringVar(&lf.search, "search", "", "Search term; an empty value clears the search")
	flags.StringVar(&lf.query, "query", "", "Replace the saved view with this query string")
	flags.BoolVar(&lf.reset, "reset", false, "Start from the default view")
	for _, key := range querystate.FilterKeys {
		lf.filters[key] = flags.StringSlice(flagName(key), nil, fmt.Sprintf("Filter on %s (comma separated; empty clears)", key))
	}
	return cmd
}

func runCropsList(cmd *cobra.Command, a *app, lf *listFlags) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	saved, err := sessions.LoadView(ctx, a.store)
	if err != nil {
		return err
	}
	switch {
	case lf.reset:
		saved = ""
	case lf.query != "":
		saved = strings.TrimPrefix(lf.query, "?")
	}

	location := querystate.NewLocation(saved)
	unsubscribe := location.Subscribe(func(query string) {
		if err := sessions.SaveView(context.WithoutCancel(ctx), a.store, query); err != nil {
			log.Warn().Err(err).Msg("Failed to save the table view")
		}
	})
	defer unsubscribe()
	if lf.reset || lf.query != "" {
		location.Replace(saved)
	}

	store := querystate.NewStore(location)
	controller := dashboard.NewController(store, a.crops)

	if tableFlagsChanged(flags) {
		pagination, filters, sorts := tableChange(store.Read(), flags, lf)
		store.ApplyTableChange(pagination, filters, sorts...)
	}
	if flags.Changed("search") {
		store.ApplySearch(lf.search)
	}

	if _, err := controller.Refresh(ctx); err != nil {
		return err
	}

	theme, err := sessions.LoadTheme(ctx, a.store)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	renderView(out, theme, controller.Snapshot())
	fmt.Fprintf(out, "view: ?%s\n", location.Query())
	return nil
}

func tableFlagsChanged(flags *pflag.FlagSet) bool {
	for _, name := range []string{"page", "page-size", "sort-field", "sort-order", "unsort"} {
		if flags.Changed(name) {
			return true
		}
	}
	for _, key := range querystate.FilterKeys {
		if flags.Changed(flagName(key)) {
			return true
		}
	}
	return false
}

// tableChange builds the event the table widget would report: the pager and
// filters as they will be after the change, and the sort if it was touched.
func tableChange(current querystate.ViewState, flags *pflag.FlagSet, lf *listFlags) (querystate.Pagination, map[string][]string, []querystate.Sort) {
	pagination := querystate.Pagination{Current: current.Page, PageSize: current.PageSize}
	if flags.Changed("page") {
		pagination.Current = lf.page
	}
	if flags.Changed("page-size") {
		pagination.PageSize = lf.pageSize
	}

	filters := make(map[string][]string, len(querystate.FilterKeys))
	for _, key := range querystate.FilterKeys {
		if flags.Changed(flagName(key)) {
			filters[key] = *lf.filters[key]
		} else if set, ok := current.Filters[key]; ok {
			filters[key] = set
		}
	}

	var sorts []querystate.Sort
	switch {
	case lf.unsort:
		sorts = append(sorts, querystate.Sort{Field: current.SortField})
	case flags.Changed("sort-field"):
		sorts = append(sorts, querystate.Sort{Field: lf.sortField, Order: querystate.SortOrder(lf.sortOrder)})
	case flags.Changed("sort-order") && current.SortField != "":
		sorts = append(sorts, querystate.Sort{Field: current.SortField, Order: querystate.SortOrder(lf.sortOrder)})
	}
	return pagination, filters, sorts
}

func flagName(filterKey string) string {
	return strings.ReplaceAll(filterKey, "_", "-")
}

func newCropsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show every field of one crop record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := a.crops.GetCropByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			theme, err := sessions.LoadTheme(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			renderDetail(cmd.OutOrStdout(), theme, detail)
			return nil
		},
	}
}

func newCropsOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the values offered by the column filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := a.crops.FetchFilterOptions(cmd.Context())
			theme, err := sessions.LoadTheme(cmd.Context(), a.store)
			if err != nil {
				return err
			}
			renderOptions(cmd.OutOrStdout(), theme, options)
			return nil
		},
	}
}
