package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"fetchlist/internal/errors"
	"fetchlist/internal/listview"
	"fetchlist/internal/log"
	"fetchlist/internal/model"
	"fetchlist/internal/state"

	"github.com/spf13/cobra"
)

// ErrLoadFailed is returned when the cycle ends in the Error state.
var ErrLoadFailed = errors.New("failed to load the list")

type listOptions struct {
	json    bool
	match   string
	listID  int
	byList  bool
	timeout time.Duration
}

// NewListCmd runs one fetch cycle and prints the result
func NewListCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the grouped list once",
		Long: `Fetch the list once and print it grouped by list id.
Exits with a non-zero status when the list cannot be loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.byList = cmd.Flags().Changed("list-id")
			setupLogging(false)
			_, store := newStore(cfg)
			defer store.Close()
			return runList(cmd.Context(), store, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the items as a JSON array")
	cmd.Flags().StringVarP(&opts.match, "match", "m", "", "only show names matching this glob")
	cmd.Flags().IntVarP(&opts.listID, "list-id", "l", 0, "only show this list id")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "give up waiting after this long")

	return cmd
}

func runList(ctx context.Context, store *state.Store, opts listOptions, out io.Writer) error {
	var filterOpts []listview.FilterOption
	if opts.byList {
		filterOpts = append(filterOpts, listview.OnlyList(opts.listID))
	}
	filter, err := listview.NewFilter(opts.match, filterOpts...)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	store.Start()
	st, err := store.WaitTerminal(ctx)
	if err != nil {
		return errors.Wrap(err, "waiting for the list")
	}
	if st.IsError() {
		return ErrLoadFailed
	}

	groups := filter.Apply(listview.GroupByListID(st.Items))
	log.LogWithFields(log.F("groups", len(groups)), log.F("items", listview.Count(groups))).Debug("Printing list")

	if opts.json {
		items := make([]model.ListItem, 0, listview.Count(groups))
		for _, g := range groups {
			items = append(items, g.Items...)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(groups) == 0 {
		_, err := fmt.Fprintln(out, "No items.")
		return err
	}
	return listview.WriteText(out, groups)
}
