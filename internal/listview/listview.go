// Package listview turns the ordered items of a Success state into the
// grouped, collapsible structure shown by every front end.
package listview

import (
	"fmt"
	"io"
	"strings"

	"fetchlist/internal/errors"
	"fetchlist/internal/model"

	"github.com/gobwas/glob"
)

// HeaderFormat is the group header shown above each listId.
const HeaderFormat = "List ID: %d"

// Group is a run of items sharing one listId.
type Group struct {
	ListID int
	Items  []model.ListItem
}

// Header returns the display header of the group.
func (g Group) Header() string {
	return fmt.Sprintf(HeaderFormat, g.ListID)
}

// GroupByListID partitions items by listId in order of first appearance.
// Items keep their relative order inside each group.
func GroupByListID(items []model.ListItem) []Group {
	var groups []Group
	index := make(map[int]int)
	for _, item := range items {
		i, ok := index[item.ListID]
		if !ok {
			i = len(groups)
			index[item.ListID] = i
			groups = append(groups, Group{ListID: item.ListID})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Count returns the number of items across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

// Filter narrows what is displayed. It never changes the published state.
type Filter struct {
	pattern string
	matcher glob.Glob
	listID  int
	byList  bool
}

type FilterOption func(*Filter)

// OnlyList restricts the filter to one listId. Any value is a valid id,
// including 0.
func OnlyList(listID int) FilterOption {
	return func(f *Filter) {
		f.listID = listID
		f.byList = true
	}
}

// NewFilter compiles a name pattern. A pattern without glob syntax matches
// as a substring.
func NewFilter(pattern string, opts ...FilterOption) (*Filter, error) {
	f := &Filter{pattern: pattern}
	for _, opt := range opts {
		opt(f)
	}
	if pattern == "" {
		return f, nil
	}
	expr := pattern
	if !strings.ContainsAny(pattern, "*?[{") {
		expr = "*" + pattern + "*"
	}
	g, err := glob.Compile(expr)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
	}
	f.matcher = g
	return f, nil
}

// Pattern returns the pattern the filter was built from.
func (f *Filter) Pattern() string {
	if f == nil {
		return ""
	}
	return f.pattern
}

// Active reports whether the filter hides anything.
func (f *Filter) Active() bool {
	return f != nil && (f.matcher != nil || f.byList)
}

// Match reports whether the item passes the filter.
func (f *Filter) Match(item model.ListItem) bool {
	if !f.Active() {
		return true
	}
	if f.byList && item.ListID != f.listID {
		return false
	}
	if f.matcher != nil && !f.matcher.Match(item.NameOrEmpty()) {
		return false
	}
	return true
}

// Apply returns the groups restricted to matching items. Groups left empty
// are dropped.
func (f *Filter) Apply(groups []Group) []Group {
	if !f.Active() {
		return groups
	}
	var out []Group
	for _, g := range groups {
		var kept []model.ListItem
		for _, item := range g.Items {
			if f.Match(item) {
				kept = append(kept, item)
			}
		}
		if len(kept) > 0 {
			out = append(out, Group{ListID: g.ListID, Items: kept})
		}
	}
	return out
}

// Expansion tracks which groups are open. Groups are collapsed unless
// marked otherwise.
type Expansion struct {
	all  bool
	open map[int]bool
}

// NewExpansion returns an expansion state where every group starts as
// expanded when all is true.
func NewExpansion(all bool) *Expansion {
	return &Expansion{all: all, open: make(map[int]bool)}
}

// IsOpen reports whether the group is expanded.
func (e *Expansion) IsOpen(listID int) bool {
	if open, ok := e.open[listID]; ok {
		return open
	}
	return e.all
}

// Toggle flips one group.
func (e *Expansion) Toggle(listID int) {
	e.open[listID] = !e.IsOpen(listID)
}

// Set opens or closes one group.
func (e *Expansion) Set(listID int, open bool) {
	e.open[listID] = open
}

// ExpandAll opens every group, including ones not seen yet.
func (e *Expansion) ExpandAll() {
	e.all = true
	e.open = make(map[int]bool)
}

// CollapseAll closes every group.
func (e *Expansion) CollapseAll() {
	e.all = false
	e.open = make(map[int]bool)
}

// WriteText prints groups in the plain text layout used by the list
// command: a header per group followed by its indented items.
func WriteText(w io.Writer, groups []Group) error {
	for i, g := range groups {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, g.Header()); err != nil {
			return err
		}
		for _, item := range g.Items {
			if _, err := fmt.Fprintf(w, "  %-10s id=%d\n", item.NameOrEmpty(), item.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
