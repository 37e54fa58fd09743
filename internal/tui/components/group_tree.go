package components

import (
	"fmt"
	"strings"

	"fetchlist/internal/listview"
	"fetchlist/internal/model"
	"fetchlist/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row is one visible line of the tree: a group header, or an item when
// Item is set.
type Row struct {
	Group int
	Item  *model.ListItem
	Last  bool
}

// IsHeader reports whether the row is a group header.
func (r Row) IsHeader() bool {
	return r.Item == nil
}

// GroupTree displays groups as collapsible nodes with their items as
// children.
type GroupTree struct {
	Groups      []listview.Group
	Expansion   *listview.Expansion
	Cursor      int
	VisibleRows []Row
	Height      int
	Width       int
	Offset      int // For scrolling
}

// NewGroupTree creates an empty tree. All groups start collapsed unless
// expandAll is set.
func NewGroupTree(expandAll bool) *GroupTree {
	return &GroupTree{
		Expansion: listview.NewExpansion(expandAll),
		Height:    20,
		Width:     80,
	}
}

// SetGroups replaces the displayed groups. Expansion state is kept per
// listId and the cursor stays on the same group when it still exists.
func (f *GroupTree) SetGroups(groups []listview.Group) {
	anchor, hasAnchor := f.currentListID()

	f.Groups = groups
	f.Cursor = 0
	f.Offset = 0
	f.UpdateVisibleRows()

	if hasAnchor {
		for i, row := range f.VisibleRows {
			if row.IsHeader() && f.Groups[row.Group].ListID == anchor {
				f.Cursor = i
				break
			}
		}
	}
	f.EnsureCursorVisible()
}

func (f *GroupTree) currentListID() (int, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.VisibleRows) {
		return 0, false
	}
	return f.Groups[f.VisibleRows[f.Cursor].Group].ListID, true
}

// Update handles resize messages. Keys are routed by the owning model.
func (f *GroupTree) Update(msg tea.Msg) (*GroupTree, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		f.Width = msg.Width - 4
		f.Height = msg.Height - 10 // title, status, search and key hints
		if f.Height < 3 {
			f.Height = 3
		}
		f.EnsureCursorVisible()
	}
	return f, nil
}

// Toggle expands or collapses the group under the cursor. On an item row it
// collapses the item's group.
func (f *GroupTree) Toggle() {
	row, ok := f.current()
	if !ok {
		return
	}
	listID := f.Groups[row.Group].ListID
	if !row.IsHeader() {
		f.Expansion.Set(listID, false)
		f.UpdateVisibleRows()
		f.moveToHeader(row.Group)
		return
	}
	f.Expansion.Toggle(listID)
	f.UpdateVisibleRows()
}

// Open expands the group under the cursor and steps into its first item.
func (f *GroupTree) Open() {
	row, ok := f.current()
	if !ok || !row.IsHeader() {
		return
	}
	listID := f.Groups[row.Group].ListID
	if !f.Expansion.IsOpen(listID) {
		f.Expansion.Set(listID, true)
		f.UpdateVisibleRows()
	}
	if len(f.Groups[row.Group].Items) > 0 {
		f.MoveDown()
	}
}

// Close collapses an open group, or moves from an item to its header.
func (f *GroupTree) Close() {
	row, ok := f.current()
	if !ok {
		return
	}
	if !row.IsHeader() {
		f.moveToHeader(row.Group)
		return
	}
	listID := f.Groups[row.Group].ListID
	if f.Expansion.IsOpen(listID) {
		f.Expansion.Set(listID, false)
		f.UpdateVisibleRows()
	}
}

// ExpandAll opens every group.
func (f *GroupTree) ExpandAll() {
	anchor, ok := f.current()
	f.Expansion.ExpandAll()
	f.UpdateVisibleRows()
	if ok {
		f.moveToHeader(anchor.Group)
	}
}

// CollapseAll closes every group, leaving the cursor on the header of the
// group it was in.
func (f *GroupTree) CollapseAll() {
	anchor, ok := f.current()
	f.Expansion.CollapseAll()
	f.UpdateVisibleRows()
	if ok {
		f.moveToHeader(anchor.Group)
	}
}

func (f *GroupTree) current() (Row, bool) {
	if f.Cursor < 0 || f.Cursor >= len(f.VisibleRows) {
		return Row{}, false
	}
	return f.VisibleRows[f.Cursor], true
}

func (f *GroupTree) moveToHeader(group int) {
	for i, row := range f.VisibleRows {
		if row.IsHeader() && row.Group == group {
			f.Cursor = i
			break
		}
	}
	f.EnsureCursorVisible()
}

// UpdateVisibleRows rebuilds the visible rows based on which groups are open
func (f *GroupTree) UpdateVisibleRows() {
	f.VisibleRows = f.VisibleRows[:0]
	for gi, g := range f.Groups {
		f.VisibleRows = append(f.VisibleRows, Row{Group: gi})
		if !f.Expansion.IsOpen(g.ListID) {
			continue
		}
		for ii := range g.Items {
			f.VisibleRows = append(f.VisibleRows, Row{
				Group: gi,
				Item:  &g.Items[ii],
				Last:  ii == len(g.Items)-1,
			})
		}
	}

	if f.Cursor >= len(f.VisibleRows) {
		f.Cursor = max(0, len(f.VisibleRows)-1)
	}
	f.EnsureCursorVisible()
}

// MoveUp moves the cursor up one row
func (f *GroupTree) MoveUp() {
	if f.Cursor > 0 {
		f.Cursor--
	}
	f.EnsureCursorVisible()
}

// MoveDown moves the cursor down one row
func (f *GroupTree) MoveDown() {
	if f.Cursor < len(f.VisibleRows)-1 {
		f.Cursor++
	}
	f.EnsureCursorVisible()
}

// EnsureCursorVisible adjusts the scroll offset so the cursor row is drawn
func (f *GroupTree) EnsureCursorVisible() {
	if f.Height <= 0 {
		return
	}

	if f.Cursor < f.Offset {
		f.Offset = f.Cursor
	}
	if f.Cursor >= f.Offset+f.Height {
		f.Offset = f.Cursor - f.Height + 1
	}

	maxOffset := max(0, len(f.VisibleRows)-f.Height)
	if f.Offset > maxOffset {
		f.Offset = maxOffset
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// View renders the visible window of the tree
func (f *GroupTree) View() string {
	if len(f.VisibleRows) == 0 {
		return styles.Theme.Muted.Render("No items to show")
	}

	var b strings.Builder

	startIdx := f.Offset
	endIdx := len(f.VisibleRows)
	if f.Height > 0 {
		endIdx = min(endIdx, f.Offset+f.Height)
	}

	if startIdx > 0 {
		b.WriteString(styles.Theme.Muted.Render(fmt.Sprintf("↑ %d more", startIdx)) + "\n")
	}

	for i := startIdx; i < endIdx; i++ {
		line := f.renderRow(f.VisibleRows[i], i == f.Cursor)
		if f.Width > 0 {
			line = lipgloss.NewStyle().MaxWidth(f.Width).Render(line)
		}
		b.WriteString(line + "\n")
	}

	if endIdx < len(f.VisibleRows) {
		b.WriteString(styles.Theme.Muted.Render(fmt.Sprintf("↓ %d more", len(f.VisibleRows)-endIdx)) + "\n")
	}

	return b.String()
}

func (f *GroupTree) renderRow(row Row, focused bool) string {
	g := f.Groups[row.Group]

	marker := "  "
	if focused {
		marker = "▶ "
	}

	if row.IsHeader() {
		icon := "▸"
		if f.Expansion.IsOpen(g.ListID) {
			icon = "▾"
		}
		text := fmt.Sprintf("%s %s (%d)", icon, g.Header(), len(g.Items))
		if focused {
			return styles.Theme.Cursor.Render(marker + text)
		}
		return marker + styles.Theme.Header.Render(text)
	}

	branch := "├─ "
	if row.Last {
		branch = "└─ "
	}
	text := fmt.Sprintf("%s%s", branch, row.Item.NameOrEmpty())
	id := fmt.Sprintf("  #%d", row.Item.ID)
	if focused {
		return styles.Theme.Cursor.Render(marker + "  " + text + id)
	}
	return marker + "  " + styles.Theme.Item.Render(text) + styles.Theme.Muted.Render(id)
}
