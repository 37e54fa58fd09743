// Package transform turns the raw fetched records into display order.
package transform

import (
	"sort"
	"strconv"
	"strings"

	"fetchlist/internal/model"
)

// NamePrefix is stripped from a name before reading its numeric suffix.
const NamePrefix = "Item "

// Transform drops unnamed items and sorts the rest by listId, then by the
// numeric suffix of their name. The input slice is never modified and equal
// keys keep their input order.
func Transform(raw []model.ListItem) []model.ListItem {
	out := make([]model.ListItem, 0, len(raw))
	for _, item := range raw {
		if Keep(item) {
			out = append(out, item)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ListID != out[j].ListID {
			return out[i].ListID < out[j].ListID
		}
		return SecondaryKey(out[i]) < SecondaryKey(out[j])
	})
	return out
}

// Keep reports whether an item survives filtering: its name must be present
// and contain at least one non-whitespace character.
func Keep(item model.ListItem) bool {
	return item.Name != nil && strings.TrimSpace(*item.Name) != ""
}

// SecondaryKey is the 32-bit integer following the exact prefix "Item " in
// the item's name, or 0 when the prefix is missing or the rest is not a
// valid int32 (sign allowed, no surrounding spaces).
func SecondaryKey(item model.ListItem) int {
	if item.Name == nil {
		return 0
	}
	rest, ok := strings.CutPrefix(*item.Name, NamePrefix)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(rest, 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
