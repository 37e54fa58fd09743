// Package model defines the values that flow through the fetch pipeline:
// the decoded list entries and the tri-state view model published to the
// presentation layer.
package model

import (
	"encoding/json"
	"fmt"
)

// ListItem is one entry of the remote list. A nil Name means the field was
// null or absent in the response.
type ListItem struct {
	ListID int     `json:"listId"`
	ID     int     `json:"id"`
	Name   *string `json:"name"`
}

// UnmarshalJSON reads only the exact keys listId, id and name. Keys that
// differ in case are unknown fields and are ignored. A missing number is 0.
func (i *ListItem) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		// null element
		return nil
	}

	var item ListItem
	if raw, ok := fields["listId"]; ok {
		if err := json.Unmarshal(raw, &item.ListID); err != nil {
			return fmt.Errorf("listId: %w", err)
		}
	}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &item.ID); err != nil {
			return fmt.Errorf("id: %w", err)
		}
	}
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &item.Name); err != nil {
			return fmt.Errorf("name: %w", err)
		}
	}
	*i = item
	return nil
}

// NewItem builds an item with a present name.
func NewItem(listID, id int, name string) ListItem {
	return ListItem{ListID: listID, ID: id, Name: &name}
}

// NewUnnamedItem builds an item whose name is absent.
func NewUnnamedItem(listID, id int) ListItem {
	return ListItem{ListID: listID, ID: id}
}

// HasName reports whether the name field was present in the response.
func (i ListItem) HasName() bool {
	return i.Name != nil
}

// NameOrEmpty returns the name, or "" when it is absent.
func (i ListItem) NameOrEmpty() string {
	if i.Name == nil {
		return ""
	}
	return *i.Name
}

// Equal compares all fields by value.
func (i ListItem) Equal(other ListItem) bool {
	if i.ListID != other.ListID || i.ID != other.ID {
		return false
	}
	if i.Name == nil || other.Name == nil {
		return i.Name == nil && other.Name == nil
	}
	return *i.Name == *other.Name
}

func (i ListItem) String() string {
	if i.Name == nil {
		return fmt.Sprintf("{%d,%d,null}", i.ListID, i.ID)
	}
	return fmt.Sprintf("{%d,%d,%q}", i.ListID, i.ID, *i.Name)
}

// ItemsEqual compares two sequences element by element.
func ItemsEqual(a, b []ListItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
