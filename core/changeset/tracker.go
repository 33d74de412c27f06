/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package changeset tracks unsaved cell edits against the original data and
// owns when they are cleared after a save or cancel.
package changeset

import (
	"github.com/google/tablegrid/core/records"
)

// Key identifies one edited cell
type Key struct {
	RowID  string
	Column string
}

// Change is the baseline and latest value of an edited cell
type Change struct {
	Original records.Value
	Edited   records.Value
}

// Baseline looks up the original value of a cell. ok is false when the
// row or column is unknown, in which case the original is null.
type Baseline func(rowID, column string) (value records.Value, ok bool)

// Tracker is the sparse set of pending edits, in edit order
type Tracker struct {
	baseline Baseline
	changes  *records.OrderedMap[Key, Change]
}

// NewTracker creates an empty tracker. baseline may be nil.
func NewTracker(baseline Baseline) *Tracker {
	return &Tracker{
		baseline: baseline,
		changes:  records.NewOrderedMap[Key, Change](),
	}
}

// RecordEdit stores value as the edited value of (rowID, column). The
// original is captured on the first edit only. A first edit that leaves the
// value as it was creates no entry; once an entry exists it stays until
// Clear, even if later edits restore the original.
func (t *Tracker) RecordEdit(rowID, column string, value records.Value) {
	key := Key{RowID: rowID, Column: column}
	if existing, ok := t.changes.Get(key); ok {
		existing.Edited = value
		t.changes.Set(key, existing)
		return
	}

	var original records.Value
	if t.baseline != nil {
		original, _ = t.baseline(rowID, column)
	}
	if original.Equal(value) {
		return
	}
	t.changes.Set(key, Change{Original: original, Edited: value})
}

// ChangeSet returns a copy of the pending edits
func (t *Tracker) ChangeSet() map[Key]Change {
	out := make(map[Key]Change, t.changes.Len())
	t.changes.Range(func(k Key, c Change) bool {
		out[k] = c
		return true
	})
	return out
}

// Keys returns the edited cells in the order they were first edited
func (t *Tracker) Keys() []Key {
	return t.changes.Keys()
}

// Get returns the change recorded for a cell
func (t *Tracker) Get(rowID, column string) (Change, bool) {
	return t.changes.Get(Key{RowID: rowID, Column: column})
}

// Edited returns the pending value of a cell
func (t *Tracker) Edited(rowID, column string) (records.Value, bool) {
	c, ok := t.Get(rowID, column)
	return c.Edited, ok
}

// HasChange reports whether any edit is pending
func (t *Tracker) HasChange() bool {
	return t.changes.Len() > 0
}

// Len returns the number of edited cells
func (t *Tracker) Len() int {
	return t.changes.Len()
}

// Clear drops every pending edit
func (t *Tracker) Clear() {
	t.changes.Clear()
}

// ByRow groups edited values as row id -> column -> value, the payload
// handed to saveChanges handlers
func (t *Tracker) ByRow() map[string]map[string]records.Value {
	out := make(map[string]map[string]records.Value)
	t.changes.Range(func(k Key, c Change) bool {
		row, ok := out[k.RowID]
		if !ok {
			row = make(map[string]records.Value)
			out[k.RowID] = row
		}
		row[k.Column] = c.Edited
		return true
	})
	return out
}

// Entry is one edit in a flattened change set
type Entry struct {
	Key
	Change
}

// Entries returns the pending edits in edit order
func (t *Tracker) Entries() []Entry {
	out := make([]Entry, 0, t.changes.Len())
	t.changes.Range(func(k Key, c Change) bool {
		out = append(out, Entry{Key: k, Change: c})
		return true
	})
	return out
}
