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

// Package columns resolves the ordered list of columns a grid renders, either
// from author-declared definitions or from the fields of a sampled record.
package columns

import (
	"sort"

	"github.com/google/tablegrid/core/records"
)

// Formatter renders a cell value for display. The full record is available
// so formatters can combine fields.
type Formatter func(value records.Value, record records.Record) string

// Column describes one grid column. Identity is Key.
type Column struct {
	Key       string // must be unique within one render
	Title     string
	DataIndex string // field read from the record; defaults to Key

	// Width in pixels; zero or negative means auto width
	Width int
	// Hidden is the authored visibility flag (a zero Column is visible)
	Hidden bool
	// Order positions the column among derived ones; it only applies when
	// OrderSet is true, so that zero can move a column to the front
	Order    int
	OrderSet bool

	Formatter     Formatter
	OnWidthResize func(width int)
	Sortable      bool
	Editable      bool

	// Derived marks columns produced by sampling a record
	Derived bool
	// SampledKind is the kind of the sampled value for derived columns
	SampledKind records.Kind
}

// Field returns the record field this column reads
func (c Column) Field() string {
	if c.DataIndex != "" {
		return c.DataIndex
	}
	return c.Key
}

// TitleText returns the header text, falling back to the key
func (c Column) TitleText() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Key
}

// Value reads this column's raw value from a record
func (c Column) Value(r records.Record) records.Value {
	return r.Value(c.Field())
}

// Format renders v for this column. A nil formatter renders the value's text.
func (c Column) Format(v records.Value, r records.Record) string {
	if c.Formatter == nil {
		return v.Text()
	}
	return c.Formatter(v, r)
}

// Align returns the preferred text alignment for the column's cells
func (c Column) Align() string {
	if c.SampledKind == records.KindNumber {
		return "right"
	}
	return "left"
}

// DefaultFormatter returns the passthrough formatter used for derived columns
// of the given sampled kind.
func DefaultFormatter(kind records.Kind) Formatter {
	switch kind {
	case records.KindNumber:
		return func(v records.Value, _ records.Record) string {
			if v.Kind() == records.KindNumber {
				return records.FormatNumber(v.Num())
			}
			return v.Text()
		}
	default:
		return func(v records.Value, _ records.Record) string {
			return v.Text()
		}
	}
}

// Resolve returns the ordered columns for one render.
//
// With dynamic columns disabled the explicit columns are returned unchanged.
// Otherwise field names are taken from sample (restricted to, and ordered by,
// dynamicConfig when it is non-empty). Explicit columns sharing a key with a
// derived one override its title, width, order, visibility and formatting;
// explicit columns absent from the sample are kept after the derived ones.
// A nil or empty sample derives no columns.
func Resolve(explicit []Column, dynamicEnabled bool, dynamicConfig []string, sample *records.Record) []Column {
	if !dynamicEnabled {
		return explicit
	}

	byKey := make(map[string]Column, len(explicit))
	for _, col := range explicit {
		if _, exists := byKey[col.Key]; !exists {
			byKey[col.Key] = col
		}
	}

	names := sampleFields(sample, dynamicConfig)
	result := make([]Column, 0, len(names)+len(explicit))
	used := make(map[string]bool, len(names))

	for i, name := range names {
		kind := sample.Value(name).Kind()
		derived := Column{
			Key:         name,
			Title:       name,
			DataIndex:   name,
			Order:       i,
			Formatter:   DefaultFormatter(kind),
			Derived:     true,
			SampledKind: kind,
		}
		if ex, ok := byKey[name]; ok {
			derived = overlay(derived, ex)
		}
		used[name] = true
		result = append(result, derived)
	}

	next := len(names)
	for _, col := range explicit {
		if used[col.Key] {
			continue
		}
		if !col.OrderSet {
			col.Order = next
		}
		next++
		result = append(result, col)
	}

	// On equal Order an explicitly placed column goes first
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.OrderSet && !b.OrderSet
	})
	return Unique(result)
}

// sampleFields lists the sample's field names, filtered to the configured
// subset when one is given
func sampleFields(sample *records.Record, dynamicConfig []string) []string {
	if sample == nil || sample.Len() == 0 {
		return nil
	}
	if len(dynamicConfig) == 0 {
		return sample.Keys()
	}
	names := make([]string, 0, len(dynamicConfig))
	seen := make(map[string]bool, len(dynamicConfig))
	for _, name := range dynamicConfig {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := sample.Get(name); ok {
			names = append(names, name)
		}
	}
	return names
}

// overlay layers an explicit column's settings on top of a derived one
func overlay(derived, explicit Column) Column {
	if explicit.Title != "" {
		derived.Title = explicit.Title
	}
	if explicit.DataIndex != "" {
		derived.DataIndex = explicit.DataIndex
	}
	if explicit.Width > 0 {
		derived.Width = explicit.Width
	}
	if explicit.OrderSet {
		derived.Order = explicit.Order
		derived.OrderSet = true
	}
	if explicit.Formatter != nil {
		derived.Formatter = explicit.Formatter
	}
	derived.Hidden = explicit.Hidden
	derived.OnWidthResize = explicit.OnWidthResize
	derived.Sortable = explicit.Sortable
	derived.Editable = explicit.Editable
	return derived
}

// Unique drops columns whose key was already seen, keeping the first
func Unique(cols []Column) []Column {
	seen := make(map[string]bool, len(cols))
	result := make([]Column, 0, len(cols))
	for _, col := range cols {
		if seen[col.Key] {
			continue
		}
		seen[col.Key] = true
		result = append(result, col)
	}
	return result
}

// Visible filters out authored-hidden columns and, when the toolbar column
// setting is in use, the columns the user toggled off.
func Visible(cols []Column, userHidden map[string]bool) []Column {
	result := make([]Column, 0, len(cols))
	for _, col := range cols {
		if col.Hidden || userHidden[col.Key] {
			continue
		}
		result = append(result, col)
	}
	return result
}

// Keys returns the keys of cols in order
func Keys(cols []Column) []string {
	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = col.Key
	}
	return keys
}
