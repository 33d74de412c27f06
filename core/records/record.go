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

package records

import "strconv"

// Field is a single name/value pair used to build records
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for constructing a Field
func F(name string, value Value) Field {
	return Field{Name: name, Value: value}
}

// Record is one row of the data source. Records are treated as immutable
// inputs; edits are tracked out-of-band by the change set.
type Record struct {
	fields *OrderedMap[string, Value]
	// Index is the stable position of the row in the source data
	Index   int
	idField string
}

// NewRecord wraps an ordered field map. The map must not be modified afterwards.
func NewRecord(index int, fields *OrderedMap[string, Value]) Record {
	if fields == nil {
		fields = NewOrderedMap[string, Value]()
	}
	return Record{fields: fields, Index: index}
}

// Build creates a record from fields in the given order
func Build(index int, fields ...Field) Record {
	m := NewOrderedMap[string, Value]()
	for _, f := range fields {
		m.Set(f.Name, f.Value)
	}
	return NewRecord(index, m)
}

// WithIDField returns a copy of the record whose ID is read from the named field
func (r Record) WithIDField(name string) Record {
	r.idField = name
	return r
}

// ID returns the row identity used to key edits. It is the value of the
// configured id field when present and non-null, otherwise the source index.
func (r Record) ID() string {
	if r.idField != "" {
		if v, ok := r.fields.Get(r.idField); ok && !v.IsNull() {
			return v.Text()
		}
	}
	return strconv.Itoa(r.Index)
}

// Get returns the value of a field
func (r Record) Get(name string) (Value, bool) {
	return r.fields.Get(name)
}

// Value returns the value of a field, or null when the field is missing
func (r Record) Value(name string) Value {
	v, _ := r.fields.Get(name)
	return v
}

// Keys returns field names in their natural order
func (r Record) Keys() []string {
	return r.fields.Keys()
}

// Len returns the number of fields
func (r Record) Len() int {
	return r.fields.Len()
}

// AsValue returns the record as an object value
func (r Record) AsValue() Value {
	return Object(r.fields)
}

// Sample returns the representative record used to derive dynamic columns:
// the first row, or nil when there is no data.
func Sample(rows []Record) *Record {
	if len(rows) == 0 {
		return nil
	}
	sample := rows[0]
	return &sample
}
