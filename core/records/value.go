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

// Package records models the dynamically typed rows a table widget is fed
// with. A Record is an ordered mapping from field name to a tagged Value plus
// the row's position in the source data.
package records

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Kind identifies which member of the Value union is set
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a JSON-like tagged value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  *OrderedMap[string, Value]
	arr  []Value
}

// Null returns the null value
func Null() Value { return Value{} }

// String creates a string value
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a numeric value
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool creates a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Object creates an object value. Field order is preserved.
func Object(fields *OrderedMap[string, Value]) Value {
	if fields == nil {
		fields = NewOrderedMap[string, Value]()
	}
	return Value{kind: KindObject, obj: fields}
}

// Array creates an array value
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// Kind returns the member of the union that is set
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload, or "" for other kinds
func (v Value) Str() string { return v.str }

// Num returns the numeric payload, or 0 for other kinds
func (v Value) Num() float64 { return v.num }

// BoolVal returns the boolean payload, or false for other kinds
func (v Value) BoolVal() bool { return v.b }

// Fields returns the object payload, or nil for other kinds
func (v Value) Fields() *OrderedMap[string, Value] { return v.obj }

// Items returns the array payload, or nil for other kinds
func (v Value) Items() []Value { return v.arr }

// Text returns the display form of the value. Null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindObject, KindArray:
		data, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// FormatNumber renders integers without a fractional part and everything
// else in the shortest exact decimal form
func FormatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Equal reports whether two values are deeply equal
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for key, value := range v.obj.All() {
			if o, ok := other.obj.Get(key); !ok || !value.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the value, keeping object field order
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindString:
		data, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindNumber:
		buf.WriteString(FormatNumber(v.num))
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		var err error
		first := true
		v.obj.Range(func(key string, value Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			var k []byte
			if k, err = json.Marshal(key); err != nil {
				return false
			}
			buf.Write(k)
			buf.WriteByte(':')
			err = value.writeJSON(buf)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	return nil
}

// Infer converts raw text (for example a CSV cell) into the narrowest value:
// empty text is null, "true"/"false" are booleans, numeric text is a number
// and everything else stays a string.
func Infer(raw string) Value {
	if raw == "" {
		return Null()
	}
	if raw == "true" || raw == "false" {
		return Bool(raw == "true")
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return Number(n)
	}
	return String(raw)
}
