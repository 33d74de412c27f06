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

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// ParseJSON decodes a JSON array of objects into records, keeping each
// object's field order. Elements that are not objects are skipped.
func ParseJSON(data []byte) ([]Record, error) {
	return ParseJSONWithID(data, "")
}

// ParseJSONWithID is ParseJSON with row identity read from idField
func ParseJSONWithID(data []byte, idField string) ([]Record, error) {
	var rows []Record
	var parseErr error
	index := 0

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if parseErr != nil {
			return
		}
		if err != nil {
			parseErr = err
			return
		}
		if dataType != jsonparser.Object {
			index++
			return
		}
		fields, err := parseObject(value)
		if err != nil {
			parseErr = fmt.Errorf("row %d: %w", index, err)
			return
		}
		rows = append(rows, NewRecord(index, fields).WithIDField(idField))
		index++
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse records: %w", parseErr)
	}
	return rows, nil
}

// ParseValue decodes a single JSON value
func ParseValue(data []byte) (Value, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return Null(), fmt.Errorf("failed to parse value: %w", err)
	}
	return convert(value, dataType)
}

func parseObject(data []byte) (*OrderedMap[string, Value], error) {
	fields := NewOrderedMap[string, Value]()
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		v, err := convert(value, dataType)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		fields.Set(name, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func convert(value []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return Null(), err
		}
		return String(s), nil
	case jsonparser.Number:
		n, err := jsonparser.ParseFloat(value)
		if err != nil {
			return Null(), err
		}
		return Number(n), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return Null(), err
		}
		return Bool(b), nil
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Object:
		fields, err := parseObject(value)
		if err != nil {
			return Null(), err
		}
		return Object(fields), nil
	case jsonparser.Array:
		items := []Value{}
		var itemErr error
		_, err := jsonparser.ArrayEach(value, func(item []byte, itemType jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			v, err := convert(item, itemType)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, v)
		})
		if err != nil {
			return Null(), err
		}
		if itemErr != nil {
			return Null(), itemErr
		}
		return Array(items), nil
	}
	return Null(), fmt.Errorf("unsupported JSON value %q", string(value))
}
