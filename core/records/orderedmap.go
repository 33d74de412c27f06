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

import "iter"

// OrderedMap keeps keys in the order they were first set. Records use it
// so that dynamic columns follow the field order of the source data.
type OrderedMap[K comparable, V any] struct {
	entries []entry[K, V]
	index   map[K]int
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// NewOrderedMap returns an empty map
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{index: make(map[K]int)}
}

// Set stores value under key. A key that is already present keeps its
// position.
func (om *OrderedMap[K, V]) Set(key K, value V) {
	if i, ok := om.index[key]; ok {
		om.entries[i].value = value
		return
	}
	om.index[key] = len(om.entries)
	om.entries = append(om.entries, entry[K, V]{key: key, value: value})
}

func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	if om == nil {
		var zero V
		return zero, false
	}
	i, ok := om.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return om.entries[i].value, true
}

func (om *OrderedMap[K, V]) Has(key K) bool {
	if om == nil {
		return false
	}
	_, ok := om.index[key]
	return ok
}

// Delete removes key; later keys move up one position
func (om *OrderedMap[K, V]) Delete(key K) {
	i, ok := om.index[key]
	if !ok {
		return
	}
	delete(om.index, key)
	om.entries = append(om.entries[:i], om.entries[i+1:]...)
	for j := i; j < len(om.entries); j++ {
		om.index[om.entries[j].key] = j
	}
}

func (om *OrderedMap[K, V]) Len() int {
	if om == nil {
		return 0
	}
	return len(om.entries)
}

// Keys returns a copy of the keys in order
func (om *OrderedMap[K, V]) Keys() []K {
	if om == nil {
		return nil
	}
	keys := make([]K, len(om.entries))
	for i, e := range om.entries {
		keys[i] = e.key
	}
	return keys
}

// Values returns the values in key order
func (om *OrderedMap[K, V]) Values() []V {
	if om == nil {
		return nil
	}
	values := make([]V, len(om.entries))
	for i, e := range om.entries {
		values[i] = e.value
	}
	return values
}

// Clear removes every pair
func (om *OrderedMap[K, V]) Clear() {
	om.entries = nil
	om.index = make(map[K]int)
}

// All iterates over the pairs in order
func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if om == nil {
			return
		}
		for _, e := range om.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Range calls f for each pair in order until f returns false
func (om *OrderedMap[K, V]) Range(f func(key K, value V) bool) {
	for k, v := range om.All() {
		if !f(k, v) {
			return
		}
	}
}
