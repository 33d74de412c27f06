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

// Package sorting orders and filters records ahead of pagination.
package sorting

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/google/tablegrid/core/records"
)

// SortValue is one entry of the multi-column sort state
type SortValue struct {
	Column string
	Desc   bool
}

// sorter compares records by a list of sort values
type sorter []SortValue

// compare returns negative if a sorts before b. Ties fall back to the
// source index so the order is stable and deterministic.
func (s sorter) compare(a, b records.Record) int {
	for _, sv := range s {
		cmp := records.Compare(a.Value(sv.Column), b.Value(sv.Column))
		if cmp != 0 {
			if sv.Desc {
				return -cmp
			}
			return cmp
		}
	}
	return a.Index - b.Index
}

// Apply returns rows sorted by sort. The input is not modified. An empty
// sort returns rows as they are.
func Apply(rows []records.Record, sort []SortValue) []records.Record {
	if len(sort) == 0 || len(rows) < 2 {
		return rows
	}
	out := make([]records.Record, len(rows))
	copy(out, rows)
	s := sorter(sort)
	sortRecords(out, s)
	return out
}

func sortRecords(rows []records.Record, s sorter) {
	sort.SliceStable(rows, func(i, j int) bool {
		return s.compare(rows[i], rows[j]) < 0
	})
}

// topKHeap is a max-heap holding the k best rows seen so far, worst on top
type topKHeap struct {
	rows []records.Record
	s    sorter
}

func (h *topKHeap) Len() int { return len(h.rows) }

func (h *topKHeap) Less(i, j int) bool {
	return h.s.compare(h.rows[i], h.rows[j]) > 0
}

func (h *topKHeap) Swap(i, j int) {
	h.rows[i], h.rows[j] = h.rows[j], h.rows[i]
}

func (h *topKHeap) Push(x interface{}) {
	h.rows = append(h.rows, x.(records.Record))
}

func (h *topKHeap) Pop() interface{} {
	old := h.rows
	n := len(old)
	x := old[n-1]
	h.rows = old[0 : n-1]
	return x
}

// TopK returns the first k rows of Apply(rows, sort) without sorting
// everything: O(n log k).
func TopK(rows []records.Record, sort []SortValue, k int) []records.Record {
	if k <= 0 || len(rows) == 0 {
		return []records.Record{}
	}
	if len(sort) == 0 {
		if k >= len(rows) {
			return rows
		}
		return rows[:k]
	}
	if k >= len(rows) {
		return Apply(rows, sort)
	}

	h := &topKHeap{rows: make([]records.Record, 0, k), s: sorter(sort)}
	h.rows = append(h.rows, rows[:k]...)
	heap.Init(h)
	for _, r := range rows[k:] {
		if h.s.compare(r, h.rows[0]) < 0 {
			heap.Pop(h)
			heap.Push(h, r)
		}
	}
	sortRecords(h.rows, h.s)
	return h.rows
}

// Search keeps rows where any field's text contains text, ignoring case.
// An empty text keeps everything.
func Search(rows []records.Record, text string) []records.Record {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return rows
	}
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		for _, key := range r.Keys() {
			if strings.Contains(strings.ToLower(r.Value(key).Text()), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Filters maps a column to the values it accepts
type Filters map[string][]string

// Columns returns the filtered columns, sorted
func (f Filters) Columns() []string {
	cols := make([]string, 0, len(f))
	for col, values := range f {
		if len(values) > 0 {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// ApplyFilters keeps rows whose value text is one of the accepted values
// for every filtered column
func ApplyFilters(rows []records.Record, f Filters) []records.Record {
	cols := f.Columns()
	if len(cols) == 0 {
		return rows
	}
	accept := make(map[string]map[string]bool, len(cols))
	for _, col := range cols {
		set := make(map[string]bool, len(f[col]))
		for _, v := range f[col] {
			set[v] = true
		}
		accept[col] = set
	}
	out := make([]records.Record, 0, len(rows))
	for _, r := range rows {
		keep := true
		for _, col := range cols {
			if !accept[col][r.Value(col).Text()] {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}
