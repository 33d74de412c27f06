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

// Package paging windows record sequences into pages. Windowing is local
// only when the data holds more rows than one page; otherwise the data is
// assumed to be windowed already by its source.
package paging

import (
	"github.com/google/tablegrid/core/records"
)

// Pagination is the requested paging state. Total overrides len(data) when
// positive, which is how a server-paged source reports its full size.
type Pagination struct {
	Current  int
	PageSize int
	Total    int
}

// DataWindow is the slice of data visible on the current page
type DataWindow struct {
	Total    int
	Current  int
	PageSize int
	Rows     []records.Record
	// Offset is the source position of Rows[0]
	Offset int
	// Local reports whether this window was cut from the data here
	Local bool
}

// Window computes the visible rows for p. It never fails: a current page
// that is out of range for the total is reset to 1.
func Window(data []records.Record, p Pagination) DataWindow {
	total := p.Total
	if total <= 0 {
		total = len(data)
	}
	w := DataWindow{
		Total:    total,
		Current:  p.Current,
		PageSize: p.PageSize,
	}

	if p.PageSize <= 0 || len(data) <= p.PageSize {
		if stale(p.Current, p.PageSize, total) {
			w.Current = 1
		}
		w.Rows = data
		return w
	}

	if stale(p.Current, p.PageSize, total) {
		w.Current = 1
	}
	offset := (w.Current - 1) * p.PageSize
	if offset >= len(data) {
		// total override larger than the data we hold
		w.Current = 1
		offset = 0
	}
	end := offset + p.PageSize
	if end > len(data) {
		end = len(data)
	}
	w.Rows = data[offset:end]
	w.Offset = offset
	w.Local = true
	return w
}

// stale reports whether current cannot address any row of total
func stale(current, pageSize, total int) bool {
	if current < 1 {
		return true
	}
	if pageSize <= 0 {
		return false
	}
	return current > 1 && (current-1)*pageSize >= total
}

// PageCount returns the number of pages needed for total rows
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
