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

// Package query encodes the view state of a grid page in its URL so every
// link and form on the page can carry it forward.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/google/safehtml"

	"github.com/google/tablegrid/core/sorting"
)

// Query represents the parsed state of a grid view URL
type Query struct {
	// Base path (e.g., "/grid")
	Path string

	Widget   string // The widget being viewed
	Session  string // Session id; empty starts a new session
	Page     int    // Current page (0 = widget default)
	PageSize int    // Page size (0 = widget default)
	Sort     []sorting.SortValue
	Search   string
	Filters  map[string][]string // column key -> accepted values
	Hidden   []string            // columns switched off in the column setting
	Widths   map[string]int      // committed column widths in pixels
}

// NewQuery creates a Query from a URL
func NewQuery(u *url.URL) *Query {
	state := &Query{
		Path:    u.Path,
		Filters: make(map[string][]string),
		Widths:  make(map[string]int),
	}

	q := u.Query()
	state.Widget = q.Get("widget")
	state.Session = q.Get("s")
	state.Search = q.Get("q")

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		state.Page = page
	}
	if size, err := strconv.Atoi(q.Get("size")); err == nil && size > 0 {
		state.PageSize = size
	}

	// Extract sort parameter (format: col1:desc,col2)
	if sortStr := q.Get("sort"); sortStr != "" {
		for _, part := range strings.Split(sortStr, ",") {
			if part == "" {
				continue
			}
			sv := sorting.SortValue{Column: part}
			if name, dir, ok := strings.Cut(part, ":"); ok {
				sv.Column = name
				sv.Desc = dir == "desc"
			}
			state.Sort = append(state.Sort, sv)
		}
	}

	if hidden := q.Get("hidden"); hidden != "" {
		state.Hidden = strings.Split(hidden, ",")
	}

	// Extract widths parameter (format: col1:120,col2:80)
	if widths := q.Get("widths"); widths != "" {
		for _, part := range strings.Split(widths, ",") {
			name, w, ok := strings.Cut(part, ":")
			if !ok {
				continue
			}
			if width, err := strconv.Atoi(w); err == nil && width > 0 {
				state.Widths[name] = width
			}
		}
	}

	// Extract filter parameters (format: filter:columnKey=value, repeated)
	for key, values := range q {
		if strings.HasPrefix(key, "filter:") && len(values) > 0 {
			state.Filters[strings.TrimPrefix(key, "filter:")] = append([]string(nil), values...)
		}
	}

	return state
}

// Clone creates a deep copy of the Query
func (s *Query) Clone() *Query {
	clone := &Query{
		Path:     s.Path,
		Widget:   s.Widget,
		Session:  s.Session,
		Page:     s.Page,
		PageSize: s.PageSize,
		Sort:     append([]sorting.SortValue(nil), s.Sort...),
		Search:   s.Search,
		Filters:  make(map[string][]string, len(s.Filters)),
		Hidden:   append([]string(nil), s.Hidden...),
		Widths:   make(map[string]int, len(s.Widths)),
	}
	for col, values := range s.Filters {
		clone.Filters[col] = append([]string(nil), values...)
	}
	for col, width := range s.Widths {
		clone.Widths[col] = width
	}
	return clone
}

// SortedFilters returns the filters in the form the sorting package takes
func (s *Query) SortedFilters() sorting.Filters {
	f := make(sorting.Filters, len(s.Filters))
	for col, values := range s.Filters {
		f[col] = values
	}
	return f
}

// WithPage returns a URL showing page
func (s *Query) WithPage(page int) safehtml.URL {
	newState := s.Clone()
	newState.Page = page
	return newState.ToSafeURL()
}

// WithPageSize returns a URL with a different page size, back on page 1
func (s *Query) WithPageSize(size int) safehtml.URL {
	newState := s.Clone()
	newState.PageSize = size
	newState.Page = 1
	return newState.ToSafeURL()
}

// SortOrder returns "ascend", "descend" or "" for a column
func (s *Query) SortOrder(column string) string {
	for _, sv := range s.Sort {
		if sv.Column == column {
			if sv.Desc {
				return "descend"
			}
			return "ascend"
		}
	}
	return ""
}

// WithSortToggled returns a URL cycling the sort of column through
// ascending, descending and unsorted. Other sorted columns are kept.
func (s *Query) WithSortToggled(column string) safehtml.URL {
	newState := s.Clone()
	newSort := make([]sorting.SortValue, 0, len(s.Sort)+1)
	found := false
	for _, sv := range s.Sort {
		if sv.Column != column {
			newSort = append(newSort, sv)
			continue
		}
		found = true
		if !sv.Desc {
			newSort = append(newSort, sorting.SortValue{Column: column, Desc: true})
		}
	}
	if !found {
		newSort = append(newSort, sorting.SortValue{Column: column})
	}
	newState.Sort = newSort
	return newState.ToSafeURL()
}

// WithSearch returns a URL searching for text, back on page 1
func (s *Query) WithSearch(text string) safehtml.URL {
	newState := s.Clone()
	newState.Search = text
	newState.Page = 1
	return newState.ToSafeURL()
}

// WithFilterToggled returns a URL with value added to or removed from the
// accepted values of column, back on page 1
func (s *Query) WithFilterToggled(column, value string) safehtml.URL {
	newState := s.Clone()
	values := newState.Filters[column]
	kept := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == value {
			found = true
		} else {
			kept = append(kept, v)
		}
	}
	if !found {
		kept = append(kept, value)
	}
	if len(kept) == 0 {
		delete(newState.Filters, column)
	} else {
		newState.Filters[column] = kept
	}
	newState.Page = 1
	return newState.ToSafeURL()
}

// IsColumnHidden checks if a column is switched off
func (s *Query) IsColumnHidden(column string) bool {
	for _, col := range s.Hidden {
		if col == column {
			return true
		}
	}
	return false
}

// WithColumnToggled returns a URL with the column switched on or off
func (s *Query) WithColumnToggled(column string) safehtml.URL {
	newState := s.Clone()
	newHidden := make([]string, 0, len(s.Hidden)+1)
	found := false
	for _, col := range s.Hidden {
		if col == column {
			found = true
		} else {
			newHidden = append(newHidden, col)
		}
	}
	if !found {
		newHidden = append(newHidden, column)
	}
	newState.Hidden = newHidden
	return newState.ToSafeURL()
}

// HiddenSet returns the hidden columns as a set
func (s *Query) HiddenSet() map[string]bool {
	set := make(map[string]bool, len(s.Hidden))
	for _, col := range s.Hidden {
		set[col] = true
	}
	return set
}

// WithWidth returns a URL recording a committed column width
func (s *Query) WithWidth(column string, width int) safehtml.URL {
	newState := s.Clone()
	newState.Widths[column] = width
	return newState.ToSafeURL()
}

// Action returns the URL of a POST endpoint under the grid path. The
// current view state rides along so the handler can redirect back to it.
func (s *Query) Action(name string, params map[string]string) safehtml.URL {
	u, err := url.Parse(s.ToURL())
	if err != nil {
		return safehtml.URLSanitized("about:invalid")
	}
	u.Path = strings.TrimSuffix(s.Path, "/") + "/" + name
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return safehtml.URLSanitized(u.String())
}

// ToURL converts the Query back to a URL string
func (s *Query) ToURL() string {
	u := &url.URL{
		Path: s.Path,
	}

	q := u.Query()
	if s.Widget != "" {
		q.Set("widget", s.Widget)
	}
	if s.Session != "" {
		q.Set("s", s.Session)
	}
	if s.Page > 0 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 {
		q.Set("size", strconv.Itoa(s.PageSize))
	}
	if len(s.Sort) > 0 {
		parts := make([]string, len(s.Sort))
		for i, sv := range s.Sort {
			parts[i] = sv.Column
			if sv.Desc {
				parts[i] += ":desc"
			}
		}
		q.Set("sort", strings.Join(parts, ","))
	}
	if s.Search != "" {
		q.Set("q", s.Search)
	}
	if len(s.Hidden) > 0 {
		q.Set("hidden", strings.Join(s.Hidden, ","))
	}
	if len(s.Widths) > 0 {
		cols := make([]string, 0, len(s.Widths))
		for col := range s.Widths {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = col + ":" + strconv.Itoa(s.Widths[col])
		}
		q.Set("widths", strings.Join(parts, ","))
	}
	for col, values := range s.Filters {
		for _, v := range values {
			q.Add("filter:"+col, v)
		}
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// ToSafeURL converts the Query to a safehtml.URL
func (s *Query) ToSafeURL() safehtml.URL {
	return safehtml.URLSanitized(s.ToURL())
}
