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

package query

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/google/tablegrid/core/sorting"
)

func parse(t *testing.T, raw string) *Query {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) failed: %v", raw, err)
	}
	return NewQuery(u)
}

func TestNewQuery(t *testing.T) {
	q := parse(t, "/grid?widget=orders&s=abc&page=3&size=25&sort=price:desc,name&q=late&hidden=notes,id&widths=name:140,price:0&filter:status=open&filter:status=late")

	want := &Query{
		Path:     "/grid",
		Widget:   "orders",
		Session:  "abc",
		Page:     3,
		PageSize: 25,
		Sort:     []sorting.SortValue{{Column: "price", Desc: true}, {Column: "name"}},
		Search:   "late",
		Filters:  map[string][]string{"status": {"open", "late"}},
		Hidden:   []string{"notes", "id"},
		Widths:   map[string]int{"name": 140},
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("NewQuery() mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidNumbersIgnored(t *testing.T) {
	q := parse(t, "/grid?page=-2&size=abc")
	if q.Page != 0 || q.PageSize != 0 {
		t.Errorf("page=%d size=%d, want widget defaults", q.Page, q.PageSize)
	}
}

func TestRoundTripThroughURL(t *testing.T) {
	q := parse(t, "/grid?widget=orders&page=2&sort=price:desc&q=x&hidden=a&widths=b:90&filter:c=1")
	again := parse(t, q.ToURL())
	if diff := cmp.Diff(q, again, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("state changed through ToURL (-before +after):\n%s", diff)
	}
}

func TestWithSortToggledCycles(t *testing.T) {
	q := parse(t, "/grid?widget=orders&sort=name")

	step := func(q *Query) *Query {
		return parse(t, q.WithSortToggled("price").String())
	}
	q1 := step(q)
	q2 := step(q1)
	q3 := step(q2)

	if got := q1.SortOrder("price"); got != "ascend" {
		t.Errorf("first toggle: %q", got)
	}
	if got := q2.SortOrder("price"); got != "descend" {
		t.Errorf("second toggle: %q", got)
	}
	if got := q3.SortOrder("price"); got != "" {
		t.Errorf("third toggle: %q", got)
	}
	if q3.SortOrder("name") != "ascend" {
		t.Error("other sorted columns should be kept")
	}
}

func TestStateChangesResetPage(t *testing.T) {
	q := parse(t, "/grid?widget=orders&page=4")
	for name, u := range map[string]string{
		"search": q.WithSearch("abc").String(),
		"filter": q.WithFilterToggled("status", "open").String(),
		"size":   q.WithPageSize(50).String(),
	} {
		if got := parse(t, u).Page; got != 1 {
			t.Errorf("%s: page = %d, want 1", name, got)
		}
	}
	if got := parse(t, q.WithPage(5).String()).Page; got != 5 {
		t.Errorf("WithPage: page = %d", got)
	}
}

func TestFilterAndColumnToggles(t *testing.T) {
	q := parse(t, "/grid?widget=orders&filter:status=open")

	off := parse(t, q.WithFilterToggled("status", "open").String())
	if _, ok := off.Filters["status"]; ok {
		t.Errorf("toggling the last value should drop the filter, got %v", off.Filters)
	}
	on := parse(t, q.WithFilterToggled("status", "late").String())
	if diff := cmp.Diff([]string{"open", "late"}, on.Filters["status"]); diff != "" {
		t.Errorf("filter values (-want +got):\n%s", diff)
	}

	hidden := parse(t, q.WithColumnToggled("notes").String())
	if !hidden.IsColumnHidden("notes") || !hidden.HiddenSet()["notes"] {
		t.Error("notes should be hidden")
	}
	shown := parse(t, hidden.WithColumnToggled("notes").String())
	if shown.IsColumnHidden("notes") {
		t.Error("notes should be shown again")
	}
}

func TestWithWidthAndAction(t *testing.T) {
	q := parse(t, "/grid?widget=orders&s=abc")
	if got := parse(t, q.WithWidth("name", 120).String()).Widths["name"]; got != 120 {
		t.Errorf("width = %d", got)
	}

	action := parse(t, q.Action("edit", map[string]string{"row": "r1", "col": "name"}).String())
	if action.Path != "/grid/edit" || action.Widget != "orders" || action.Session != "abc" {
		t.Errorf("action = %+v", action)
	}
}
