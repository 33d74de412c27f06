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

package views

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/notify"
	"github.com/google/tablegrid/core/query"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/resize"
)

func sampleGrid() grid.Grid {
	return grid.Grid{
		ShowHeader:  true,
		Bordered:    true,
		TableLayout: grid.TableLayoutFixed,
		Size:        grid.SizeSmall,
		ScrollX:     110,
		Header: []grid.HeaderCell{
			{Index: 0, Key: "name", Title: "Name", Layout: resize.Layout(0), Sortable: true, SortOrder: "ascend", Resize: &grid.ResizeHooks{}},
			{Index: 1, Key: "price", Title: "Price", Layout: resize.Layout(30), Align: "right"},
		},
		Rows: []grid.Row{
			{
				ID:    "r1",
				Hover: true,
				Cells: []grid.Cell{
					{Key: "name", Text: "apple", Value: records.String("apple"), Editable: true, Editing: true, HideExpand: true},
					{Key: "price", Text: "3", Changed: true, Align: "right"},
				},
			},
		},
		Toolbar: grid.ToolbarView{
			Position:     grid.ToolbarAbove,
			Total:        21,
			Current:      2,
			PageSize:     10,
			PageCount:    3,
			HasChange:    true,
			PendingEdits: 1,
			ShowRefresh:  true,
			Columns:      []grid.ColumnToggle{{Key: "name", Title: "Name", Visible: true}},
		},
	}
}

func pageQuery(t *testing.T) *query.Query {
	t.Helper()
	u, err := url.Parse("/grid?widget=orders&s=abc&page=2")
	if err != nil {
		t.Fatal(err)
	}
	return query.NewQuery(u)
}

func TestBuildGridViewModel(t *testing.T) {
	toasts := []notify.Toast{{Level: notify.LevelWarning, Message: "careful"}}
	vm := BuildGridViewModel(sampleGrid(), pageQuery(t), i18n.Parse("en"), toasts)

	if vm.Widget != "orders" || vm.Size != "small" || !vm.ToolbarAbove() || vm.ToolbarBelow() || vm.Empty() {
		t.Errorf("unexpected view model flags: %+v", vm)
	}
	if got := vm.TableStyle.String(); got != "min-width:110px;table-layout:fixed;" {
		t.Errorf("table style = %q", got)
	}

	name, price := vm.Headers[0], vm.Headers[1]
	if got := name.Style.String(); got != "min-width:55px;" {
		t.Errorf("auto column style = %q", got)
	}
	if price.Width != resize.MinColumnWidth || price.Style.String() != "width:55px;min-width:55px;" {
		t.Errorf("narrow column should be clamped, got width %d style %q", price.Width, price.Style.String())
	}
	if !name.Resizable || price.Resizable {
		t.Error("resizable follows the presence of hooks")
	}
	if !strings.Contains(name.ResizeURL.String(), "/grid/resize") || !strings.Contains(name.SortURL.String(), "sort=name") {
		t.Errorf("header urls: resize %q sort %q", name.ResizeURL.String(), name.SortURL.String())
	}

	row := vm.Rows[0]
	if row.Class != "row hover" || !strings.Contains(row.HoverURL.String(), "on=false") {
		t.Errorf("row class %q hover url %q", row.Class, row.HoverURL.String())
	}
	if got := row.Cells[0].Class; got != "cell editing no-expand" {
		t.Errorf("editing cell class = %q", got)
	}
	if got := row.Cells[1].Class; got != "cell changed" {
		t.Errorf("changed cell class = %q", got)
	}
	if !strings.Contains(row.Cells[0].CommitURL.String(), "/grid/commit") || row.Cells[1].EditURL.String() != "" {
		t.Errorf("commit url %q, read-only edit url %q", row.Cells[0].CommitURL.String(), row.Cells[1].EditURL.String())
	}

	tb := vm.Toolbar
	if tb.Summary != "Page 2 of 3 · 21 rows" || tb.Pending != "1 unsaved changes" {
		t.Errorf("summary %q pending %q", tb.Summary, tb.Pending)
	}
	if len(tb.Pages) != 3 || !tb.Pages[1].Current {
		t.Errorf("pages = %+v", tb.Pages)
	}
	if len(tb.Columns) != 1 || !strings.Contains(tb.Columns[0].ToggleURL.String(), "hidden=name") {
		t.Errorf("column toggles = %+v", tb.Columns)
	}
	if len(vm.Toasts) != 1 || vm.Toasts[0].Level != "warning" {
		t.Errorf("toasts = %+v", vm.Toasts)
	}
}

func TestCellBackgroundStyle(t *testing.T) {
	g := sampleGrid()
	g.Rows[0].Cells[0].Paint = coloring.Paint(func(coloring.Context) string { return "#ffccc7" }, coloring.Context{}, coloring.Overlays{})
	g.Rows[0].Cells[1].Paint = coloring.Paint(func(coloring.Context) string { return "red;position:fixed" }, coloring.Context{}, coloring.Overlays{})

	vm := BuildGridViewModel(g, pageQuery(t), i18n.Parse("en"), nil)
	if got := vm.Rows[0].Cells[0].Style.String(); got != "background:linear-gradient(#ffccc7, #ffccc7);" {
		t.Errorf("colored cell style = %q", got)
	}
	if got := vm.Rows[0].Cells[1].Style.String(); got != "text-align:right;" {
		t.Errorf("unsafe color must be dropped, got %q", got)
	}
}

func TestLocalizedLabels(t *testing.T) {
	vm := BuildGridViewModel(sampleGrid(), pageQuery(t), i18n.Parse("zh"), nil)
	if vm.Toolbar.RefreshText != "刷新" || vm.EmptyText != "暂无数据" {
		t.Errorf("labels: refresh %q empty %q", vm.Toolbar.RefreshText, vm.EmptyText)
	}
}
