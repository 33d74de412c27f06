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

// Package views turns a composed grid into the view model the HTML
// templates consume. Every link carries the page's query state.
package views

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/safehtml"
	"github.com/google/safehtml/uncheckedconversions"

	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/notify"
	"github.com/google/tablegrid/core/query"
	"github.com/google/tablegrid/core/resize"
)

// GridViewModel contains the composed grid formatted for template consumption
type GridViewModel struct {
	Title      string
	Widget     string
	Size       string
	ShowHeader bool
	Bordered   bool
	Loading    bool
	TableStyle safehtml.Style

	Headers []HeaderViewModel
	Rows    []RowViewModel
	Toolbar ToolbarViewModel
	Toasts  []ToastViewModel

	// Localized labels
	EmptyText   string
	LoadingText string
}

// ToolbarAbove reports whether the toolbar is drawn above the table
func (vm GridViewModel) ToolbarAbove() bool {
	return vm.Toolbar.Position == string(grid.ToolbarAbove)
}

// ToolbarBelow reports whether the toolbar is drawn below the table
func (vm GridViewModel) ToolbarBelow() bool {
	return vm.Toolbar.Position == string(grid.ToolbarBelow)
}

// Empty reports whether there are no rows to draw
func (vm GridViewModel) Empty() bool {
	return len(vm.Rows) == 0
}

// HeaderViewModel is one column header
type HeaderViewModel struct {
	Key       string
	Title     string
	Align     string
	Style     safehtml.Style
	Width     int // 0 when auto
	Sortable  bool
	SortOrder string
	SortURL   safehtml.URL
	// ResizeURL is empty when resizing is bypassed
	ResizeURL safehtml.URL
	Resizable bool
}

// RowViewModel is one body row
type RowViewModel struct {
	ID       string
	Class    string
	ClickURL safehtml.URL
	HoverURL safehtml.URL // toggles hover
	Cells    []CellViewModel
}

// CellViewModel is one body cell
type CellViewModel struct {
	Key      string
	Text     string
	Class    string
	Style    safehtml.Style
	Editing  bool
	Editable bool
	// EditURL enters edit mode; CommitURL receives the edited value
	EditURL   safehtml.URL
	CommitURL safehtml.URL
}

// ToolbarViewModel is the toolbar
type ToolbarViewModel struct {
	Position     string
	Summary      string
	Pages        []PageLink
	ShowRefresh  bool
	ShowDownload bool
	ShowFilter   bool
	RefreshURL   safehtml.URL
	DownloadURL  safehtml.URL
	SearchURL    safehtml.URL
	Search       string
	HasChange    bool
	Pending      string
	SaveURL      safehtml.URL
	CancelURL    safehtml.URL
	Columns      []ColumnToggleViewModel

	// Localized labels
	RefreshText  string
	DownloadText string
	SearchText   string
	SaveText     string
	CancelText   string
	ColumnsText  string
}

// PageLink is one entry of the pager
type PageLink struct {
	Number  int
	URL     safehtml.URL
	Current bool
}

// ColumnToggleViewModel is one entry of the column setting
type ColumnToggleViewModel struct {
	Key       string
	Title     string
	Visible   bool
	ToggleURL safehtml.URL
}

// ToastViewModel is one notification
type ToastViewModel struct {
	Level   string
	Message string
}

// cssValue matches the characters color and size values may use. It keeps
// declarations from escaping their property.
var cssValue = regexp.MustCompile(`^[#%(),.\w\s-]*$`)

// style builds a Style from property/value pairs, dropping values that
// are not plain CSS values
func style(props ...string) safehtml.Style {
	var b strings.Builder
	for i := 0; i+1 < len(props); i += 2 {
		if props[i+1] == "" || !cssValue.MatchString(props[i+1]) {
			continue
		}
		b.WriteString(props[i])
		b.WriteString(":")
		b.WriteString(props[i+1])
		b.WriteString(";")
	}
	return uncheckedconversions.StyleFromStringKnownToSatisfyTypeContract(b.String())
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}

// BuildGridViewModel builds the view model for g. q is the state of the
// page being rendered; toasts are shown above the grid.
func BuildGridViewModel(g grid.Grid, q *query.Query, tr *i18n.Translator, toasts []notify.Toast) GridViewModel {
	vm := GridViewModel{
		Title:       q.Widget,
		Widget:      q.Widget,
		Size:        string(g.Size),
		ShowHeader:  g.ShowHeader,
		Bordered:    g.Bordered,
		Loading:     g.Loading,
		TableStyle:  style("min-width", px(g.ScrollX), "table-layout", g.TableLayout),
		EmptyText:   tr.T(i18n.Empty),
		LoadingText: tr.T(i18n.Loading),
	}

	for _, h := range g.Header {
		hv := HeaderViewModel{
			Key:       h.Key,
			Title:     h.Title,
			Align:     h.Align,
			Sortable:  h.Sortable,
			SortOrder: h.SortOrder,
			Resizable: h.Resize != nil,
		}
		if h.Layout.Auto {
			hv.Style = style("min-width", px(h.Layout.MinWidth))
		} else {
			hv.Width = h.Layout.Width
			hv.Style = style("width", px(h.Layout.Width), "min-width", px(resize.MinColumnWidth))
		}
		if h.Sortable {
			hv.SortURL = q.WithSortToggled(h.Key)
		}
		if hv.Resizable {
			hv.ResizeURL = q.Action("resize", map[string]string{"col": strconv.Itoa(h.Index)})
		}
		vm.Headers = append(vm.Headers, hv)
	}

	for _, r := range g.Rows {
		rv := RowViewModel{
			ID:       r.ID,
			Class:    rowClass(r),
			ClickURL: q.Action("click", map[string]string{"row": r.ID}),
			HoverURL: q.Action("hover", map[string]string{"row": r.ID, "on": strconv.FormatBool(!r.Hover)}),
		}
		for _, c := range r.Cells {
			cv := CellViewModel{
				Key:      c.Key,
				Text:     c.Text,
				Class:    cellClass(c),
				Style:    style("background", c.Background(), "text-align", c.Align),
				Editing:  c.Editing,
				Editable: c.Editable,
			}
			if c.Editable {
				params := map[string]string{"row": r.ID, "col": c.Key}
				cv.EditURL = q.Action("edit", params)
				cv.CommitURL = q.Action("commit", params)
			}
			rv.Cells = append(rv.Cells, cv)
		}
		vm.Rows = append(vm.Rows, rv)
	}

	vm.Toolbar = buildToolbar(g.Toolbar, q, tr)
	for _, t := range toasts {
		vm.Toasts = append(vm.Toasts, ToastViewModel{Level: string(t.Level), Message: t.Message})
	}
	return vm
}

func buildToolbar(tb grid.ToolbarView, q *query.Query, tr *i18n.Translator) ToolbarViewModel {
	v := ToolbarViewModel{
		Position:     string(tb.Position),
		Summary:      fmt.Sprintf("%s · %s", tr.T(i18n.PageOf, tb.Current, tb.PageCount), tr.T(i18n.Total, tb.Total)),
		ShowRefresh:  tb.ShowRefresh,
		ShowDownload: tb.ShowDownload,
		ShowFilter:   tb.ShowFilter,
		RefreshURL:   q.Action("refresh", nil),
		DownloadURL:  q.Action("download", nil),
		SearchURL:    q.Action("search", nil),
		Search:       tb.Search,
		HasChange:    tb.HasChange,
		SaveURL:      q.Action("save", nil),
		CancelURL:    q.Action("cancel", nil),
		RefreshText:  tr.T(i18n.Refresh),
		DownloadText: tr.T(i18n.Download),
		SearchText:   tr.T(i18n.Search),
		SaveText:     tr.T(i18n.Save),
		CancelText:   tr.T(i18n.Cancel),
		ColumnsText:  tr.T(i18n.ColumnSetting),
	}
	if tb.HasChange {
		v.Pending = tr.T(i18n.Edited, tb.PendingEdits)
	}
	if tb.PageCount > 1 {
		for n := 1; n <= tb.PageCount; n++ {
			v.Pages = append(v.Pages, PageLink{Number: n, URL: q.WithPage(n), Current: n == tb.Current})
		}
	}
	for _, c := range tb.Columns {
		v.Columns = append(v.Columns, ColumnToggleViewModel{
			Key:       c.Key,
			Title:     c.Title,
			Visible:   c.Visible,
			ToggleURL: q.WithColumnToggled(c.Key),
		})
	}
	return v
}

func rowClass(r grid.Row) string {
	classes := []string{"row"}
	if r.Hover {
		classes = append(classes, "hover")
	}
	if r.Selected {
		classes = append(classes, "selected")
	}
	return strings.Join(classes, " ")
}

func cellClass(c grid.Cell) string {
	classes := []string{"cell"}
	if c.Changed {
		classes = append(classes, "changed")
	}
	if c.Editing {
		classes = append(classes, "editing")
	}
	if c.HideExpand {
		classes = append(classes, "no-expand")
	}
	return strings.Join(classes, " ")
}
