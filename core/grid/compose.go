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

package grid

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/resize"
	"github.com/google/tablegrid/core/sorting"
)

// Compose runs one render pass over src. It never fails: unresolvable
// colors, stale pages and unmeasured columns degrade to defaults.
func (w *Widget) Compose(src Source) Grid {
	start := time.Now()
	data := src.Records()

	resolved := columns.Resolve(w.props.Columns, w.props.DynamicColumn, w.props.DynamicColumnConfig, records.Sample(data))
	var hidden map[string]bool
	if w.props.Toolbar.ColumnSetting {
		hidden = w.props.HiddenColumns
	}
	visible := columns.Visible(resolved, hidden)

	w.lastColumns = visible
	w.byID = make(map[string]records.Record, len(data))
	for _, r := range data {
		w.byID[r.ID()] = r
	}

	sort, filters := w.fieldSort(resolved), w.fieldFilters(resolved)
	view := w.filter(data, filters)

	p := w.props.Pagination
	if len(view) != len(data) && p.Total <= 0 {
		p.Total = len(view)
	}
	if len(sort) > 0 && p.Current <= 1 && p.PageSize > 0 && len(view) > p.PageSize {
		// Only the first page is shown: select it instead of sorting everything
		if p.Total <= 0 {
			p.Total = len(view)
		}
		view = sorting.TopK(view, sort, p.PageSize)
	} else {
		view = sorting.Apply(view, sort)
	}
	win := w.pager.Window(w.viewKey(src.Name(), sort, filters), src.Version(), view, p)

	g := Grid{
		ShowHeader:  !w.props.HideHeader,
		Bordered:    !w.props.HideBordered,
		TableLayout: TableLayoutFixed,
		Size:        w.props.Size,
		ScrollX:     resize.MinColumnWidth * len(visible),
		Loading:     w.loading || (w.props.ShowDataLoadSpinner && src.IsLoading()) || w.props.Loading,
	}
	g.Header = w.header(visible)
	g.Rows = w.body(visible, win)
	g.Toolbar = ToolbarView{
		Position:     w.props.Toolbar.Position,
		Total:        win.Total,
		Current:      win.Current,
		PageSize:     win.PageSize,
		PageCount:    paging.PageCount(win.Total, win.PageSize),
		HasChange:    w.changes.Tracker.HasChange(),
		PendingEdits: w.changes.Tracker.Len(),
		ShowRefresh:  w.props.Toolbar.ShowRefresh,
		ShowDownload: w.props.Toolbar.ShowDownload,
		ShowFilter:   w.props.Toolbar.ShowFilter,
		Search:       w.search,
	}
	if w.props.Toolbar.ColumnSetting {
		g.Toolbar.Columns = toggles(resolved, w.props.HiddenColumns)
	}

	w.metrics.ObserveCompose(w.props.Name, time.Since(start), len(g.Rows))
	w.log.WithFields(logrus.Fields{
		"columns": len(visible),
		"rows":    len(g.Rows),
		"page":    win.Current,
	}).Debug("composed")
	return g
}

// filter applies the column filters and the search text to data
func (w *Widget) filter(data []records.Record, filters sorting.Filters) []records.Record {
	return sorting.Search(sorting.ApplyFilters(data, filters), w.search)
}

// Rows returns every row of src that passes the current filters and
// search, in the current sort, across all pages
func (w *Widget) Rows(src Source) []records.Record {
	data := src.Records()
	resolved := columns.Resolve(w.props.Columns, w.props.DynamicColumn, w.props.DynamicColumnConfig, records.Sample(data))
	return sorting.Apply(w.filter(data, w.fieldFilters(resolved)), w.fieldSort(resolved))
}

func (w *Widget) header(cols []columns.Column) []HeaderCell {
	order := make(map[string]string, len(w.sort))
	for _, sv := range w.sort {
		if sv.Desc {
			order[sv.Column] = "descend"
		} else {
			order[sv.Column] = "ascend"
		}
	}
	resizable := w.resizable()

	out := make([]HeaderCell, len(cols))
	for i, col := range cols {
		hc := HeaderCell{
			Index:     i,
			Key:       col.Key,
			Title:     col.TitleText(),
			Layout:    resize.Layout(w.resize.EffectiveWidth(i, col.Width)),
			Sortable:  col.Sortable,
			SortOrder: order[col.Key],
			Align:     col.Align(),
		}
		if resizable {
			hc.Resize = w.hooks(i)
		}
		out[i] = hc
	}
	return out
}

func (w *Widget) hooks(i int) *ResizeHooks {
	return &ResizeHooks{
		OnStart:  func(measured int) { w.ResizeStart(i, measured) },
		OnResize: func(width int) { w.Resize(i, width) },
		OnStop:   func(final int) { w.ResizeStop(i, final) },
	}
}

func (w *Widget) body(cols []columns.Column, win paging.DataWindow) []Row {
	rows := make([]Row, len(win.Rows))
	for i, rec := range win.Rows {
		id := rec.ID()
		st := w.rows[id]
		row := Row{
			ID:            id,
			Index:         i,
			OriginalIndex: rec.Index,
			Hover:         st.Hover,
			Selected:      st.Selected,
			Record:        rec,
			Cells:         make([]Cell, len(cols)),
		}
		overlays := coloring.Overlays{Selected: st.Selected, Hover: st.Hover}
		for j, col := range cols {
			row.Cells[j] = w.cell(col, rec, id, i, overlays)
		}
		rows[i] = row
	}
	return rows
}

func (w *Widget) cell(col columns.Column, rec records.Record, id string, index int, o coloring.Overlays) Cell {
	v := col.Value(rec)
	edited, changed := w.changes.Tracker.Edited(id, col.Key)
	if changed {
		v = edited
	}
	editing := w.Editing(id, col.Key)
	ctx := coloring.Context{
		CurrentRow:           rec,
		CurrentIndex:         index,
		CurrentOriginalIndex: rec.Index,
		ColumnTitle:          col.TitleText(),
	}
	return Cell{
		Key:        col.Key,
		Value:      v,
		Text:       col.Format(v, rec),
		Align:      col.Align(),
		Paint:      coloring.Paint(w.props.RowColor, ctx, o),
		Editing:    editing,
		HideExpand: editing,
		Editable:   col.Editable && !w.props.ViewMode,
		Changed:    changed,
	}
}

// fieldSort maps sort column keys to record fields
func (w *Widget) fieldSort(cols []columns.Column) []sorting.SortValue {
	if len(w.sort) == 0 {
		return nil
	}
	out := make([]sorting.SortValue, len(w.sort))
	for i, sv := range w.sort {
		out[i] = sorting.SortValue{Column: fieldOf(cols, sv.Column), Desc: sv.Desc}
	}
	return out
}

func (w *Widget) fieldFilters(cols []columns.Column) sorting.Filters {
	if len(w.filters) == 0 {
		return nil
	}
	out := make(sorting.Filters, len(w.filters))
	for key, values := range w.filters {
		out[fieldOf(cols, key)] = values
	}
	return out
}

func fieldOf(cols []columns.Column, key string) string {
	for _, col := range cols {
		if col.Key == key {
			return col.Field()
		}
	}
	return key
}

// viewKey identifies the filtered and sorted view of a source in the
// pager. Sort and filters are given as record fields, since widgets
// sharing a source may map the same column key to different fields.
func (w *Widget) viewKey(source string, sort []sorting.SortValue, filters sorting.Filters) string {
	var b strings.Builder
	b.WriteString(w.props.Name)
	b.WriteString("|src=")
	b.WriteString(source)
	b.WriteString("|q=")
	b.WriteString(w.search)
	for _, sv := range sort {
		b.WriteString("|s=")
		b.WriteString(sv.Column)
		b.WriteString(":")
		b.WriteString(strconv.FormatBool(sv.Desc))
	}
	for _, k := range filters.Columns() {
		b.WriteString("|f=")
		b.WriteString(k)
		for _, v := range filters[k] {
			b.WriteString("=")
			b.WriteString(strconv.Quote(v))
		}
	}
	return b.String()
}
