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
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/changeset"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/eventloop"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/metrics"
	"github.com/google/tablegrid/core/notify"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/resize"
	"github.com/google/tablegrid/core/sorting"
)

// RowState is the interaction state of one row
type RowState struct {
	Hover    bool
	Selected bool
}

// Options are the collaborators of a Widget. Everything is optional; a
// missing Dispatcher behaves as if no event were bound.
type Options struct {
	Dispatcher events.Dispatcher
	Notifier   notify.Notifier
	Scheduler  eventloop.Scheduler
	Translator *i18n.Translator
	Metrics    *metrics.Metrics
	Host       Host
	Queries    QueryLister
	Pager      *paging.Pager
}

// Widget holds the interaction state of one grid between renders. It has
// a single writer: calls must not overlap.
type Widget struct {
	props Props

	resize    *resize.Manager
	// key of the dragged column; visible indexes shift when columns toggle
	resizeKey string
	rows      map[string]RowState
	editing   map[changeset.Key]bool
	changes   *changeset.Controller
	sort      []sorting.SortValue
	filters   sorting.Filters
	search    string
	selection []string
	loading   bool

	// from the last render
	lastColumns []columns.Column
	byID        map[string]records.Record

	dispatcher events.Dispatcher
	host       Host
	queries    QueryLister
	pager      *paging.Pager
	metrics    *metrics.Metrics
	log        *logrus.Entry
}

// New creates a widget for props
func New(props Props, opts Options) *Widget {
	w := &Widget{
		props:      props,
		resize:     resize.NewManager(),
		rows:       make(map[string]RowState),
		editing:    make(map[changeset.Key]bool),
		sort:       append([]sorting.SortValue(nil), props.Sort...),
		filters:    sorting.Filters{},
		byID:       make(map[string]records.Record),
		dispatcher: opts.Dispatcher,
		host:       opts.Host,
		queries:    opts.Queries,
		pager:      opts.Pager,
		metrics:    opts.Metrics,
		log:        logrus.WithFields(logrus.Fields{"component": "grid", "widget": props.Name}),
	}
	if w.pager == nil {
		// NewPager only fails for a negative size
		w.pager, _ = paging.NewPager(paging.DefaultCacheSize)
	}
	tracker := changeset.NewTracker(w.baseline)
	w.changes = changeset.NewController(tracker, changeset.ControllerOptions{
		Widget:     props.Name,
		Dispatcher: opts.Dispatcher,
		Notifier:   opts.Notifier,
		Scheduler:  opts.Scheduler,
		Translator: opts.Translator,
		Metrics:    opts.Metrics,
	})
	return w
}

// Props returns the current props
func (w *Widget) Props() Props {
	return w.props
}

// SetProps replaces the authored props. Sort state follows the new props.
func (w *Widget) SetProps(p Props) {
	w.cancelResize("props replaced")
	w.props = p
	w.sort = append([]sorting.SortValue(nil), p.Sort...)
}

// Changes exposes the change set
func (w *Widget) Changes() *changeset.Tracker {
	return w.changes.Tracker
}

// Sort returns the active sort state
func (w *Widget) Sort() []sorting.SortValue {
	return append([]sorting.SortValue(nil), w.sort...)
}

// Filters returns the active column filters
func (w *Widget) Filters() sorting.Filters {
	return w.filters
}

// Selection returns the selected row ids
func (w *Widget) Selection() []string {
	return append([]string(nil), w.selection...)
}

// RowState returns the interaction state of a row
func (w *Widget) RowState(id string) RowState {
	return w.rows[id]
}

func (w *Widget) updateRow(id string, f func(*RowState)) {
	st := w.rows[id]
	f(&st)
	if st == (RowState{}) {
		delete(w.rows, id)
		return
	}
	w.rows[id] = st
}

// RowEnter marks a row hovered
func (w *Widget) RowEnter(id string) { w.updateRow(id, func(s *RowState) { s.Hover = true }) }

// RowLeave clears a row's hover
func (w *Widget) RowLeave(id string) { w.updateRow(id, func(s *RowState) { s.Hover = false }) }

// RowFocus marks a row selected
func (w *Widget) RowFocus(id string) { w.updateRow(id, func(s *RowState) { s.Selected = true }) }

// RowBlur clears a row's selected state
func (w *Widget) RowBlur(id string) { w.updateRow(id, func(s *RowState) { s.Selected = false }) }

// RowClickPayload is delivered with rowClick
type RowClickPayload struct {
	RowID  string
	Record records.Record
}

// RowClick focuses the row and fires rowClick
func (w *Widget) RowClick(id string) {
	w.RowFocus(id)
	w.fire(events.RowClick, RowClickPayload{RowID: id, Record: w.byID[id]})
}

// Select replaces the selection and fires rowSelectChange when it changed
func (w *Widget) Select(ids []string) {
	if equalStrings(ids, w.selection) {
		return
	}
	w.selection = append([]string(nil), ids...)
	w.fire(events.RowSelectChange, w.Selection())
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BeginEdit enters edit mode for one cell
func (w *Widget) BeginEdit(rowID, column string) {
	w.editing[changeset.Key{RowID: rowID, Column: column}] = true
}

// EndEdit leaves edit mode without recording anything
func (w *Widget) EndEdit(rowID, column string) {
	delete(w.editing, changeset.Key{RowID: rowID, Column: column})
}

// CommitEdit records value for the cell and leaves edit mode
func (w *Widget) CommitEdit(rowID, column string, value records.Value) {
	w.changes.Tracker.RecordEdit(rowID, column, value)
	w.changes.Changed()
	w.EndEdit(rowID, column)
}

// Editing reports whether a cell is in edit mode
func (w *Widget) Editing(rowID, column string) bool {
	return w.editing[changeset.Key{RowID: rowID, Column: column}]
}

// Save commits the change set through the saveChanges handler
func (w *Widget) Save() bool {
	return w.changes.Save()
}

// Cancel discards the change set
func (w *Widget) Cancel() {
	w.changes.Cancel()
}

// ClearChangeSet handles a clear dispatched by the data source
func (w *Widget) ClearChangeSet() {
	w.changes.ClearLater()
}

func (w *Widget) resizable() bool {
	return resize.Enabled(w.props.ViewMode, w.props.ViewModeResizable)
}

// ResizeStart begins a drag on header i
func (w *Widget) ResizeStart(i, measured int) {
	if !w.resizable() {
		return
	}
	w.resize.Start(i, measured)
	w.resizeKey = w.keyAt(i)
}

// Resize applies a drag move on header i
func (w *Widget) Resize(i, width int) {
	if !w.resizable() {
		return
	}
	w.resize.Update(i, width)
	if w.resize.State().ColumnIndex == i {
		w.resizeKey = w.keyAt(i)
	}
}

// ResizeStop commits the drag on header i. The committed width is written
// back into the authored column and reported through OnWidthResize.
func (w *Widget) ResizeStop(i, final int) {
	if !w.resizable() {
		return
	}
	if !w.resize.State().Active() {
		w.log.WithField("column", i).Debug("resize stop without a session")
		return
	}
	key := w.keyAt(i)
	if key != w.resizeKey {
		w.cancelResize("column moved during resize")
		return
	}
	var onWidthResize func(int)
	if key != "" {
		onWidthResize = w.lastColumns[i].OnWidthResize
	}
	c := w.resize.Stop(i, final, onWidthResize)
	w.resizeKey = ""
	if key != "" {
		w.persistWidth(key, c.Width)
	}
}

// cancelResize drops an active drag without committing it
func (w *Widget) cancelResize(reason string) {
	if !w.resize.State().Active() {
		return
	}
	w.log.WithFields(logrus.Fields{"column": w.resizeKey, "reason": reason}).Debug("resize cancelled")
	w.resize.Cancel()
	w.resizeKey = ""
}

// keyAt returns the key of visible column i of the last render
func (w *Widget) keyAt(i int) string {
	if i < 0 || i >= len(w.lastColumns) {
		return ""
	}
	return w.lastColumns[i].Key
}

// Columns returns the visible columns of the last render
func (w *Widget) Columns() []columns.Column {
	return w.lastColumns
}

// Record returns a row of the last render by id
func (w *Widget) Record(id string) (records.Record, bool) {
	rec, ok := w.byID[id]
	return rec, ok
}

// ResizeState returns the active drag
func (w *Widget) ResizeState() resize.State {
	return w.resize.State()
}

// persistWidth writes a committed width into the authored columns,
// adding an override entry for dynamic columns that had none
func (w *Widget) persistWidth(key string, width int) {
	for i := range w.props.Columns {
		if w.props.Columns[i].Key == key {
			w.props.Columns[i].Width = width
			return
		}
	}
	if w.props.DynamicColumn {
		w.props.Columns = append(w.props.Columns, columns.Column{Key: key, Width: width})
	}
}

// ToggleColumn flips a column in the column setting
func (w *Widget) ToggleColumn(key string) {
	w.cancelResize("column visibility changed")
	if w.props.HiddenColumns == nil {
		w.props.HiddenColumns = make(map[string]bool)
	}
	if w.props.HiddenColumns[key] {
		delete(w.props.HiddenColumns, key)
	} else {
		w.props.HiddenColumns[key] = true
	}
}

// SetSearch sets the toolbar search text and returns to the first page
func (w *Widget) SetSearch(text string) {
	if text == w.search {
		return
	}
	w.search = text
	w.props.Pagination.Current = 1
}

// Refresh reruns every query of the host, showing the spinner until the
// host reports completion
func (w *Widget) Refresh() {
	if w.host == nil {
		return
	}
	var names []string
	if w.queries != nil {
		names = w.queries.QueryNames()
	}
	w.log.WithField("queries", names).Debug("refresh")
	w.host.Refresh(names, func(loading bool) { w.loading = loading })
}

// DownloadName is the file name suggested for exports
func (w *Widget) DownloadName() string {
	return w.props.Name + "-data"
}

// Download asks the host to export the data
func (w *Widget) Download() {
	if w.host == nil {
		return
	}
	w.host.Download(w.DownloadName())
}

// baseline reads the original value of a cell from the last render's data
func (w *Widget) baseline(rowID, column string) (records.Value, bool) {
	rec, ok := w.byID[rowID]
	if !ok {
		return records.Null(), false
	}
	field := column
	for _, col := range w.lastColumns {
		if col.Key == column {
			field = col.Field()
			break
		}
	}
	return rec.Get(field)
}

// Table change actions
const (
	ActionSort     = "sort"
	ActionFilter   = "filter"
	ActionPaginate = "paginate"
)

// TableChange is a sort, filter or paging request from the table primitive
type TableChange struct {
	Action     string
	Pagination paging.Pagination
	Filters    sorting.Filters
	// Sorter keys are column keys; more than one entry is a multi-sort
	Sorter []sorting.SortValue
}

// OnTableChange applies a table change and fires the matching event
func (w *Widget) OnTableChange(c TableChange) {
	switch c.Action {
	case ActionSort:
		w.sort = append([]sorting.SortValue(nil), c.Sorter...)
		w.fire(events.SortChange, w.Sort())
	case ActionFilter:
		w.filters = c.Filters
		w.props.Pagination.Current = 1
		w.fire(events.FilterChange, c.Filters)
	case ActionPaginate:
		w.props.Pagination.Current = c.Pagination.Current
		if c.Pagination.PageSize > 0 {
			w.props.Pagination.PageSize = c.Pagination.PageSize
		}
	default:
		w.log.WithField("action", c.Action).Debug("ignoring unknown table change")
	}
}

func (w *Widget) fire(name events.Name, payload any) {
	if w.dispatcher != nil && w.dispatcher.IsBound(name) {
		w.dispatcher.Fire(name, payload)
	}
}
