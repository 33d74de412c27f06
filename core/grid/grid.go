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
	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/resize"
)

// TableLayoutFixed is the only table layout the grid renders with
const TableLayoutFixed = "fixed"

// Grid is the output of one render pass
type Grid struct {
	ShowHeader  bool
	Bordered    bool
	TableLayout string
	// Pagination is always false: rows arrive already windowed
	Pagination bool
	Size       Size
	ScrollX    int
	Loading    bool

	Header  []HeaderCell
	Rows    []Row
	Toolbar ToolbarView
}

// Empty reports whether the window holds no rows
func (g Grid) Empty() bool {
	return len(g.Rows) == 0
}

// ResizeHooks are the drag callbacks of a header cell
type ResizeHooks struct {
	OnStart  func(measured int)
	OnResize func(width int)
	OnStop   func(final int)
}

// HeaderCell describes one column header
type HeaderCell struct {
	Index     int
	Key       string
	Title     string
	Layout    resize.ColumnLayout
	Sortable  bool
	SortOrder string // "ascend", "descend" or ""
	Align     string
	// Resize is nil when resizing is bypassed
	Resize *ResizeHooks
}

// Row is one body row
type Row struct {
	ID            string
	Index         int // position on the page
	OriginalIndex int // position in the source
	Hover         bool
	Selected      bool
	Record        records.Record
	Cells         []Cell
}

// Cell is one body cell
type Cell struct {
	Key   string
	Value records.Value
	Text  string
	Align string
	Paint coloring.PaintLayer
	// Editing is local to this cell; expand and indent affordances are
	// hidden while it is set
	Editing    bool
	HideExpand bool
	Editable   bool
	// Changed marks cells with a pending edit; Value is the edited value
	Changed bool
}

// Background is the CSS background override of the cell, or ""
func (c Cell) Background() string {
	return c.Paint.Background()
}

// ToolbarView is what the toolbar needs to draw itself
type ToolbarView struct {
	Position     ToolbarPosition
	Total        int
	Current      int
	PageSize     int
	PageCount    int
	HasChange    bool
	PendingEdits int
	ShowRefresh  bool
	ShowDownload bool
	ShowFilter   bool
	Search       string
	// Columns lists every resolved column for the column setting
	Columns []ColumnToggle
}

// ColumnToggle is one entry of the column setting
type ColumnToggle struct {
	Key     string
	Title   string
	Visible bool
}

func toggles(cols []columns.Column, hidden map[string]bool) []ColumnToggle {
	out := make([]ColumnToggle, 0, len(cols))
	for _, col := range cols {
		if col.Hidden {
			continue
		}
		out = append(out, ColumnToggle{
			Key:     col.Key,
			Title:   col.TitleText(),
			Visible: !hidden[col.Key],
		})
	}
	return out
}
