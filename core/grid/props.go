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

// Package grid composes columns, paging, coloring, resize state and pending
// edits into the per-render descriptors a table primitive draws.
package grid

import (
	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/sorting"
)

// Size is the row density of the table
type Size string

const (
	SizeSmall  Size = "small"
	SizeMiddle Size = "middle"
	SizeLarge  Size = "large"
)

// ToolbarPosition places the toolbar relative to the table
type ToolbarPosition string

const (
	ToolbarAbove ToolbarPosition = "above"
	ToolbarBelow ToolbarPosition = "below"
	ToolbarClose ToolbarPosition = "close"
)

// Toolbar configures the toolbar affordances
type Toolbar struct {
	Position      ToolbarPosition
	ShowRefresh   bool
	ShowDownload  bool
	ShowFilter    bool
	ColumnSetting bool
}

// Props is the authored configuration of a grid widget
type Props struct {
	// Name is the widget name; downloads are called <Name>-data
	Name string

	Columns             []columns.Column
	DynamicColumn       bool
	DynamicColumnConfig []string

	Pagination paging.Pagination
	Sort       []sorting.SortValue
	RowColor   coloring.ColorFunc

	ViewMode          bool
	ViewModeResizable bool
	HideHeader        bool
	HideBordered      bool
	Size              Size

	Loading             bool
	ShowDataLoadSpinner bool

	Toolbar Toolbar
	// HiddenColumns are the columns the user switched off in the column
	// setting; only honored when Toolbar.ColumnSetting is on
	HiddenColumns map[string]bool
}

// DefaultProps returns the props of a freshly dropped widget
func DefaultProps(name string) Props {
	return Props{
		Name:                name,
		Pagination:          paging.Pagination{Current: 1, PageSize: 10},
		Size:                SizeMiddle,
		ShowDataLoadSpinner: true,
		Toolbar: Toolbar{
			Position:     ToolbarBelow,
			ShowRefresh:  true,
			ShowDownload: true,
		},
	}
}

// Source is the data a grid renders
type Source interface {
	// Name identifies the source in memo keys and logs
	Name() string
	Records() []records.Record
	// Version changes whenever Records changes
	Version() uint64
	IsLoading() bool
}

// StaticSource is a fixed in-memory Source
type StaticSource struct {
	ID      string
	Rows    []records.Record
	Rev     uint64
	Loading bool
}

func (s *StaticSource) Name() string              { return s.ID }
func (s *StaticSource) Records() []records.Record { return s.Rows }
func (s *StaticSource) Version() uint64           { return s.Rev }
func (s *StaticSource) IsLoading() bool           { return s.Loading }

// Host is what the surrounding editor provides to the toolbar
type Host interface {
	Refresh(queryNames []string, setLoading func(loading bool))
	Download(fileName string)
}

// QueryLister lists the queries a refresh reruns
type QueryLister interface {
	QueryNames() []string
}
