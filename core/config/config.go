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

package config

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/sorting"
)

// TableConfig is the authored configuration of one widget
type TableConfig struct {
	Name                string
	DataSource          DataSource
	Columns             []Column
	DynamicColumn       bool
	DynamicColumnConfig []string
	PageSize            int
	Current             int
	Total               int
	RowColor            string
	Sort                []sorting.SortValue
	ViewMode            bool
	ViewModeResizable   bool
	HideHeader          bool
	HideBordered        bool
	Size                string
	ShowDataLoadSpinner bool
	Loading             bool
	BoundEvents         []string
	Toolbar             Toolbar
}

// DataSource names the data a widget renders and how to load it
type DataSource struct {
	Name       string
	SourceType string // "json" or "csv"
	FilePath   string
	IDField    string
	Delimiter  string
	HasHeader  bool
}

// Config returns the loader options of the source
func (d DataSource) Config() map[string]string {
	cfg := map[string]string{
		"file_path":  d.FilePath,
		"has_header": strconv.FormatBool(d.HasHeader),
	}
	if d.IDField != "" {
		cfg["id_field"] = d.IDField
	}
	if d.Delimiter != "" {
		cfg["delimiter"] = d.Delimiter
	}
	return cfg
}

// Column is one authored column
type Column struct {
	Key       string
	Title     string
	DataIndex string
	Width     int
	Hide      bool
	Order     int
	OrderSet  bool
	Sortable  bool
	Editable  bool
}

// Toolbar is the authored toolbar
type Toolbar struct {
	Position      string
	ShowRefresh   bool
	ShowDownload  bool
	ShowFilter    bool
	ColumnSetting bool
}

// Validate checks the enumerated fields and column keys
func (c *TableConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch grid.Size(c.Size) {
	case grid.SizeSmall, grid.SizeMiddle, grid.SizeLarge:
	default:
		return fmt.Errorf("invalid size %q", c.Size)
	}
	switch grid.ToolbarPosition(c.Toolbar.Position) {
	case grid.ToolbarAbove, grid.ToolbarBelow, grid.ToolbarClose:
	default:
		return fmt.Errorf("invalid toolbar position %q", c.Toolbar.Position)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative, got %d", c.PageSize)
	}
	seen := make(map[string]bool, len(c.Columns))
	for i, col := range c.Columns {
		if col.Key == "" {
			return fmt.Errorf("column %d has no key", i)
		}
		if seen[col.Key] {
			return fmt.Errorf("duplicate column key %q", col.Key)
		}
		seen[col.Key] = true
	}
	for _, name := range c.BoundEvents {
		if !events.Name(name).Valid() {
			return fmt.Errorf("unknown event %q", name)
		}
	}
	return nil
}

// Events returns the bound event names
func (c *TableConfig) Events() []events.Name {
	out := make([]events.Name, len(c.BoundEvents))
	for i, name := range c.BoundEvents {
		out[i] = events.Name(name)
	}
	return out
}

// Props converts the configuration into grid props. The row color
// expression is compiled with compiler.
func (c *TableConfig) Props(compiler *coloring.Compiler) (grid.Props, error) {
	p := grid.DefaultProps(c.Name)
	for _, col := range c.Columns {
		p.Columns = append(p.Columns, columns.Column{
			Key:       col.Key,
			Title:     col.Title,
			DataIndex: col.DataIndex,
			Width:     col.Width,
			Hidden:    col.Hide,
			Order:     col.Order,
			OrderSet:  col.OrderSet,
			Sortable:  col.Sortable,
			Editable:  col.Editable,
		})
	}
	p.DynamicColumn = c.DynamicColumn
	p.DynamicColumnConfig = append([]string(nil), c.DynamicColumnConfig...)
	p.Pagination = paging.Pagination{Current: c.Current, PageSize: c.PageSize, Total: c.Total}
	p.Sort = append([]sorting.SortValue(nil), c.Sort...)
	p.ViewMode = c.ViewMode
	p.ViewModeResizable = c.ViewModeResizable
	p.HideHeader = c.HideHeader
	p.HideBordered = c.HideBordered
	p.Size = grid.Size(c.Size)
	p.ShowDataLoadSpinner = c.ShowDataLoadSpinner
	p.Loading = c.Loading
	p.Toolbar = grid.Toolbar{
		Position:      grid.ToolbarPosition(c.Toolbar.Position),
		ShowRefresh:   c.Toolbar.ShowRefresh,
		ShowDownload:  c.Toolbar.ShowDownload,
		ShowFilter:    c.Toolbar.ShowFilter,
		ColumnSetting: c.Toolbar.ColumnSetting,
	}

	if c.RowColor != "" {
		fn, err := compiler.Compile(c.RowColor)
		if err != nil {
			return grid.Props{}, fmt.Errorf("failed to compile row_color of %s: %w", c.Name, err)
		}
		p.RowColor = fn
	}
	return p, nil
}

func field(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func str(m protoreflect.Message, name string) string {
	return m.Get(field(m, name)).String()
}

func boolean(m protoreflect.Message, name string) bool {
	return m.Get(field(m, name)).Bool()
}

func integer(m protoreflect.Message, name string) int {
	return int(m.Get(field(m, name)).Int())
}

func stringList(m protoreflect.Message, name string) []string {
	list := m.Get(field(m, name)).List()
	out := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.Get(i).String())
	}
	return out
}

func messages(m protoreflect.Message, name string) []protoreflect.Message {
	list := m.Get(field(m, name)).List()
	out := make([]protoreflect.Message, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		out = append(out, list.Get(i).Message())
	}
	return out
}

func fromMessage(m protoreflect.Message) *TableConfig {
	cfg := &TableConfig{
		Name:                str(m, "name"),
		DynamicColumn:       boolean(m, "dynamic_column"),
		DynamicColumnConfig: stringList(m, "dynamic_column_config"),
		PageSize:            integer(m, "page_size"),
		Current:             integer(m, "current"),
		Total:               integer(m, "total"),
		RowColor:            str(m, "row_color"),
		ViewMode:            boolean(m, "view_mode"),
		ViewModeResizable:   boolean(m, "view_mode_resizable"),
		HideHeader:          boolean(m, "hide_header"),
		HideBordered:        boolean(m, "hide_bordered"),
		Size:                str(m, "size"),
		ShowDataLoadSpinner: boolean(m, "show_data_load_spinner"),
		Loading:             boolean(m, "loading"),
		BoundEvents:         stringList(m, "bound_events"),
	}

	ds := m.Get(field(m, "data_source")).Message()
	cfg.DataSource = DataSource{
		Name:       str(ds, "name"),
		SourceType: str(ds, "source_type"),
		FilePath:   str(ds, "file_path"),
		IDField:    str(ds, "id_field"),
		Delimiter:  str(ds, "delimiter"),
		HasHeader:  boolean(ds, "has_header"),
	}
	if cfg.DataSource.Name == "" {
		cfg.DataSource.Name = cfg.Name
	}

	for _, cm := range messages(m, "columns") {
		cfg.Columns = append(cfg.Columns, Column{
			Key:       str(cm, "key"),
			Title:     str(cm, "title"),
			DataIndex: str(cm, "data_index"),
			Width:     integer(cm, "width"),
			Hide:      boolean(cm, "hide"),
			Order:     integer(cm, "order"),
			OrderSet:  cm.Has(field(cm, "order")),
			Sortable:  boolean(cm, "sortable"),
			Editable:  boolean(cm, "editable"),
		})
	}
	for _, sm := range messages(m, "sort") {
		cfg.Sort = append(cfg.Sort, sorting.SortValue{Column: str(sm, "column"), Desc: boolean(sm, "desc")})
	}

	tb := m.Get(field(m, "toolbar")).Message()
	cfg.Toolbar = Toolbar{
		Position:      str(tb, "position"),
		ShowRefresh:   boolean(tb, "show_refresh"),
		ShowDownload:  boolean(tb, "show_download"),
		ShowFilter:    boolean(tb, "show_filter"),
		ColumnSetting: boolean(tb, "column_setting"),
	}
	return cfg
}

func setStr(m protoreflect.Message, name, v string) {
	if v != "" {
		m.Set(field(m, name), protoreflect.ValueOfString(v))
	}
}

func setBool(m protoreflect.Message, name string, v bool) {
	m.Set(field(m, name), protoreflect.ValueOfBool(v))
}

func setInt(m protoreflect.Message, name string, v int) {
	m.Set(field(m, name), protoreflect.ValueOfInt32(int32(v)))
}

func (c *TableConfig) toMessage(m protoreflect.Message) {
	setStr(m, "name", c.Name)
	setBool(m, "dynamic_column", c.DynamicColumn)
	list := m.Mutable(field(m, "dynamic_column_config")).List()
	for _, f := range c.DynamicColumnConfig {
		list.Append(protoreflect.ValueOfString(f))
	}
	setInt(m, "page_size", c.PageSize)
	setInt(m, "current", c.Current)
	if c.Total > 0 {
		setInt(m, "total", c.Total)
	}
	setStr(m, "row_color", c.RowColor)
	setBool(m, "view_mode", c.ViewMode)
	setBool(m, "view_mode_resizable", c.ViewModeResizable)
	setBool(m, "hide_header", c.HideHeader)
	setBool(m, "hide_bordered", c.HideBordered)
	setStr(m, "size", c.Size)
	setBool(m, "show_data_load_spinner", c.ShowDataLoadSpinner)
	setBool(m, "loading", c.Loading)
	bound := m.Mutable(field(m, "bound_events")).List()
	for _, e := range c.BoundEvents {
		bound.Append(protoreflect.ValueOfString(e))
	}

	ds := m.Mutable(field(m, "data_source")).Message()
	setStr(ds, "name", c.DataSource.Name)
	setStr(ds, "source_type", c.DataSource.SourceType)
	setStr(ds, "file_path", c.DataSource.FilePath)
	setStr(ds, "id_field", c.DataSource.IDField)
	setStr(ds, "delimiter", c.DataSource.Delimiter)
	setBool(ds, "has_header", c.DataSource.HasHeader)

	cols := m.Mutable(field(m, "columns")).List()
	for _, col := range c.Columns {
		cm := cols.NewElement().Message()
		setStr(cm, "key", col.Key)
		setStr(cm, "title", col.Title)
		setStr(cm, "data_index", col.DataIndex)
		if col.Width != 0 {
			setInt(cm, "width", col.Width)
		}
		if col.Hide {
			setBool(cm, "hide", true)
		}
		if col.OrderSet {
			setInt(cm, "order", col.Order)
		}
		if col.Sortable {
			setBool(cm, "sortable", true)
		}
		if col.Editable {
			setBool(cm, "editable", true)
		}
		cols.Append(protoreflect.ValueOfMessage(cm))
	}
	sorts := m.Mutable(field(m, "sort")).List()
	for _, sv := range c.Sort {
		sm := sorts.NewElement().Message()
		setStr(sm, "column", sv.Column)
		setBool(sm, "desc", sv.Desc)
		sorts.Append(protoreflect.ValueOfMessage(sm))
	}

	tb := m.Mutable(field(m, "toolbar")).Message()
	setStr(tb, "position", c.Toolbar.Position)
	setBool(tb, "show_refresh", c.Toolbar.ShowRefresh)
	setBool(tb, "show_download", c.Toolbar.ShowDownload)
	setBool(tb, "show_filter", c.Toolbar.ShowFilter)
	setBool(tb, "column_setting", c.Toolbar.ColumnSetting)
}
