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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/sorting"
)

const ordersConfig = `
name: "orders"
data_source {
  source_type: "json"
  file_path: "orders.json"
  id_field: "id"
}
columns { key: "status" title: "Status" width: 120 sortable: true }
columns { key: "amount" title: "Amount" editable: true order: 0 }
columns { key: "internal" hide: true }
dynamic_column: true
dynamic_column_config: "id"
dynamic_column_config: "status"
dynamic_column_config: "amount"
page_size: 25
row_color: "{{ currentRow.status == 'late' ? '#ffccc7' : '' }}"
sort { column: "amount" desc: true }
view_mode_resizable: true
bound_events: "saveChanges"
bound_events: "rowClick"
toolbar { position: "above" column_setting: true }
`

func newLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}
	return l
}

func TestParse(t *testing.T) {
	cfg, err := newLoader(t).Parse([]byte(ordersConfig))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := &TableConfig{
		Name: "orders",
		DataSource: DataSource{
			Name:       "orders",
			SourceType: "json",
			FilePath:   "orders.json",
			IDField:    "id",
			HasHeader:  true,
		},
		Columns: []Column{
			{Key: "status", Title: "Status", Width: 120, Sortable: true},
			{Key: "amount", Title: "Amount", Editable: true, OrderSet: true},
			{Key: "internal", Hide: true},
		},
		DynamicColumn:       true,
		DynamicColumnConfig: []string{"id", "status", "amount"},
		PageSize:            25,
		Current:             1,
		RowColor:            "{{ currentRow.status == 'late' ? '#ffccc7' : '' }}",
		Sort:                []sorting.SortValue{{Column: "amount", Desc: true}},
		ViewModeResizable:   true,
		Size:                "middle",
		ShowDataLoadSpinner: true,
		BoundEvents:         []string{"saveChanges", "rowClick"},
		Toolbar: Toolbar{
			Position:      "above",
			ShowRefresh:   true,
			ShowDownload:  true,
			ColumnSetting: true,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]events.Name{events.SaveChanges, events.RowClick}, cfg.Events()); diff != "" {
		t.Errorf("Events() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := newLoader(t).Parse([]byte(`name: "bare"`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if cfg.PageSize != 10 || cfg.Current != 1 || cfg.Size != "middle" || !cfg.ShowDataLoadSpinner {
		t.Errorf("defaults: page_size=%d current=%d size=%q spinner=%v", cfg.PageSize, cfg.Current, cfg.Size, cfg.ShowDataLoadSpinner)
	}
	if cfg.Toolbar.Position != "below" || !cfg.Toolbar.ShowRefresh || !cfg.Toolbar.ShowDownload {
		t.Errorf("toolbar defaults: %+v", cfg.Toolbar)
	}
	if cfg.DataSource.Name != "bare" {
		t.Errorf("data source name should default to the widget name, got %q", cfg.DataSource.Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"syntax", `name: `, "failed to parse textproto"},
		{"unknown field", `name: "x" colour: "red"`, "failed to parse textproto"},
		{"missing name", `page_size: 5`, "name is required"},
		{"bad size", `name: "x" size: "huge"`, `invalid size "huge"`},
		{"bad position", `name: "x" toolbar { position: "left" }`, "invalid toolbar position"},
		{"negative page size", `name: "x" page_size: -1`, "page_size must not be negative"},
		{"column without key", `name: "x" columns { title: "T" }`, "column 0 has no key"},
		{"duplicate key", `name: "x" columns { key: "a" } columns { key: "a" }`, `duplicate column key "a"`},
		{"unknown event", `name: "x" bound_events: "doubleClick"`, `unknown event "doubleClick"`},
	}
	l := newLoader(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Parse([]byte(tc.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestProps(t *testing.T) {
	cfg, err := newLoader(t).Parse([]byte(ordersConfig))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	compiler, err := coloring.NewCompiler(0)
	if err != nil {
		t.Fatalf("NewCompiler() failed: %v", err)
	}
	p, err := cfg.Props(compiler)
	if err != nil {
		t.Fatalf("Props() failed: %v", err)
	}

	if p.Name != "orders" || !p.DynamicColumn || p.Size != grid.SizeMiddle {
		t.Errorf("props = %+v", p)
	}
	if diff := cmp.Diff(paging.Pagination{Current: 1, PageSize: 25}, p.Pagination); diff != "" {
		t.Errorf("pagination mismatch (-want +got):\n%s", diff)
	}
	if len(p.Columns) != 3 || !p.Columns[2].Hidden || p.Columns[0].Width != 120 {
		t.Errorf("columns = %+v", p.Columns)
	}
	if p.Columns[0].OrderSet || !p.Columns[1].OrderSet || p.Columns[1].Order != 0 {
		t.Errorf("an explicit order of 0 must be kept apart from no order: %+v", p.Columns)
	}
	wantTb := grid.Toolbar{Position: grid.ToolbarAbove, ShowRefresh: true, ShowDownload: true, ColumnSetting: true}
	if diff := cmp.Diff(wantTb, p.Toolbar, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("toolbar mismatch (-want +got):\n%s", diff)
	}

	late := coloring.Context{CurrentRow: records.Build(0, records.F("status", records.String("late")))}
	onTime := coloring.Context{CurrentRow: records.Build(1, records.F("status", records.String("ok")))}
	if got := p.RowColor(late); got != "#ffccc7" {
		t.Errorf("late row color = %q", got)
	}
	if got := p.RowColor(onTime); got != "" {
		t.Errorf("on-time row color = %q", got)
	}
}

func TestPropsRejectsBadColorExpression(t *testing.T) {
	cfg := &TableConfig{Name: "x", Size: "middle", RowColor: "{{ nosuchfn(1) }}", Toolbar: Toolbar{Position: "below"}}
	compiler, _ := coloring.NewCompiler(0)
	if _, err := cfg.Props(compiler); err == nil {
		t.Error("expected an error for an unknown function")
	}
}

func TestLoadAndFormat(t *testing.T) {
	l := newLoader(t)
	path := filepath.Join(t.TempDir(), "orders.textproto")
	if err := os.WriteFile(path, []byte(ordersConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	text, err := l.Format(cfg)
	if err != nil {
		t.Fatalf("Format() failed: %v", err)
	}
	again, err := l.Parse([]byte(text))
	if err != nil {
		t.Fatalf("formatted config does not parse: %v\n%s", err, text)
	}
	if diff := cmp.Diff(cfg, again); diff != "" {
		t.Errorf("config changed through Format (-before +after):\n%s", diff)
	}

	if _, err := l.Load(filepath.Join(t.TempDir(), "missing.textproto")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
