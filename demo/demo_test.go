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

package demo

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/tablegrid/core/coloring"
	"github.com/google/tablegrid/core/config"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/datasources"
)

func TestWriteTransactions(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTransactions(&buf, 5); err != nil {
		t.Fatalf("WriteTransactions() failed: %v", err)
	}
	rows, err := records.ParseJSONWithID(buf.Bytes(), "txn_id")
	if err != nil {
		t.Fatalf("generated JSON does not parse: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	if got := rows[2].Value("status").Str(); got != "cancelled" {
		t.Errorf("status = %q, want cancelled", got)
	}
	if rows[4].ID() != "4" {
		t.Errorf("ID() = %q, want 4", rows[4].ID())
	}
}

func TestInstalledWidgetsLoad(t *testing.T) {
	dir := t.TempDir()
	configs, err := Install(dir)
	if err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	var names []string
	for _, c := range configs {
		names = append(names, filepath.Base(c))
	}
	want := []string{"inventory.textproto", "orders.textproto", "transactions.textproto"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("configs mismatch (-want +got):\n%s", diff)
	}

	loader, err := config.NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() failed: %v", err)
	}
	compiler, err := coloring.NewCompiler(0)
	if err != nil {
		t.Fatalf("NewCompiler() failed: %v", err)
	}
	manager := datasources.NewManager(nil)
	manager.SetBaseDir(dir)

	rowsBySource := map[string]int{}
	for _, path := range configs {
		cfg, err := loader.Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", path, err)
		}
		props, err := cfg.Props(compiler)
		if err != nil {
			t.Fatalf("Props(%s) failed: %v", path, err)
		}
		manager.AddSource(cfg.DataSource)
		src, err := manager.LoadData(cfg.DataSource.Name)
		if err != nil {
			t.Fatalf("LoadData(%s) failed: %v", cfg.DataSource.Name, err)
		}
		rowsBySource[src.Name()] = len(src.Records())

		g := grid.New(props, grid.Options{}).Compose(src)
		if len(g.Rows) == 0 || len(g.Header) == 0 {
			t.Errorf("%s renders an empty grid", cfg.Name)
		}
	}
	wantRows := map[string]int{"inventory": 12, "orders": 25, "transactions": PerfNumTransactions}
	if diff := cmp.Diff(wantRows, rowsBySource); diff != "" {
		t.Errorf("row counts mismatch (-want +got):\n%s", diff)
	}
}
