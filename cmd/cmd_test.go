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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const widgetConfig = `
name: "orders"
data_source {
  source_type: "csv"
  file_path: "orders.csv"
  id_field: "id"
}
columns { key: "id" title: "ID" }
columns { key: "customer" title: "Customer" sortable: true }
columns { key: "amount" title: "Amount" editable: true }
page_size: 2
row_color: "currentRow.amount > 10 ? '#ffccc7' : ''"
`

const ordersCSV = `id,customer,amount
o1,alice,12.5
o2,bob,3
o3,carol,7
`

func writeWidget(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orders.csv"), []byte(ordersCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "orders.textproto")
	if err := os.WriteFile(path, []byte(widgetConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderASCII(t *testing.T) {
	path := writeWidget(t)
	out, err := run(t, "render", "--config", path, "--sort", "customer:desc", "--page", "1")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Customer v", "carol", "bob", "page 1/2", "3 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "alice") {
		t.Errorf("alice belongs on page 2:\n%s", out)
	}
}

func TestRenderHTML(t *testing.T) {
	path := writeWidget(t)
	out, err := run(t, "render", "--config", path, "--format", "html", "--search", "ali", "--sort", "customer")
	if err != nil {
		t.Fatalf("render failed: %v\n%s", err, out)
	}
	for _, want := range []string{"<table", "alice", "#ffccc7"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderFlagErrors(t *testing.T) {
	if _, err := run(t, "render", "--sort", "x"); err == nil {
		t.Error("expected error without --config")
	}
	if _, err := run(t, "render", "--config", writeWidget(t), "--format", "pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := run(t, "--log-level", "loud", "render", "--config", writeWidget(t)); err == nil {
		t.Error("expected error for unknown log level")
	}
}
