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

package changestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/google/tablegrid/core/changeset"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/records"
)

func payload(widget string) changeset.SavePayload {
	return changeset.SavePayload{
		Widget: widget,
		Changes: []changeset.Entry{
			{Key: changeset.Key{RowID: "r1", Column: "name"}, Change: changeset.Change{Original: records.String("apple"), Edited: records.String("pear")}},
			{Key: changeset.Key{RowID: "r2", Column: "price"}, Change: changeset.Change{Original: records.Null(), Edited: records.Number(4.5)}},
		},
	}
}

type row struct {
	Row, Column, Original, Edited string
}

func flatten(saved []Saved) []row {
	var out []row
	for _, s := range saved {
		out = append(out, row{s.RowID, s.Column, s.Original.Text(), s.Edited.Text()})
	}
	return out
}

func TestSaveAndHistory(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history", "changes.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	store.now = func() time.Time { return time.UnixMilli(1000) }

	ctx := context.Background()
	batch, err := store.Save(ctx, payload("orders"))
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if batch == "" {
		t.Fatal("Save() returned an empty batch id")
	}
	if _, err := store.Save(ctx, payload("other")); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	history, err := store.History(ctx, "orders")
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	want := []row{
		{"r1", "name", "apple", "pear"},
		{"r2", "price", "", "4.5"},
	}
	if diff := cmp.Diff(want, flatten(history)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	for _, h := range history {
		if h.Batch != batch || h.Widget != "orders" || !h.SavedAt.Equal(time.UnixMilli(1000)) {
			t.Errorf("unexpected metadata: %+v", h)
		}
	}
	if !history[1].Original.IsNull() {
		t.Error("null original should round-trip as null")
	}
}

func TestSaveEmptyChangeSet(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	batch, err := store.Save(context.Background(), changeset.SavePayload{Widget: "orders"})
	if err != nil || batch != "" {
		t.Errorf("Save(empty) = %q, %v; want no batch", batch, err)
	}
	history, err := store.History(context.Background(), "orders")
	if err != nil || len(history) != 0 {
		t.Errorf("History() = %v, %v; want empty", history, err)
	}
}

func TestBindHandlesSaveChanges(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	registry := events.NewRegistry(nil)
	store.Bind(registry)
	if !registry.IsBound(events.SaveChanges) {
		t.Fatal("saveChanges not bound")
	}
	registry.Fire(events.SaveChanges, payload("orders"))
	registry.Fire(events.SaveChanges, "not a payload")

	history, err := store.History(context.Background(), "orders")
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("got %d saved edits, want 2", len(history))
	}
}
