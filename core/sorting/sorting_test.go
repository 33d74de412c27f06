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

package sorting

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/tablegrid/core/records"
)

func people() []records.Record {
	return []records.Record{
		records.Build(0, records.F("name", records.String("Carol")), records.F("age", records.Number(35)), records.F("team", records.String("ops"))),
		records.Build(1, records.F("name", records.String("alice")), records.F("age", records.Number(30)), records.F("team", records.String("dev"))),
		records.Build(2, records.F("name", records.String("Bob")), records.F("age", records.Number(30)), records.F("team", records.String("dev"))),
		records.Build(3, records.F("name", records.String("Dan")), records.F("age", records.Null()), records.F("team", records.String("ops"))),
	}
}

func names(rows []records.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Value("name").Text()
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		sort []SortValue
		want []string
	}{
		{"none", nil, []string{"Carol", "alice", "Bob", "Dan"}},
		{"age asc keeps ties stable", []SortValue{{Column: "age"}}, []string{"Dan", "alice", "Bob", "Carol"}},
		{"age desc", []SortValue{{Column: "age", Desc: true}}, []string{"Carol", "alice", "Bob", "Dan"}},
		{"team then name", []SortValue{{Column: "team"}, {Column: "name", Desc: true}}, []string{"alice", "Bob", "Dan", "Carol"}},
		{"unknown column", []SortValue{{Column: "missing"}}, []string{"Carol", "alice", "Bob", "Dan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := people()
			got := Apply(input, tt.sort)
			if diff := cmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"Carol", "alice", "Bob", "Dan"}, names(input)); diff != "" {
				t.Errorf("input must not be reordered (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopKMatchesFullSort(t *testing.T) {
	rows := make([]records.Record, 50)
	for i := range rows {
		rows[i] = records.Build(i,
			records.F("name", records.String(fmt.Sprintf("row%02d", i))),
			records.F("score", records.Number(float64((i*37)%11))),
		)
	}
	sort := []SortValue{{Column: "score", Desc: true}}
	full := Apply(rows, sort)
	for _, k := range []int{1, 5, 10, 49, 50, 80} {
		want := full
		if k < len(full) {
			want = full[:k]
		}
		if diff := cmp.Diff(names(want), names(TopK(rows, sort, k))); diff != "" {
			t.Errorf("k=%d mismatch (-want +got):\n%s", k, diff)
		}
	}
	if got := TopK(rows, sort, 0); len(got) != 0 {
		t.Errorf("k=0 should return nothing, got %d", len(got))
	}
}

func TestSearch(t *testing.T) {
	if diff := cmp.Diff([]string{"alice"}, names(Search(people(), "AL"))); diff != "" {
		t.Errorf("search mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Carol", "Dan"}, names(Search(people(), "OPS"))); diff != "" {
		t.Errorf("search should look at every field (-want +got):\n%s", diff)
	}
	if got := Search(people(), "35"); len(got) != 1 || got[0].Index != 0 {
		t.Errorf("numbers should be searchable by text, got %v", names(got))
	}
	if got := Search(people(), "  "); len(got) != 4 {
		t.Errorf("blank search keeps every row, got %d", len(got))
	}
}

func TestApplyFilters(t *testing.T) {
	got := ApplyFilters(people(), Filters{"team": {"dev"}, "age": {"30"}, "empty": nil})
	if diff := cmp.Diff([]string{"alice", "Bob"}, names(got)); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"age", "team"}, Filters{"team": {"dev"}, "age": {"30"}, "empty": nil}.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}
