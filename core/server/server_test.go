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

package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/tablegrid/core/changestore"
	"github.com/google/tablegrid/core/columns"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/records"
)

func ordersWidget(n int, bound ...events.Name) Widget {
	rows := make([]records.Record, n)
	for i := range rows {
		rows[i] = records.Build(i,
			records.F("id", records.String(fmt.Sprintf("r%d", i+1))),
			records.F("name", records.String(fmt.Sprintf("item %d", i+1))),
			records.F("price", records.Number(float64(10*(i+1)))),
		).WithIDField("id")
	}
	props := grid.DefaultProps("orders")
	props.Columns = []columns.Column{
		{Key: "name", Title: "Name", Sortable: true, Editable: true},
		{Key: "price", Title: "Price"},
	}
	return Widget{
		Props:  props,
		Source: &grid.StaticSource{ID: "orders", Rows: rows, Rev: 1},
		Events: bound,
	}
}

// fakeRefresher reloads nothing but reports every refresh as a reload
type fakeRefresher struct {
	loading  []bool
	reloaded []func(string)
}

func (f *fakeRefresher) QueryNames() []string { return []string{"orders"} }

func (f *fakeRefresher) Refresh(names []string, setLoading func(bool)) {
	setLoading(true)
	f.loading = append(f.loading, true)
	for _, name := range names {
		for _, cb := range f.reloaded {
			cb(name)
		}
	}
	setLoading(false)
	f.loading = append(f.loading, false)
}

func (f *fakeRefresher) OnReload(cb func(string)) { f.reloaded = append(f.reloaded, cb) }

func newTestServer(t *testing.T, opts Options, widgets ...Widget) (*Server, http.Handler) {
	t.Helper()
	s, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	for _, w := range widgets {
		s.Register(w)
	}
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// open starts a session and returns its id
func open(t *testing.T, h http.Handler, target string) string {
	t.Helper()
	rec := do(t, h, "GET", target, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("GET %s = %d, want redirect", target, rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad redirect: %v", err)
	}
	id := loc.Query().Get("s")
	if id == "" {
		t.Fatalf("redirect %s carries no session", loc)
	}
	return id
}

func page(t *testing.T, h http.Handler, target string) string {
	t.Helper()
	rec := do(t, h, "GET", target, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d: %s", target, rec.Code, rec.Body.String())
	}
	return rec.Body.String()
}

func TestRenderPage(t *testing.T) {
	_, h := newTestServer(t, Options{}, ordersWidget(12))
	id := open(t, h, "/grid?widget=orders")

	body := page(t, h, "/grid?widget=orders&s="+id+"&page=2")
	for _, want := range []string{"item 11", "item 12", "Page 2 of 2", "s=" + id} {
		if !strings.Contains(body, want) {
			t.Errorf("page does not contain %q", want)
		}
	}
	if strings.Contains(body, "item 10<") {
		t.Error("page 2 should not show item 10")
	}
}

func TestRequestErrors(t *testing.T) {
	_, h := newTestServer(t, Options{}, ordersWidget(3))
	tests := []struct {
		target string
		want   int
	}{
		{"/grid", http.StatusBadRequest},
		{"/grid?widget=nope", http.StatusNotFound},
		{"/grid/edit?widget=orders", http.StatusBadRequest},
		{"/", http.StatusFound},
		{"/metrics", http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := do(t, h, "GET", tt.target, nil).Code; got != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.target, got, tt.want)
		}
	}

	id := open(t, h, "/grid?widget=orders")
	if got := do(t, h, "POST", "/grid/explode?widget=orders&s="+id, url.Values{}).Code; got != http.StatusNotFound {
		t.Errorf("unknown action = %d, want 404", got)
	}
	if got := do(t, h, "POST", "/grid/save?widget=orders&s=expired", url.Values{}).Code; got != http.StatusSeeOther {
		t.Errorf("expired session = %d, want redirect", got)
	}
}

func TestEditCommitAndSave(t *testing.T) {
	store, err := changestore.Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	s, h := newTestServer(t, Options{Store: store}, ordersWidget(3, events.SaveChanges))
	id := open(t, h, "/grid?widget=orders")
	base := "/grid/%s?widget=orders&s=" + id + "&row=r2&col=name"

	do(t, h, "GET", fmt.Sprintf(base, "edit"), nil)
	body := page(t, h, "/grid?widget=orders&s="+id)
	if !strings.Contains(body, `name="value"`) {
		t.Error("edit did not open an editor")
	}

	rec := do(t, h, "POST", fmt.Sprintf(base, "commit"), url.Values{"value": {"widget"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("commit = %d, want redirect", rec.Code)
	}
	sess, _ := s.sessions.Get(id)
	if got, ok := sess.grid.Changes().Edited("r2", "name"); !ok || got.Str() != "widget" {
		t.Errorf("Edited(r2, name) = %v, %v; want widget", got, ok)
	}

	do(t, h, "POST", "/grid/save?widget=orders&s="+id, url.Values{})
	if sess.grid.Changes().HasChange() {
		t.Error("change set not cleared after save")
	}
	history, err := store.History(context.Background(), "orders")
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(history) != 1 || history[0].RowID != "r2" || history[0].Edited.Text() != "widget" {
		t.Errorf("unexpected history: %+v", history)
	}
	if body := page(t, h, "/grid?widget=orders&s="+id); !strings.Contains(body, "Changes saved") {
		t.Error("save toast missing")
	}
}

func TestSaveWithoutHandlerWarns(t *testing.T) {
	s, h := newTestServer(t, Options{}, ordersWidget(3))
	id := open(t, h, "/grid?widget=orders")
	do(t, h, "POST", "/grid/commit?widget=orders&s="+id+"&row=r1&col=name", url.Values{"value": {"x"}})
	do(t, h, "POST", "/grid/save?widget=orders&s="+id, url.Values{})

	sess, _ := s.sessions.Get(id)
	if !sess.grid.Changes().HasChange() {
		t.Error("unsaved changes must be kept")
	}
	body := page(t, h, "/grid?widget=orders&s="+id)
	if !strings.Contains(body, "no saveChanges handler is bound") {
		t.Error("warning toast missing")
	}
}

func TestNumericEditsAreInferred(t *testing.T) {
	s, h := newTestServer(t, Options{}, ordersWidget(3))
	id := open(t, h, "/grid?widget=orders")
	do(t, h, "POST", "/grid/commit?widget=orders&s="+id+"&row=r1&col=price", url.Values{"value": {"10"}})
	do(t, h, "POST", "/grid/commit?widget=orders&s="+id+"&row=r1&col=name", url.Values{"value": {"42"}})

	sess, _ := s.sessions.Get(id)
	if _, ok := sess.grid.Changes().Edited("r1", "price"); ok {
		t.Error("re-entering the same number should not create an edit")
	}
	if got, _ := sess.grid.Changes().Edited("r1", "name"); got.Kind() != records.KindString {
		t.Errorf("name edit kind = %v, want string", got.Kind())
	}
}

func TestSearchAndDownload(t *testing.T) {
	_, h := newTestServer(t, Options{}, ordersWidget(12))
	id := open(t, h, "/grid?widget=orders")

	rec := do(t, h, "POST", "/grid/search?widget=orders&s="+id, url.Values{"q": {"item 1"}})
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if got := loc.Query().Get("q"); got != "item 1" {
		t.Fatalf("search redirect q = %q", got)
	}
	page(t, h, loc.String())

	rec = do(t, h, "GET", "/grid/download?widget=orders&s="+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("download = %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "orders-data.csv") {
		t.Errorf("Content-Disposition = %q", got)
	}
	want := "Name,Price\nitem 1,10\nitem 10,100\nitem 11,110\nitem 12,120\n"
	if diff := cmp.Diff(want, rec.Body.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestSortAndHoverFromURL(t *testing.T) {
	s, h := newTestServer(t, Options{}, ordersWidget(3))
	id := open(t, h, "/grid?widget=orders")

	body := page(t, h, "/grid?widget=orders&s="+id+"&sort=name:desc")
	if strings.Index(body, "item 3") > strings.Index(body, "item 1") {
		t.Error("rows not sorted descending")
	}
	do(t, h, "GET", "/grid/hover?widget=orders&s="+id+"&row=r2&on=true", nil)
	sess, _ := s.sessions.Get(id)
	if !sess.grid.RowState("r2").Hover {
		t.Error("hover not applied")
	}
	do(t, h, "GET", "/grid/click?widget=orders&s="+id+"&row=r2", nil)
	if !sess.grid.RowState("r2").Selected {
		t.Error("click should focus the row")
	}
}

func TestResizeRecordsWidth(t *testing.T) {
	s, h := newTestServer(t, Options{}, ordersWidget(3))
	id := open(t, h, "/grid?widget=orders")
	page(t, h, "/grid?widget=orders&s="+id)

	rec := do(t, h, "POST", "/grid/resize?widget=orders&s="+id+"&col=0", url.Values{"width": {"150"}})
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if got := loc.Query().Get("widths"); got != "name:150" {
		t.Errorf("widths = %q, want name:150", got)
	}
	sess, _ := s.sessions.Get(id)
	if got := sess.grid.Props().Columns[0].Width; got != 150 {
		t.Errorf("committed width = %d, want 150", got)
	}

	// A new session starts from the widths in the URL
	fresh := open(t, h, "/grid?widget=orders&widths=name:200")
	other, _ := s.sessions.Get(fresh)
	if got := other.grid.Props().Columns[0].Width; got != 200 {
		t.Errorf("seeded width = %d, want 200", got)
	}
}

func TestRefreshClearsChangeSet(t *testing.T) {
	refresher := &fakeRefresher{}
	s, h := newTestServer(t, Options{Refresher: refresher}, ordersWidget(3))
	id := open(t, h, "/grid?widget=orders")
	do(t, h, "POST", "/grid/commit?widget=orders&s="+id+"&row=r1&col=name", url.Values{"value": {"x"}})
	if s.pager.Len() == 0 {
		t.Fatal("rendering should have cached a window")
	}

	do(t, h, "POST", "/grid/refresh?widget=orders&s="+id, url.Values{})
	if got := s.pager.Len(); got != 0 {
		t.Errorf("reload left %d cached windows", got)
	}
	if diff := cmp.Diff([]bool{true, false}, refresher.loading); diff != "" {
		t.Errorf("loading mismatch (-want +got):\n%s", diff)
	}
	sess, _ := s.sessions.Get(id)
	if sess.grid.Changes().HasChange() {
		t.Error("reload should clear the change set")
	}
}
