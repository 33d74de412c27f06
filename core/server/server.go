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

// Package server serves grid widgets over HTTP. Each browser session owns
// one grid.Widget; every request is one turn of that session's event loop.
package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/changestore"
	"github.com/google/tablegrid/core/eventloop"
	"github.com/google/tablegrid/core/events"
	"github.com/google/tablegrid/core/grid"
	"github.com/google/tablegrid/core/i18n"
	"github.com/google/tablegrid/core/metrics"
	"github.com/google/tablegrid/core/notify"
	"github.com/google/tablegrid/core/paging"
	"github.com/google/tablegrid/core/query"
	"github.com/google/tablegrid/core/records"
	"github.com/google/tablegrid/core/rendering"
	"github.com/google/tablegrid/core/views"
)

// BasePath is where grids are served
const BasePath = "/grid"

// DefaultMaxSessions bounds the number of live sessions
const DefaultMaxSessions = 256

// Widget is a registered grid: its authored props, the data behind it and
// the events the host handles.
type Widget struct {
	Props  grid.Props
	Source grid.Source
	Events []events.Name
}

// Refresher reloads data sources. datasources.Manager implements it.
type Refresher interface {
	grid.QueryLister
	Refresh(queryNames []string, setLoading func(loading bool))
	OnReload(f func(name string))
}

// Options are the collaborators of a Server. Everything is optional.
type Options struct {
	Refresher   Refresher
	Store       *changestore.Store
	Metrics     *metrics.Metrics
	MaxSessions int
}

// Server represents the application server with all its dependencies
type Server struct {
	renderer *rendering.GridRenderer
	pager    *paging.Pager
	sessions *lru.Cache[string, *session]

	mu      sync.RWMutex
	widgets map[string]Widget

	refresher Refresher
	store     *changestore.Store
	metrics   *metrics.Metrics
	log       *logrus.Entry
}

// session is the server side of one browser tab
type session struct {
	mu       sync.Mutex
	id       string
	name     string
	grid     *grid.Widget
	source   grid.Source
	registry *events.Registry
	toasts   *notify.Queue
	loop     *eventloop.Loop
	// set by Download during the current turn
	download string
}

// HandlerResult represents the result of handling a request
type HandlerResult struct {
	Error      error
	StatusCode int
	Message    string
	// Redirect is set when the client should load another URL
	Redirect string
}

// NewServer creates a new server
func NewServer(opts Options) (*Server, error) {
	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	pager, err := paging.NewPager(paging.DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pager: %w", err)
	}
	size := opts.MaxSessions
	if size <= 0 {
		size = DefaultMaxSessions
	}
	sessions, err := lru.New[string, *session](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	s := &Server{
		renderer:  renderer,
		pager:     pager,
		sessions:  sessions,
		widgets:   make(map[string]Widget),
		refresher: opts.Refresher,
		store:     opts.Store,
		metrics:   opts.Metrics,
		log:       logrus.WithField("component", "server"),
	}
	if s.refresher != nil {
		s.refresher.OnReload(s.sourceReloaded)
	}
	return s, nil
}

// Register makes a widget available under its props name
func (s *Server) Register(w Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets[w.Props.Name] = w
}

// WidgetNames returns the registered widget names, sorted
func (s *Server) WidgetNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := slices.Collect(maps.Keys(s.widgets))
	sort.Strings(names)
	return names
}

// sourceReloaded drops the windows cached for the old data and the change
// sets of every session showing the reloaded source. The clear runs on the
// session's next turn.
func (s *Server) sourceReloaded(name string) {
	s.pager.Purge()
	for _, sess := range s.sessions.Values() {
		if sess.source.Name() != name {
			continue
		}
		g := sess.grid
		sess.loop.Post(g.ClearChangeSet)
	}
}

// session returns the session named by q, creating one seeded from the
// URL state when it is missing or expired.
func (s *Server) session(q *query.Query, acceptLanguage string) (*session, bool, error) {
	if q.Session != "" {
		if sess, ok := s.sessions.Get(q.Session); ok && sess.name == q.Widget {
			return sess, false, nil
		}
	}

	s.mu.RLock()
	def, ok := s.widgets[q.Widget]
	s.mu.RUnlock()
	if !ok {
		return nil, false, fmt.Errorf("widget %q not found", q.Widget)
	}

	props := def.Props
	props.Columns = slices.Clone(props.Columns)
	for i, col := range props.Columns {
		if width, ok := q.Widths[col.Key]; ok {
			props.Columns[i].Width = width
		}
	}
	if hidden := q.HiddenSet(); len(hidden) > 0 {
		props.HiddenColumns = hidden
	}

	sess := &session{
		id:       uuid.NewString(),
		name:     q.Widget,
		source:   def.Source,
		registry: events.NewRegistry(s.metrics),
		toasts:   notify.NewQueue(),
		loop:     eventloop.New(),
	}
	tr := i18n.ForAcceptLanguage(acceptLanguage)
	s.bindEvents(sess, def.Events, tr)

	opts := grid.Options{
		Dispatcher: sess.registry,
		Notifier:   sess.toasts,
		Scheduler:  sess.loop,
		Translator: tr,
		Metrics:    s.metrics,
		Host:       &host{sess: sess, refresher: s.refresher},
		Pager:      s.pager,
	}
	if s.refresher != nil {
		opts.Queries = s.refresher
	}
	sess.grid = grid.New(props, opts)

	s.sessions.Add(sess.id, sess)
	s.log.WithFields(logrus.Fields{"session": sess.id, "widget": sess.name}).Info("Started session")
	return sess, true, nil
}

// bindEvents binds the events the widget declares. saveChanges goes to the
// change store when there is one; everything else is logged.
func (s *Server) bindEvents(sess *session, names []events.Name, tr *i18n.Translator) {
	for _, name := range names {
		if name == events.SaveChanges && s.store != nil {
			s.store.Bind(sess.registry)
			continue
		}
		log := s.log.WithFields(logrus.Fields{"session": sess.id, "event": name})
		sess.registry.Bind(name, func(e events.Event) {
			log.WithField("payload", fmt.Sprintf("%v", e.Payload)).Info("Event")
		})
	}
	if slices.Contains(names, events.SaveChanges) {
		sess.registry.Bind(events.SaveChanges, func(events.Event) {
			sess.toasts.Info(tr.T(i18n.Saved))
		})
	}
}

// turn runs f as one event-loop turn: work posted from outside runs first,
// then f, then whatever f scheduled.
func (sess *session) turn(f func()) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.loop.RunPending()
	sess.loop.Turn(f)
}

// host connects a widget's toolbar to the server
type host struct {
	sess      *session
	refresher Refresher
}

func (h *host) Refresh(queryNames []string, setLoading func(loading bool)) {
	if h.refresher == nil {
		return
	}
	h.refresher.Refresh(queryNames, setLoading)
}

func (h *host) Download(fileName string) {
	h.sess.download = fileName
}

// applyQuery brings the widget in line with the view state in the URL.
// Sort, filter and search run before paging since they reset the page.
func applyQuery(w *grid.Widget, q *query.Query) {
	if !slices.Equal(q.Sort, w.Sort()) {
		w.OnTableChange(grid.TableChange{Action: grid.ActionSort, Sorter: q.Sort})
	}
	if filters := q.SortedFilters(); !maps.EqualFunc(filters, w.Filters(), slices.Equal[[]string]) {
		w.OnTableChange(grid.TableChange{Action: grid.ActionFilter, Filters: filters})
	}
	w.SetSearch(q.Search)

	want := q.HiddenSet()
	have := w.Props().HiddenColumns
	for key := range want {
		if !have[key] {
			w.ToggleColumn(key)
		}
	}
	for key := range have {
		if !want[key] {
			w.ToggleColumn(key)
		}
	}

	if q.Page > 0 || q.PageSize > 0 {
		p := w.Props().Pagination
		if q.Page > 0 {
			p.Current = q.Page
		}
		p.PageSize = q.PageSize
		w.OnTableChange(grid.TableChange{Action: grid.ActionPaginate, Pagination: p})
	}
}

// HandleGridRequest renders the grid named by the URL
func (s *Server) HandleGridRequest(w io.Writer, requestURL *url.URL, acceptLanguage string, setHeader func(key, value string)) *HandlerResult {
	q := query.NewQuery(requestURL)
	if q.Widget == "" {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: "widget parameter is required"}
	}
	sess, created, err := s.session(q, acceptLanguage)
	if err != nil {
		return &HandlerResult{StatusCode: http.StatusNotFound, Message: err.Error()}
	}
	if created {
		q.Session = sess.id
		if len(q.Sort) == 0 {
			q.Sort = sess.grid.Sort()
		}
	}

	var g grid.Grid
	var toasts []notify.Toast
	sess.turn(func() {
		applyQuery(sess.grid, q)
		g = sess.grid.Compose(sess.source)
		if !created {
			toasts = sess.toasts.Drain()
		}
	})
	if created {
		// Links must carry the new session
		return &HandlerResult{Redirect: q.ToURL()}
	}

	// The pager may have moved off a stale page
	q.Page = g.Toolbar.Current
	viewModel := views.BuildGridViewModel(g, q, i18n.ForAcceptLanguage(acceptLanguage), toasts)

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, viewModel); err != nil {
		s.log.WithError(err).Error("Template rendering error")
		return &HandlerResult{Error: err}
	}
	return nil
}

// HandleActionRequest applies one interaction and returns where the
// client goes next. Downloads write the CSV export to w instead.
func (s *Server) HandleActionRequest(w io.Writer, action string, requestURL *url.URL, form url.Values, setHeader func(key, value string)) *HandlerResult {
	q := query.NewQuery(requestURL)
	q.Path = BasePath
	if q.Session == "" {
		return &HandlerResult{StatusCode: http.StatusBadRequest, Message: "session parameter is required"}
	}
	sess, ok := s.sessions.Get(q.Session)
	if !ok || sess.name != q.Widget {
		// Expired: start over from the view state
		return &HandlerResult{Redirect: q.ToURL()}
	}

	get := func(key string) string {
		if _, ok := form[key]; ok {
			return form.Get(key)
		}
		return requestURL.Query().Get(key)
	}

	var result *HandlerResult
	sess.turn(func() {
		result = s.act(sess, action, q, get)
	})
	if result != nil {
		return result
	}

	if action == "download" {
		return s.writeCSV(w, sess, setHeader)
	}
	return &HandlerResult{Redirect: q.ToURL()}
}

// act runs inside a turn; it may rewrite q to change the redirect target
func (s *Server) act(sess *session, action string, q *query.Query, get func(string) string) *HandlerResult {
	w := sess.grid
	switch action {
	case "edit":
		w.BeginEdit(get("row"), get("col"))
	case "commit":
		row, col := get("row"), get("col")
		w.CommitEdit(row, col, editedValue(w, row, col, get("value")))
	case "save":
		w.Save()
	case "cancel":
		w.Cancel()
	case "click":
		w.RowClick(get("row"))
	case "hover":
		if get("on") == "true" {
			w.RowEnter(get("row"))
		} else {
			w.RowLeave(get("row"))
		}
	case "search":
		q.Search = get("q")
		q.Page = 1
		w.SetSearch(q.Search)
	case "refresh":
		w.Refresh()
	case "download":
		sess.download = ""
		w.Download()
	case "resize":
		i, err := strconv.Atoi(get("col"))
		if err != nil {
			return &HandlerResult{StatusCode: http.StatusBadRequest, Message: "invalid column"}
		}
		width, err := strconv.Atoi(get("width"))
		if err != nil {
			return &HandlerResult{StatusCode: http.StatusBadRequest, Message: "invalid width"}
		}
		w.ResizeStart(i, width)
		w.Resize(i, width)
		w.ResizeStop(i, width)
		if cols := w.Columns(); i >= 0 && i < len(cols) {
			for _, col := range w.Props().Columns {
				if col.Key == cols[i].Key && col.Width > 0 {
					q.Widths[col.Key] = col.Width
				}
			}
		}
	default:
		return &HandlerResult{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("unknown action %q", action)}
	}
	return nil
}

// editedValue types the submitted text like the original value: string
// cells stay strings, other cells are inferred.
func editedValue(w *grid.Widget, rowID, column, text string) records.Value {
	if rec, ok := w.Record(rowID); ok {
		for _, col := range w.Columns() {
			if col.Key == column && col.Value(rec).Kind() == records.KindString {
				return records.String(text)
			}
		}
	}
	return records.Infer(text)
}

// writeCSV exports every row that survives the current search and
// filters, in the current sort, with pending edits applied.
func (s *Server) writeCSV(w io.Writer, sess *session, setHeader func(key, value string)) *HandlerResult {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.download == "" {
		return &HandlerResult{StatusCode: http.StatusNotFound, Message: "download is not available"}
	}
	cols := sess.grid.Columns()
	changes := sess.grid.Changes()

	setHeader("Content-Type", "text/csv; charset=utf-8")
	setHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.download+".csv"))

	out := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.TitleText()
	}
	if err := out.Write(header); err != nil {
		return &HandlerResult{Error: fmt.Errorf("failed to write CSV header: %w", err)}
	}
	for _, rec := range sess.grid.Rows(sess.source) {
		line := make([]string, len(cols))
		for i, col := range cols {
			value := col.Value(rec)
			if edited, ok := changes.Edited(rec.ID(), col.Key); ok {
				value = edited
			}
			line[i] = value.Text()
		}
		if err := out.Write(line); err != nil {
			return &HandlerResult{Error: fmt.Errorf("failed to write CSV row: %w", err)}
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return &HandlerResult{Error: fmt.Errorf("failed to write CSV: %w", err)}
	}
	s.log.WithFields(logrus.Fields{"session": sess.id, "file": sess.download}).Info("Exported CSV")
	return nil
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		names := s.WidgetNames()
		if len(names) == 0 {
			http.Error(w, "no widgets registered", http.StatusNotFound)
			return
		}
		http.Redirect(w, r, BasePath+"?widget="+url.QueryEscape(names[0]), http.StatusFound)
	})
	mux.HandleFunc("GET "+BasePath, func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, r, s.HandleGridRequest(w, r.URL, r.Header.Get("Accept-Language"), w.Header().Set))
	})
	mux.HandleFunc(BasePath+"/{action}", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		s.respond(w, r, s.HandleActionRequest(w, r.PathValue("action"), r.URL, r.PostForm, w.Header().Set))
	})
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, result *HandlerResult) {
	switch {
	case result == nil:
	case result.Redirect != "":
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
	case result.Error != nil:
		// The body may already be partly written
		s.log.WithError(result.Error).WithField("path", r.URL.Path).Error("Request failed")
	default:
		http.Error(w, result.Message, result.StatusCode)
	}
}
