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

package datasources

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/config"
	"github.com/google/tablegrid/core/metrics"
	"github.com/google/tablegrid/core/records"
)

// Source is a loaded data source. It satisfies grid.Source; Version moves
// every time the records are replaced.
type Source struct {
	name string

	mu      sync.RWMutex
	rows    []records.Record
	version uint64
	loading bool
}

// Name returns the source name
func (s *Source) Name() string { return s.name }

// Records returns the current records
func (s *Source) Records() []records.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rows
}

// Version returns the revision of the records
func (s *Source) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// IsLoading reports whether a reload is in flight
func (s *Source) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Source) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *Source) replace(rows []records.Record) {
	s.mu.Lock()
	s.rows = rows
	s.version++
	s.loading = false
	s.mu.Unlock()
}

// Manager handles loading and caching of data sources.
// Source metadata is registered eagerly; data is loaded lazily on demand.
type Manager struct {
	mu sync.RWMutex

	// Source metadata indexed by name
	sources map[string]config.DataSource

	// Loaded sources indexed by name - populated lazily
	loaded map[string]*Source

	// Registered loaders indexed by source_type
	loaders map[string]Loader

	// Called after a source's records were replaced
	onReload []func(name string)

	// Base directory for resolving relative paths
	baseDir string

	metrics *metrics.Metrics
	log     *logrus.Entry
}

// NewManager creates a new data source manager with the json and csv
// loaders registered. m may be nil.
func NewManager(m *metrics.Metrics) *Manager {
	mgr := &Manager{
		sources: make(map[string]config.DataSource),
		loaded:  make(map[string]*Source),
		loaders: make(map[string]Loader),
		metrics: m,
		log:     logrus.WithField("component", "datasources"),
	}
	mgr.RegisterLoader(NewJSONLoader())
	mgr.RegisterLoader(NewCsvLoader())
	return mgr
}

// RegisterLoader registers a data source loader for a specific source type.
// If a loader is already registered for this type, it will be replaced.
func (m *Manager) RegisterLoader(loader Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[loader.SourceType()] = loader
}

// SetBaseDir sets the base directory for resolving relative file paths.
func (m *Manager) SetBaseDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseDir = dir
}

// AddSource registers source metadata. A loaded source of the same name is
// dropped so the next access reads the new definition.
func (m *Manager) AddSource(source config.DataSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[source.Name] = source
	delete(m.loaded, source.Name)
}

// OnReload registers f to run after a source's records were replaced.
// The server uses it to drop change sets that no longer match the data.
func (m *Manager) OnReload(f func(name string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, f)
}

// SourceNames returns all registered source names, sorted.
func (m *Manager) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QueryNames lists the sources a toolbar refresh reloads.
func (m *Manager) QueryNames() []string {
	return m.SourceNames()
}

// LoadData returns the source by name, loading it on first access.
func (m *Manager) LoadData(sourceName string) (*Source, error) {
	m.mu.RLock()
	if src, ok := m.loaded[sourceName]; ok {
		m.mu.RUnlock()
		return src, nil
	}
	m.mu.RUnlock()

	rows, err := m.read(sourceName)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have won the race.
	if src, ok := m.loaded[sourceName]; ok {
		return src, nil
	}
	src := &Source{name: sourceName}
	src.replace(rows)
	m.loaded[sourceName] = src
	m.log.WithFields(logrus.Fields{"source": sourceName, "rows": len(rows)}).Debug("Loaded source")
	return src, nil
}

// Reload re-reads a loaded source and swaps its records in place. Widgets
// holding the *Source see the new version on their next render.
func (m *Manager) Reload(sourceName string) error {
	src, err := m.LoadData(sourceName)
	if err != nil {
		return err
	}
	src.setLoading(true)
	rows, err := m.read(sourceName)
	if err != nil {
		src.setLoading(false)
		m.metrics.IncSourceReload(sourceName, false)
		return err
	}
	src.replace(rows)
	m.metrics.IncSourceReload(sourceName, true)
	m.log.WithFields(logrus.Fields{"source": sourceName, "rows": len(rows), "version": src.Version()}).Info("Reloaded source")

	m.mu.RLock()
	callbacks := append([]func(string){}, m.onReload...)
	m.mu.RUnlock()
	for _, f := range callbacks {
		f(sourceName)
	}
	return nil
}

// Refresh reloads the named sources, reporting progress through setLoading.
// Failures are logged; the remaining sources are still reloaded.
func (m *Manager) Refresh(queryNames []string, setLoading func(loading bool)) {
	if setLoading != nil {
		setLoading(true)
		defer setLoading(false)
	}
	for _, name := range queryNames {
		if err := m.Reload(name); err != nil {
			m.log.WithError(err).WithField("source", name).Warn("Refresh failed")
		}
	}
}

// InvalidateCache forgets a loaded source, forcing a fresh load on next access.
func (m *Manager) InvalidateCache(sourceName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loaded, sourceName)
}

// IsLoaded returns whether data for a source is currently cached.
func (m *Manager) IsLoaded(sourceName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.loaded[sourceName]
	return ok
}

func (m *Manager) read(sourceName string) ([]records.Record, error) {
	m.mu.RLock()
	source, ok := m.sources[sourceName]
	if !ok {
		m.mu.RUnlock()
		return nil, fmt.Errorf("source %q not found", sourceName)
	}
	loader, hasLoader := m.loaders[source.SourceType]
	baseDir := m.baseDir
	m.mu.RUnlock()

	if !hasLoader {
		return nil, fmt.Errorf("no loader registered for source type %q", source.SourceType)
	}

	rows, err := loader.Load(resolveConfigPaths(source.Config(), baseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to load source %q: %w", sourceName, err)
	}
	return rows, nil
}

// resolveConfigPaths resolves a relative file_path against baseDir.
func resolveConfigPaths(cfg map[string]string, baseDir string) map[string]string {
	if baseDir == "" {
		return cfg
	}
	resolved := make(map[string]string, len(cfg))
	for k, v := range cfg {
		if k == "file_path" && v != "" && !filepath.IsAbs(v) {
			v = filepath.Join(baseDir, v)
		}
		resolved[k] = v
	}
	return resolved
}

// filePaths maps the absolute file path of every file-backed source to its
// source names.
func (m *Manager) filePaths() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make(map[string][]string)
	for name, source := range m.sources {
		if source.FilePath == "" {
			continue
		}
		path := resolveConfigPaths(source.Config(), m.baseDir)["file_path"]
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		paths[path] = append(paths[path], name)
	}
	return paths
}

// Watch reloads loaded sources whenever their files are written or
// replaced. It watches the parent directories, since editors often swap
// files by rename, and returns when ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	paths := m.filePaths()
	if len(paths) == 0 {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for path := range paths {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	mask := fsnotify.Create | fsnotify.Write
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&mask == 0 {
				continue
			}
			name := evt.Name
			if abs, err := filepath.Abs(name); err == nil {
				name = abs
			}
			for _, source := range paths[name] {
				if !m.IsLoaded(source) {
					continue
				}
				if err := m.Reload(source); err != nil {
					m.log.WithError(err).WithField("source", source).Warn("Reload after file change failed")
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			m.log.WithError(err).Warn("File watcher error")
		}
	}
}
