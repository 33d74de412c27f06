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

// Package events is the widget's event vocabulary and the handler registry
// the host binds to it.
package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/metrics"
)

// Name identifies a widget event
type Name string

const (
	SaveChanges     Name = "saveChanges"
	CancelChanges   Name = "cancelChanges"
	RowSelectChange Name = "rowSelectChange"
	RowClick        Name = "rowClick"
	FilterChange    Name = "filterChange"
	SortChange      Name = "sortChange"
)

// All lists the event vocabulary in display order
var All = []Name{SaveChanges, CancelChanges, RowSelectChange, RowClick, FilterChange, SortChange}

// Valid reports whether n belongs to the vocabulary
func (n Name) Valid() bool {
	for _, known := range All {
		if n == known {
			return true
		}
	}
	return false
}

// Event is delivered to handlers
type Event struct {
	Name    Name
	Payload any
}

// Handler reacts to a fired event
type Handler func(Event)

// Dispatcher is what the grid needs from the host's event framework
type Dispatcher interface {
	IsBound(name Name) bool
	Fire(name Name, payload any)
}

// Registry is a Dispatcher with bindable handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[Name][]Handler
	metrics  *metrics.Metrics
	log      *logrus.Entry
}

// NewRegistry creates an empty registry. m may be nil.
func NewRegistry(m *metrics.Metrics) *Registry {
	return &Registry{
		handlers: make(map[Name][]Handler),
		metrics:  m,
		log:      logrus.WithField("component", "events"),
	}
}

// Bind adds a handler for name
func (r *Registry) Bind(name Name, h Handler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], h)
}

// Unbind removes every handler for name
func (r *Registry) Unbind(name Name) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// IsBound reports whether name has at least one handler
func (r *Registry) IsBound(name Name) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[name]) > 0
}

// Bound returns the names with handlers, in vocabulary order
func (r *Registry) Bound() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []Name
	for _, name := range All {
		if len(r.handlers[name]) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// Fire calls the handlers of name in bind order. Firing an unbound event is
// a no-op.
func (r *Registry) Fire(name Name, payload any) {
	r.mu.RLock()
	handlers := append([]Handler(nil), r.handlers[name]...)
	r.mu.RUnlock()

	r.log.WithFields(logrus.Fields{"event": name, "handlers": len(handlers)}).Debug("fire")
	r.metrics.IncEvent(string(name))
	for _, h := range handlers {
		h(Event{Name: name, Payload: payload})
	}
}
