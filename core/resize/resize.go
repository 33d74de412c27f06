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

// Package resize tracks live column-resize drags separately from the
// committed column widths they eventually write back.
package resize

import (
	"github.com/sirupsen/logrus"
)

// MinColumnWidth is the floor applied to every rendered column width
const MinColumnWidth = 55

// State is the active resize session. ColumnIndex -1 means none.
// LiveWidth -1 means the column could not be measured yet and renders at
// auto width until the first drag move.
type State struct {
	ColumnIndex int
	LiveWidth   int
}

// None returns the idle state
func None() State {
	return State{ColumnIndex: -1, LiveWidth: -1}
}

// Active reports whether a session is in progress
func (s State) Active() bool {
	return s.ColumnIndex >= 0
}

// Commit is the width written back when a drag ends
type Commit struct {
	ColumnIndex int
	Width       int
}

// Start begins a session on column i. measured is the column's current
// rendered width; zero or negative means it is not laid out yet.
func Start(s State, i, measured int) State {
	if measured <= 0 {
		return State{ColumnIndex: i, LiveWidth: -1}
	}
	return State{ColumnIndex: i, LiveWidth: measured}
}

// Update applies a drag move. A zero width is a spurious event and is
// ignored; a move on another column takes the session over.
func Update(s State, i, width int) State {
	if width == 0 {
		return s
	}
	return State{ColumnIndex: i, LiveWidth: width}
}

// Finish ends the session and returns the width to persist, never below
// MinColumnWidth
func Finish(s State, i, final int) (State, Commit) {
	if final < MinColumnWidth {
		final = MinColumnWidth
	}
	return None(), Commit{ColumnIndex: i, Width: final}
}

// EffectiveWidth is the width column i lays out with: the live width
// during its own session, else committed
func EffectiveWidth(s State, i, committed int) int {
	if s.ColumnIndex == i && s.LiveWidth > 0 {
		return s.LiveWidth
	}
	if s.ColumnIndex == i && s.LiveWidth < 0 {
		return 0
	}
	return committed
}

// ColumnLayout is how a width is presented to the table primitive
type ColumnLayout struct {
	Width    int
	Auto     bool
	MinWidth int
}

// Layout maps a width to its layout: zero or negative is auto, anything
// narrower than MinColumnWidth is raised to it
func Layout(width int) ColumnLayout {
	switch {
	case width <= 0:
		return ColumnLayout{Auto: true, MinWidth: MinColumnWidth}
	case width < MinColumnWidth:
		return ColumnLayout{Width: MinColumnWidth, MinWidth: MinColumnWidth}
	default:
		return ColumnLayout{Width: width, MinWidth: MinColumnWidth}
	}
}

// Enabled reports whether resizing is offered. View mode disables it
// unless resizing was explicitly granted there.
func Enabled(viewMode, viewModeResizable bool) bool {
	return !viewMode || viewModeResizable
}

// Manager owns the single resize session of one grid
type Manager struct {
	state State
	log   *logrus.Entry
}

// NewManager creates an idle manager
func NewManager() *Manager {
	return &Manager{
		state: None(),
		log:   logrus.WithField("component", "resize"),
	}
}

// State returns the current session
func (m *Manager) State() State {
	return m.state
}

// Start begins a session on column i, discarding any other session
func (m *Manager) Start(i, measured int) {
	if m.state.Active() && m.state.ColumnIndex != i {
		m.log.WithFields(logrus.Fields{"from": m.state.ColumnIndex, "to": i}).Debug("resize session replaced")
	}
	m.state = Start(m.state, i, measured)
}

// Update applies a drag move
func (m *Manager) Update(i, width int) {
	m.state = Update(m.state, i, width)
}

// Stop commits the drag on column i, invoking onWidthResize with the
// final width, and returns the commit
func (m *Manager) Stop(i, final int, onWidthResize func(width int)) Commit {
	var c Commit
	m.state, c = Finish(m.state, i, final)
	m.log.WithFields(logrus.Fields{"column": c.ColumnIndex, "width": c.Width}).Debug("resize committed")
	if onWidthResize != nil {
		onWidthResize(c.Width)
	}
	return c
}

// Cancel discards the session. Committed widths were never touched.
func (m *Manager) Cancel() {
	m.state = None()
}

// EffectiveWidth returns the width column i lays out with
func (m *Manager) EffectiveWidth(i, committed int) int {
	return EffectiveWidth(m.state, i, committed)
}
