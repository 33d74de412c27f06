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

package resize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewManager()
	if m.State() != None() {
		t.Fatalf("new manager should be idle, got %+v", m.State())
	}

	m.Start(2, 120)
	m.Update(2, 140)
	m.Update(2, 0) // ignored
	m.Update(2, 150)
	if got := m.State(); got != (State{ColumnIndex: 2, LiveWidth: 150}) {
		t.Fatalf("unexpected state %+v", got)
	}

	if got := m.EffectiveWidth(2, 120); got != 150 {
		t.Errorf("live width should override committed during drag, got %d", got)
	}
	if got := m.EffectiveWidth(1, 80); got != 80 {
		t.Errorf("other columns keep committed width, got %d", got)
	}

	var persisted []int
	c := m.Stop(2, 150, func(w int) { persisted = append(persisted, w) })
	if diff := cmp.Diff(Commit{ColumnIndex: 2, Width: 150}, c); diff != "" {
		t.Errorf("commit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{150}, persisted); diff != "" {
		t.Errorf("onWidthResize calls mismatch (-want +got):\n%s", diff)
	}
	if m.State() != None() {
		t.Errorf("state should reset after commit, got %+v", m.State())
	}
}

func TestLastMoveWins(t *testing.T) {
	s := Start(None(), 0, 100)
	for _, w := range []int{101, 130, 90, 0, 95} {
		s = Update(s, 0, w)
	}
	if s.LiveWidth != 95 {
		t.Errorf("expected the last non-zero move to win, got %d", s.LiveWidth)
	}
}

func TestUnmeasuredFallsBackToAuto(t *testing.T) {
	m := NewManager()
	m.Start(1, 0)
	if got := m.EffectiveWidth(1, 0); got != 0 {
		t.Errorf("unmeasured column should render auto, got %d", got)
	}
	if l := Layout(m.EffectiveWidth(1, 0)); !l.Auto || l.MinWidth != MinColumnWidth {
		t.Errorf("expected auto layout with floor, got %+v", l)
	}
	m.Update(1, 70)
	if got := m.EffectiveWidth(1, 0); got != 70 {
		t.Errorf("first move should give a live width, got %d", got)
	}
}

func TestStartingNewSessionKeepsCommittedWidths(t *testing.T) {
	m := NewManager()
	m.Start(0, 100)
	m.Update(0, 180)
	m.Start(3, 60)
	if got := m.EffectiveWidth(0, 100); got != 100 {
		t.Errorf("abandoned session must not leak its live width, got %d", got)
	}
	m.Cancel()
	if m.State().Active() {
		t.Error("Cancel should end the session")
	}
}

func TestFinishClampsToFloor(t *testing.T) {
	_, c := Finish(Start(None(), 0, 100), 0, 20)
	if c.Width != MinColumnWidth {
		t.Errorf("committed width = %d, want %d", c.Width, MinColumnWidth)
	}
}

func TestLayoutFloor(t *testing.T) {
	tests := []struct {
		width int
		want  ColumnLayout
	}{
		{-1, ColumnLayout{Auto: true, MinWidth: 55}},
		{0, ColumnLayout{Auto: true, MinWidth: 55}},
		{1, ColumnLayout{Width: 55, MinWidth: 55}},
		{54, ColumnLayout{Width: 55, MinWidth: 55}},
		{55, ColumnLayout{Width: 55, MinWidth: 55}},
		{200, ColumnLayout{Width: 200, MinWidth: 55}},
	}
	for _, tt := range tests {
		got := Layout(tt.width)
		if got != tt.want {
			t.Errorf("Layout(%d) = %+v, want %+v", tt.width, got, tt.want)
		}
		if !got.Auto && got.Width < MinColumnWidth {
			t.Errorf("Layout(%d) renders narrower than the floor", tt.width)
		}
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		viewMode, resizable, want bool
	}{
		{false, false, true},
		{false, true, true},
		{true, false, false},
		{true, true, true},
	}
	for _, tt := range tests {
		if got := Enabled(tt.viewMode, tt.resizable); got != tt.want {
			t.Errorf("Enabled(%v, %v) = %v, want %v", tt.viewMode, tt.resizable, got, tt.want)
		}
	}
}
