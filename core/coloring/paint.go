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

// Package coloring evaluates per-row color functions and layers the
// selection and hover overlays on top of the resulting base color.
package coloring

import (
	"strings"

	"github.com/google/tablegrid/core/records"
)

const (
	selectedStep = 0.2
	hoverStep    = 0.1
)

// Context is what a row color function sees for one cell
type Context struct {
	CurrentRow records.Record
	// CurrentIndex is the row's position on the current page
	CurrentIndex int
	// CurrentOriginalIndex is the row's position in the source data
	CurrentOriginalIndex int
	ColumnTitle          string
}

// ColorFunc maps a cell context to a CSS color. "" means no color.
type ColorFunc func(Context) string

// Overlays are the interaction states of the row a cell belongs to
type Overlays struct {
	Selected bool
	Hover    bool
}

// PaintLayer is an ordered stack of solid color layers, bottom first.
// An empty PaintLayer means the cell keeps its default background.
type PaintLayer struct {
	layers []string
}

// Layers returns the colors bottom to top
func (p PaintLayer) Layers() []string {
	out := make([]string, len(p.layers))
	copy(out, p.layers)
	return out
}

// Len returns the number of layers
func (p PaintLayer) Len() int {
	return len(p.layers)
}

// Empty reports whether the cell has no background override
func (p PaintLayer) Empty() bool {
	return len(p.layers) == 0
}

// Background renders the layers as a CSS background value. CSS paints the
// first image on top, so layers are emitted topmost first.
func (p PaintLayer) Background() string {
	if len(p.layers) == 0 {
		return ""
	}
	parts := make([]string, len(p.layers))
	for i, color := range p.layers {
		parts[len(p.layers)-1-i] = gradient(color)
	}
	return strings.Join(parts, ",")
}

// Top returns the visually dominant color, or "" when empty
func (p PaintLayer) Top() string {
	if len(p.layers) == 0 {
		return ""
	}
	return p.layers[len(p.layers)-1]
}

func gradient(color string) string {
	return "linear-gradient(" + color + ", " + color + ")"
}

// Paint evaluates fn for ctx and stacks the overlays requested by o.
// Without a base color no overlay is added.
func Paint(fn ColorFunc, ctx Context, o Overlays) PaintLayer {
	if fn == nil {
		return PaintLayer{}
	}
	base := strings.TrimSpace(fn(ctx))
	if base == "" {
		return PaintLayer{}
	}
	layers := make([]string, 1, 3)
	layers[0] = base
	if o.Selected {
		layers = append(layers, SelectedVariant(base))
	}
	if o.Hover {
		layers = append(layers, HoverVariant(base))
	}
	return PaintLayer{layers: layers}
}

// SelectedVariant returns the overlay color for a selected row
func SelectedVariant(color string) string {
	return shift(color, selectedStep)
}

// HoverVariant returns the overlay color for a hovered row
func HoverVariant(color string) string {
	return shift(color, hoverStep)
}

// shift lightens dark colors and darkens light ones so the overlay stays
// visible on both. Colors that cannot be parsed are returned unchanged.
func shift(color string, amount float64) string {
	c, err := ParseColor(color)
	if err != nil {
		return color
	}
	if c.IsDark() {
		return c.Lighten(amount).String()
	}
	return c.Darken(amount).String()
}
