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
package coloring

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA is a parsed CSS color. Color carries the channels; A is the alpha.
type RGBA struct {
	colorful.Color
	A float64
}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"navy":    "#000080",
	"teal":    "#008080",
	"maroon":  "#800000",
	"olive":   "#808000",
	"lime":    "#00ff00",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"fuchsia": "#ff00ff",
	"magenta": "#ff00ff",
}

// ParseColor parses hex (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb(), rgba()
// and a small set of named colors
func ParseColor(s string) (RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return RGBA{}, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunc(s)
	}
	return RGBA{}, fmt.Errorf("unsupported color %q", s)
}

// parseHex splits off the alpha digits colorful does not read
func parseHex(s string) (RGBA, error) {
	alpha := 1.0
	switch len(s) {
	case 5, 9:
		digits := s[len(s)*3/4+1:]
		if len(digits) == 1 {
			digits += digits
		}
		a, err := strconv.ParseUint(digits, 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %s: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:len(s)-len(s)/4]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid hex color %s: %w", s, err)
	}
	return RGBA{Color: c, A: alpha}, nil
}

func parseFunc(s string) (RGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var channels [3]float64
	for i := range channels {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		channels[i] = math.Round(f) / 255
	}
	c := RGBA{Color: colorful.Color{R: channels[0], G: channels[1], B: channels[2]}.Clamped(), A: 1}
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.A = math.Max(0, math.Min(1, a))
	}
	return c, nil
}

// String formats the color as #rrggbb, or rgba() when translucent
func (c RGBA) String() string {
	if c.A >= 1 {
		return c.Clamped().Hex()
	}
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// IsDark reports whether text on this color should be light
func (c RGBA) IsDark() bool {
	r, g, b := c.Clamped().RGB255()
	return 0.299*float64(r)+0.587*float64(g)+0.114*float64(b) < 128
}

// Lighten raises HSL lightness by amount (0..1)
func (c RGBA) Lighten(amount float64) RGBA {
	h, s, l := c.Hsl()
	return RGBA{Color: colorful.Hsl(h, s, math.Min(1, l+amount)), A: c.A}
}

// Darken lowers HSL lightness by amount (0..1)
func (c RGBA) Darken(amount float64) RGBA {
	h, s, l := c.Hsl()
	return RGBA{Color: colorful.Hsl(h, s, math.Max(0, l-amount)), A: c.A}
}
