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
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/google/tablegrid/core/expr"
	"github.com/google/tablegrid/core/records"
)

// Names bound for row color expressions
const (
	NameCurrentRow           = "currentRow"
	NameCurrentIndex         = "currentIndex"
	NameCurrentOriginalIndex = "currentOriginalIndex"
	NameColumnTitle          = "columnTitle"
)

// Compiler turns row color expressions into ColorFuncs, remembering
// compiled expressions so re-renders do not parse again
type Compiler struct {
	cache *lru.Cache[string, *expr.Expression]
	log   *logrus.Entry
}

// NewCompiler creates a compiler caching up to size expressions
func NewCompiler(size int) (*Compiler, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, *expr.Expression](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create expression cache: %w", err)
	}
	return &Compiler{
		cache: cache,
		log:   logrus.WithField("component", "coloring"),
	}, nil
}

// Compile returns the ColorFunc for source. An empty source yields a nil
// func (no coloring). A bare color such as "#fafafa" colors every cell.
// Sources may be wrapped in {{ }} as written in the editor.
func (c *Compiler) Compile(source string) (ColorFunc, error) {
	source = unwrap(source)
	if source == "" {
		return nil, nil
	}
	if _, err := ParseColor(source); err == nil {
		constant := source
		return func(Context) string { return constant }, nil
	}

	compiled, ok := c.cache.Get(source)
	if !ok {
		var err error
		compiled, err = expr.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to compile row color: %w", err)
		}
		if err := compiled.CheckNames(NameCurrentRow, NameCurrentIndex, NameCurrentOriginalIndex, NameColumnTitle); err != nil {
			return nil, fmt.Errorf("failed to compile row color: %w", err)
		}
		c.cache.Add(source, compiled)
	}

	return func(ctx Context) string {
		val, err := compiled.Eval(Env(ctx))
		if err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"expr": source,
				"row":  ctx.CurrentOriginalIndex,
			}).Debug("row color evaluation failed")
			return ""
		}
		if val.Kind() != records.KindString {
			return ""
		}
		return val.Str()
	}, nil
}

// Len returns the number of cached expressions
func (c *Compiler) Len() int {
	return c.cache.Len()
}

// Env exposes a cell context to expressions
func Env(ctx Context) expr.Env {
	return func(name string) (records.Value, bool) {
		switch name {
		case NameCurrentRow:
			return ctx.CurrentRow.AsValue(), true
		case NameCurrentIndex:
			return records.Number(float64(ctx.CurrentIndex)), true
		case NameCurrentOriginalIndex:
			return records.Number(float64(ctx.CurrentOriginalIndex)), true
		case NameColumnTitle:
			return records.String(ctx.ColumnTitle), true
		}
		return records.Null(), false
	}
}

func unwrap(source string) string {
	source = strings.TrimSpace(source)
	if strings.HasPrefix(source, "{{") && strings.HasSuffix(source, "}}") {
		source = strings.TrimSpace(source[2 : len(source)-2])
	}
	return source
}
